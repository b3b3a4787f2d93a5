package memory

import (
	"testing"

	"storefront/pkg/account/accounttest"
)

func TestRepository(t *testing.T) {
	accounttest.RunRepository(t, New())
}
