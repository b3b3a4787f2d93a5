package sqlite

import (
	"path/filepath"
	"testing"

	"storefront/pkg/account/accounttest"
)

func TestRepository(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "accounts.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()
	accounttest.RunRepository(t, repo)
}
