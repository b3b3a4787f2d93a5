package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"storefront/pkg/logger"
)

var (
	// ErrMissingFields indicates a required input was blank.
	ErrMissingFields = errors.New("all fields are required")
	// ErrPasswordMismatch indicates the repeated password differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidCredentials indicates an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Registration is the sign-up form.
type Registration struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
	Email          string `json:"email"`
}

// Observer is told about registrations and login attempts.
type Observer interface {
	Registered()
	LoginAttempted(ok bool)
}

// Service implements registration and login over a Repository.
type Service struct {
	repo     Repository
	log      *logger.Logger
	cost     int
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithCost sets the bcrypt cost used for new passwords.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithObserver registers o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService returns a Service storing accounts in repo.
func NewService(repo Repository, log *logger.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, log: log, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates r and creates the account.
func (s *Service) Register(ctx context.Context, r Registration) (Account, error) {
	username := strings.TrimSpace(r.Username)
	password := strings.TrimSpace(r.Password)
	repeat := strings.TrimSpace(r.RepeatPassword)
	email := strings.TrimSpace(r.Email)

	if username == "" || password == "" || repeat == "" || email == "" {
		return Account{}, ErrMissingFields
	}
	if password != repeat {
		return Account{}, ErrPasswordMismatch
	}
	if !emailPattern.MatchString(email) {
		return Account{}, ErrInvalidEmail
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Account{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.repo.Get(ctx, username); err == nil {
		return Account{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}
	a := Account{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		City:         "",
		Orders:       []string{},
	}
	if err := s.repo.Add(ctx, a); err != nil {
		return Account{}, err
	}

	s.log.Info(ctx, "account registered", "username", username)
	if s.observer != nil {
		s.observer.Registered()
	}
	return a, nil
}

// Login checks the credentials and returns the account.
func (s *Service) Login(ctx context.Context, username, password string) (Account, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return Account{}, ErrMissingFields
	}

	a, err := s.login(ctx, username, password)
	if s.observer != nil {
		s.observer.LoginAttempted(err == nil)
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Service) login(ctx context.Context, username, password string) (Account, error) {
	a, err := s.repo.Get(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, fmt.Errorf("lookup username: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		s.log.Info(ctx, "login rejected", "username", username)
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// Get returns the stored account for username.
func (s *Service) Get(ctx context.Context, username string) (Account, error) {
	return s.repo.Get(ctx, username)
}
