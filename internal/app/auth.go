package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type Registration struct {
	Username        string `validate:"required,alphanum,min=3,max=64"`
	Name            string `validate:"required,max=200"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8,max=72"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Register creates an account. Duplicate usernames fail with a conflict and the
// credential document is left as it was.
func (s *Service) Register(ctx context.Context, reg Registration) (*domain.UserCredential, error) {
	reg.Username = strings.ToLower(strings.TrimSpace(reg.Username))
	reg.Email = strings.TrimSpace(reg.Email)
	if err := s.validate.StructCtx(ctx, reg); err != nil {
		s.observeAuth("register", "invalid")
		return nil, invalid(err)
	}

	exists, err := s.deps.Credentials.Exists(ctx, reg.Username)
	if err != nil {
		return nil, structured(err)
	}
	if exists {
		s.observeAuth("register", "taken")
		return nil, structured(domain.ErrUsernameTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := domain.UserCredential{
		Username:     reg.Username,
		Name:         strings.TrimSpace(reg.Name),
		PasswordHash: string(hash),
		Email:        reg.Email,
	}
	if err := s.deps.Credentials.Register(ctx, cred); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			s.observeAuth("register", "taken")
		}
		return nil, structured(err)
	}

	s.observeAuth("register", "ok")
	slog.InfoContext(ctx, "User registered", "username", cred.Username)
	return &cred, nil
}

// Authenticate checks a username and password. Unknown users and wrong passwords
// fail the same way.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.UserCredential, error) {
	cred, err := s.deps.Credentials.Lookup(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, structured(err)
	}
	if cred == nil {
		s.observeAuth("login", "failed")
		return nil, structured(domain.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		s.observeAuth("login", "failed")
		return nil, structured(domain.ErrInvalidCredentials)
	}

	s.observeAuth("login", "ok")
	return cred, nil
}

func (s *Service) observeAuth(event, result string) {
	if s.deps.StoreMetrics != nil {
		s.deps.StoreMetrics.Registration.WithLabelValues(event, result).Inc()
	}
}
