package domain

import "context"

// UserCredential is one registered account. PasswordHash is never plaintext.
type UserCredential struct {
	Username     string `validate:"required,alphanum,min=3,max=64"`
	Name         string `validate:"required,max=200"`
	PasswordHash string `validate:"required"`
	Email        string `validate:"required,email"`
}

type CredentialStore interface {
	Exists(ctx context.Context, username string) (bool, error)
	Register(ctx context.Context, cred UserCredential) error
	Lookup(ctx context.Context, username string) (*UserCredential, error)
}
