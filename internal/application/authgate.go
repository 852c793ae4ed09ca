package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// DefaultPassword is the well-known admin password written on first start.
// Operators are expected to rotate it through Change.
const DefaultPassword = "admin123"

// MinPasswordLength is the shortest password ValidateNewPassword accepts.
const MinPasswordLength = 6

// DefaultPasswordWarning is returned by DefaultCredentialWarning while the
// stored credential still matches DefaultPassword.
const DefaultPasswordWarning = "You are using the default password: " + DefaultPassword + ". Please change it immediately!"

// ErrWeakPassword is returned by ValidateNewPassword.
var ErrWeakPassword = errors.New("password must be at least 6 characters long")

// ValidateNewPassword applies the password policy to a replacement password.
func ValidateNewPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// AuthGate guards administrative operations behind the single shared admin
// credential. It holds no session state; every call reads the store.
type AuthGate struct {
	store  driven.CredentialStore
	hasher Hasher
	logger *slog.Logger
}

// NewAuthGate creates an AuthGate. hasher is used for newly written hashes;
// verification adapts to whatever format is stored.
func NewAuthGate(store driven.CredentialStore, hasher Hasher, logger *slog.Logger) *AuthGate {
	if hasher == nil {
		hasher = SHA256Hasher{}
	}
	return &AuthGate{store: store, hasher: hasher, logger: logger}
}

// EnsureInitialized writes the hash of DefaultPassword when no usable
// credential is stored. Missing and malformed credentials are treated alike.
func (g *AuthGate) EnsureInitialized(ctx context.Context) error {
	_, err := g.current(ctx)
	return err
}

// Verify reports whether candidate matches the stored credential.
func (g *AuthGate) Verify(ctx context.Context, candidate string) (bool, error) {
	cred, err := g.current(ctx)
	if err != nil {
		return false, err
	}
	return hasherFor(cred.PasswordHash).Matches(cred.PasswordHash, candidate), nil
}

// Change replaces the credential with a hash of newPassword, but only when
// oldPassword verifies. On a failed verification it returns false and leaves
// the stored credential untouched.
func (g *AuthGate) Change(ctx context.Context, oldPassword, newPassword string) (bool, error) {
	ok, err := g.Verify(ctx, oldPassword)
	if err != nil {
		return false, err
	}
	if !ok {
		g.logger.Warn("admin password change rejected")
		return false, nil
	}

	hash, err := g.hasher.Hash(newPassword)
	if err != nil {
		return false, err
	}
	if err := g.store.Save(ctx, model.AdminCredential{PasswordHash: hash}); err != nil {
		return false, fmt.Errorf("change password: %w", err)
	}

	g.logger.Info("admin password changed")
	return true, nil
}

// DefaultCredentialWarning returns DefaultPasswordWarning while the stored
// credential still matches DefaultPassword, and "" otherwise.
func (g *AuthGate) DefaultCredentialWarning(ctx context.Context) (string, error) {
	isDefault, err := g.Verify(ctx, DefaultPassword)
	if err != nil {
		return "", err
	}
	if isDefault {
		return DefaultPasswordWarning, nil
	}
	return "", nil
}

// current loads the credential, initializing it first when necessary.
func (g *AuthGate) current(ctx context.Context) (model.AdminCredential, error) {
	cred, ok, err := g.store.Load(ctx)
	if err != nil {
		return model.AdminCredential{}, fmt.Errorf("load credential: %w", err)
	}
	if ok && wellFormedHash(cred.PasswordHash) {
		return cred, nil
	}
	if ok {
		g.logger.Warn("stored admin credential is not a recognized hash, resetting to default")
	}

	hash, err := g.hasher.Hash(DefaultPassword)
	if err != nil {
		return model.AdminCredential{}, err
	}
	cred = model.AdminCredential{PasswordHash: hash}
	if err := g.store.Save(ctx, cred); err != nil {
		return model.AdminCredential{}, fmt.Errorf("initialize credential: %w", err)
	}

	g.logger.Warn("admin credential initialized with default password")
	return cred, nil
}
