package driven

import (
	"context"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

// CredentialStore defines the driven port for the single admin credential.
type CredentialStore interface {
	// Load returns the stored credential. ok is false when no credential has
	// been written yet or the stored content is unreadable as a credential
	// (malformed JSON, empty hash); callers treat both as "not initialized".
	Load(ctx context.Context) (cred model.AdminCredential, ok bool, err error)

	// Save replaces the stored credential.
	Save(ctx context.Context, cred model.AdminCredential) error
}
