package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo stores the admin credential as a single JSON object
// {"password_hash": "..."} in its own file.
type CredentialRepo struct {
	path string
	mu   sync.Mutex
}

// NewCredentialRepo creates a CredentialRepo backed by the file at path.
func NewCredentialRepo(path string) *CredentialRepo {
	return &CredentialRepo{path: path}
}

// Load returns the stored credential. A missing file, malformed JSON or an
// empty hash all report ok=false so the caller re-initializes.
func (r *CredentialRepo) Load(_ context.Context) (model.AdminCredential, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists, err := readFile(r.path)
	if err != nil {
		return model.AdminCredential{}, false, err
	}
	if !exists {
		return model.AdminCredential{}, false, nil
	}

	var cred model.AdminCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		return model.AdminCredential{}, false, nil
	}
	if cred.PasswordHash == "" {
		return model.AdminCredential{}, false, nil
	}
	return cred, true, nil
}

// Save replaces the credential file.
func (r *CredentialRepo) Save(_ context.Context, cred model.AdminCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeFile(r.path, cred); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}
