package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// The admin_credential table holds at most one row (id = 1).
type CredentialRepo struct {
	db *DB
}

// NewCredentialRepo creates a new CredentialRepo backed by the given DB.
func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Load returns the stored credential, with ok=false when the row is missing
// or holds an empty hash.
func (r *CredentialRepo) Load(ctx context.Context) (model.AdminCredential, bool, error) {
	const query = `SELECT password_hash FROM admin_credential WHERE id = 1`

	var cred model.AdminCredential
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(&cred.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AdminCredential{}, false, nil
	}
	if err != nil {
		return model.AdminCredential{}, false, fmt.Errorf("load credential: %w", err)
	}
	if cred.PasswordHash == "" {
		return model.AdminCredential{}, false, nil
	}
	return cred, true, nil
}

// Save stores or replaces the credential row.
func (r *CredentialRepo) Save(ctx context.Context, cred model.AdminCredential) error {
	const query = `INSERT OR REPLACE INTO admin_credential (id, password_hash, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)`

	if _, err := r.db.Writer.ExecContext(ctx, query, cred.PasswordHash); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}
