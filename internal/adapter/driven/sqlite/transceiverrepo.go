package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TransceiverStore = (*TransceiverRepo)(nil)

// transceiverColumns lists the data columns in model.Fields order.
const transceiverColumns = `sku, name, form_factor, data_rate, wavelength, reach, connector, temperature, power, description, status`

// TransceiverRepo is the SQLite implementation of the TransceiverStore port.
// Stored order is insertion order via the autoincrement row id; the UNIQUE
// constraint on sku enforces key uniqueness.
type TransceiverRepo struct {
	db *DB
}

// NewTransceiverRepo creates a new TransceiverRepo backed by the given DB.
func NewTransceiverRepo(db *DB) *TransceiverRepo {
	return &TransceiverRepo{db: db}
}

// ListAll returns every transceiver in insertion order.
func (r *TransceiverRepo) ListAll(ctx context.Context) ([]model.Transceiver, error) {
	const query = `SELECT ` + transceiverColumns + ` FROM transceivers ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transceivers: %w", err)
	}
	defer rows.Close()

	all := []model.Transceiver{}
	for rows.Next() {
		t, err := scanTransceiver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transceiver: %w", err)
		}
		all = append(all, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transceivers: %w", err)
	}

	return all, nil
}

// Get returns the transceiver with the given SKU, or nil, nil if absent.
func (r *TransceiverRepo) Get(ctx context.Context, sku string) (*model.Transceiver, error) {
	const query = `SELECT ` + transceiverColumns + ` FROM transceivers WHERE sku = ?`

	t, err := scanTransceiver(r.db.Reader.QueryRowContext(ctx, query, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transceiver %s: %w", sku, err)
	}
	return &t, nil
}

// Add inserts t. Returns false without error when the SKU already exists.
func (r *TransceiverRepo) Add(ctx context.Context, t model.Transceiver) (bool, error) {
	if t.SKU == "" {
		return false, driven.ErrSKURequired
	}

	const query = `INSERT INTO transceivers (` + transceiverColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sku) DO NOTHING`

	result, err := r.db.Writer.ExecContext(ctx, query,
		t.SKU, t.Name, t.FormFactor, t.DataRate, t.Wavelength, t.Reach,
		t.Connector, t.Temperature, t.Power, t.Description, t.Status,
	)
	if err != nil {
		return false, fmt.Errorf("add transceiver %s: %w", t.SKU, err)
	}

	return affected(result)
}

// Update replaces every data column of the record keyed by sku. The key
// itself is never rewritten.
func (r *TransceiverRepo) Update(ctx context.Context, sku string, t model.Transceiver) (bool, error) {
	const query = `UPDATE transceivers SET
		name = ?, form_factor = ?, data_rate = ?, wavelength = ?, reach = ?,
		connector = ?, temperature = ?, power = ?, description = ?, status = ?
		WHERE sku = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		t.Name, t.FormFactor, t.DataRate, t.Wavelength, t.Reach,
		t.Connector, t.Temperature, t.Power, t.Description, t.Status,
		sku,
	)
	if err != nil {
		return false, fmt.Errorf("update transceiver %s: %w", sku, err)
	}

	return affected(result)
}

// Delete removes the transceiver with the given SKU.
func (r *TransceiverRepo) Delete(ctx context.Context, sku string) (bool, error) {
	const query = `DELETE FROM transceivers WHERE sku = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, sku)
	if err != nil {
		return false, fmt.Errorf("delete transceiver %s: %w", sku, err)
	}

	return affected(result)
}

// DistinctValues returns the sorted unique non-empty values of field. The
// field name is checked against model.Fields before it reaches the query.
func (r *TransceiverRepo) DistinctValues(ctx context.Context, field string) ([]string, error) {
	if !slices.Contains(model.Fields, field) {
		return []string{}, nil
	}

	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM transceivers WHERE %[1]s <> '' ORDER BY %[1]s`, field)

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", field, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", field, err)
	}

	return values, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransceiver(s scanner) (model.Transceiver, error) {
	var t model.Transceiver
	err := s.Scan(
		&t.SKU, &t.Name, &t.FormFactor, &t.DataRate, &t.Wavelength, &t.Reach,
		&t.Connector, &t.Temperature, &t.Power, &t.Description, &t.Status,
	)
	return t, err
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}
	return rows > 0, nil
}
