package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TransceiverStore = (*TransceiverRepo)(nil)

// TransceiverRepo stores the catalog as a top-level JSON array in a single
// file. A missing file is an empty catalog. The mutex serializes
// read-modify-write cycles within this process only; separate processes
// writing the same file race and the last writer wins.
type TransceiverRepo struct {
	path string
	mu   sync.Mutex
}

// NewTransceiverRepo creates a TransceiverRepo backed by the file at path.
// The file is not touched until the first operation.
func NewTransceiverRepo(path string) *TransceiverRepo {
	return &TransceiverRepo{path: path}
}

// Path returns the backing file path.
func (r *TransceiverRepo) Path() string {
	return r.path
}

// ListAll returns every record in file order, initializing the file to an
// empty array when it does not exist.
func (r *TransceiverRepo) ListAll(_ context.Context) ([]model.Transceiver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// Get returns the first record with the given SKU, or nil, nil if absent.
func (r *TransceiverRepo) Get(_ context.Context, sku string) (*model.Transceiver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, t := range all {
		if t.SKU == sku {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

// Add appends t and rewrites the file. Returns false if the SKU is taken.
func (r *TransceiverRepo) Add(_ context.Context, t model.Transceiver) (bool, error) {
	if t.SKU == "" {
		return false, driven.ErrSKURequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return false, err
	}

	if slices.ContainsFunc(all, func(existing model.Transceiver) bool { return existing.SKU == t.SKU }) {
		return false, nil
	}

	all = append(all, t)
	if err := r.save(all); err != nil {
		return false, fmt.Errorf("add transceiver %s: %w", t.SKU, err)
	}
	return true, nil
}

// Update replaces the first record with the given SKU and rewrites the file.
func (r *TransceiverRepo) Update(_ context.Context, sku string, t model.Transceiver) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return false, err
	}

	idx := slices.IndexFunc(all, func(existing model.Transceiver) bool { return existing.SKU == sku })
	if idx < 0 {
		return false, nil
	}

	t.SKU = sku
	all[idx] = t
	if err := r.save(all); err != nil {
		return false, fmt.Errorf("update transceiver %s: %w", sku, err)
	}
	return true, nil
}

// Delete removes every record with the given SKU. The file is only rewritten
// when something was removed.
func (r *TransceiverRepo) Delete(_ context.Context, sku string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return false, err
	}

	before := len(all)
	kept := slices.DeleteFunc(all, func(existing model.Transceiver) bool { return existing.SKU == sku })
	if len(kept) == before {
		return false, nil
	}

	if err := r.save(kept); err != nil {
		return false, fmt.Errorf("delete transceiver %s: %w", sku, err)
	}
	return true, nil
}

// DistinctValues returns the sorted unique non-empty values of field.
func (r *TransceiverRepo) DistinctValues(ctx context.Context, field string) ([]string, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return distinctValues(all, field), nil
}

// load reads and decodes the file. Callers must hold r.mu.
func (r *TransceiverRepo) load() ([]model.Transceiver, error) {
	data, exists, err := readFile(r.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := writeFile(r.path, []model.Transceiver{}); err != nil {
			return nil, fmt.Errorf("initialize catalog: %w", err)
		}
		return []model.Transceiver{}, nil
	}

	var all []model.Transceiver
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	if all == nil {
		all = []model.Transceiver{}
	}
	return all, nil
}

// save rewrites the whole file. Callers must hold r.mu.
func (r *TransceiverRepo) save(all []model.Transceiver) error {
	return writeFile(r.path, all)
}

// distinctValues collects the sorted unique non-empty values of field.
func distinctValues(all []model.Transceiver, field string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, t := range all {
		v, ok := t.FieldValue(field)
		if !ok {
			return []string{}
		}
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}
