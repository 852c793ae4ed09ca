package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

// ErrSKURequired is returned by TransceiverStore.Add when the record has an
// empty SKU.
var ErrSKURequired = errors.New("transceiver sku is required")

// TransceiverStore defines the driven port for the transceiver collection.
// The collection is ordered by insertion. Misses and duplicate keys are
// reported through the boolean result, never as errors; a non-nil error
// always means the backing storage could not be read or written.
type TransceiverStore interface {
	// ListAll returns every record in stored order. Returns an empty, non-nil
	// slice when the catalog is empty or has never been written.
	ListAll(ctx context.Context) ([]model.Transceiver, error)

	// Get returns the first record with the given SKU, or nil, nil if absent.
	Get(ctx context.Context, sku string) (*model.Transceiver, error)

	// Add appends t. Returns false if a record with the same SKU exists and
	// ErrSKURequired if t.SKU is empty.
	Add(ctx context.Context, t model.Transceiver) (bool, error)

	// Update replaces the first record with the given SKU wholesale. The
	// stored record keeps sku as its key regardless of t.SKU. Returns false
	// if no record matches.
	Update(ctx context.Context, sku string, t model.Transceiver) (bool, error)

	// Delete removes every record with the given SKU. Returns false if
	// nothing was removed.
	Delete(ctx context.Context, sku string) (bool, error)

	// DistinctValues returns the unique non-empty values of field across all
	// records, sorted ascending. Unknown fields yield an empty slice.
	DistinctValues(ctx context.Context, field string) ([]string, error)
}
