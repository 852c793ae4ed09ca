package driven

import (
	"context"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

// CatalogSource defines the driven port for reading a catalog published
// outside the store, such as a JSON file in a GitHub repository.
type CatalogSource interface {
	// Fetch returns the records of the source in file order.
	Fetch(ctx context.Context) ([]model.Transceiver, error)

	// Describe returns a human-readable location for logs and reports.
	Describe() string
}
