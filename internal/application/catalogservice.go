package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// ErrSKUMismatch is returned by CatalogService.Update when the replacement
// record names a different SKU than the one being updated.
var ErrSKUMismatch = errors.New("sku cannot be changed")

// FilterOptions holds the choices offered by the catalog filters, derived
// from the values actually present in the store.
type FilterOptions struct {
	FormFactors []string
	DataRates   []string
	Connectors  []string
	Statuses    []string
}

// CatalogService is the entry point the driving adapters use for the
// transceiver catalog. It validates records before they reach the store.
type CatalogService struct {
	store  driven.TransceiverStore
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService over the given store.
func NewCatalogService(store driven.TransceiverStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// List returns the records matching filter in stored order.
func (s *CatalogService) List(ctx context.Context, filter model.Filter) ([]model.Transceiver, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter.IsZero() {
		return all, nil
	}

	matched := make([]model.Transceiver, 0, len(all))
	for _, t := range all {
		if filter.Matches(t) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Get returns the record with the given SKU, or nil, nil if absent.
func (s *CatalogService) Get(ctx context.Context, sku string) (*model.Transceiver, error) {
	return s.store.Get(ctx, sku)
}

// Add validates t and appends it. Returns false if the SKU already exists.
func (s *CatalogService) Add(ctx context.Context, t model.Transceiver) (bool, error) {
	t = normalize(t)
	if err := t.Validate(); err != nil {
		return false, err
	}

	ok, err := s.store.Add(ctx, t)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("transceiver added", "sku", t.SKU)
	} else {
		s.logger.Info("transceiver add rejected: duplicate sku", "sku", t.SKU)
	}
	return ok, nil
}

// Update replaces the record stored under sku. t.SKU may be left empty; if
// set it must equal sku. Returns false if no record has that SKU.
func (s *CatalogService) Update(ctx context.Context, sku string, t model.Transceiver) (bool, error) {
	t = normalize(t)
	if t.SKU != "" && t.SKU != sku {
		return false, fmt.Errorf("update %s to %s: %w", sku, t.SKU, ErrSKUMismatch)
	}
	t.SKU = sku
	if err := t.Validate(); err != nil {
		return false, err
	}

	ok, err := s.store.Update(ctx, sku, t)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("transceiver updated", "sku", sku)
	}
	return ok, nil
}

// Delete removes every record with the given SKU.
func (s *CatalogService) Delete(ctx context.Context, sku string) (bool, error) {
	ok, err := s.store.Delete(ctx, sku)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("transceiver deleted", "sku", sku)
	}
	return ok, nil
}

// DistinctValues returns the sorted unique non-empty values of field.
func (s *CatalogService) DistinctValues(ctx context.Context, field string) ([]string, error) {
	return s.store.DistinctValues(ctx, field)
}

// FilterOptions collects the distinct values for every filterable field.
func (s *CatalogService) FilterOptions(ctx context.Context) (FilterOptions, error) {
	var opts FilterOptions
	targets := []struct {
		field string
		dest  *[]string
	}{
		{model.FieldFormFactor, &opts.FormFactors},
		{model.FieldDataRate, &opts.DataRates},
		{model.FieldConnector, &opts.Connectors},
		{model.FieldStatus, &opts.Statuses},
	}

	for _, target := range targets {
		values, err := s.store.DistinctValues(ctx, target.field)
		if err != nil {
			return FilterOptions{}, fmt.Errorf("filter options for %s: %w", target.field, err)
		}
		*target.dest = values
	}
	return opts, nil
}

// normalize trims surrounding whitespace from the SKU.
func normalize(t model.Transceiver) model.Transceiver {
	t.SKU = strings.TrimSpace(t.SKU)
	return t
}
