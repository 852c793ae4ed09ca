package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// ImportReport summarizes one import run.
type ImportReport struct {
	Source  string
	Added   []string
	Skipped []string          // SKUs already present in the catalog.
	Invalid map[string]string // Record label -> validation error.
}

// ImportService bulk-loads records from a CatalogSource into the catalog.
// Existing SKUs are never overwritten.
type ImportService struct {
	catalog *CatalogService
	logger  *slog.Logger
}

// NewImportService creates an ImportService that adds through catalog.
func NewImportService(catalog *CatalogService, logger *slog.Logger) *ImportService {
	return &ImportService{catalog: catalog, logger: logger}
}

// Import fetches every record from src and adds the ones whose SKU is new.
// Invalid records are reported, not fatal; a storage error aborts the run.
func (s *ImportService) Import(ctx context.Context, src driven.CatalogSource) (ImportReport, error) {
	report := ImportReport{
		Source:  src.Describe(),
		Added:   []string{},
		Skipped: []string{},
		Invalid: map[string]string{},
	}

	records, err := src.Fetch(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch %s: %w", report.Source, err)
	}

	for i, t := range records {
		if err := t.Validate(); err != nil {
			report.Invalid[recordLabel(i, t)] = err.Error()
			continue
		}

		ok, err := s.catalog.Add(ctx, t)
		if err != nil {
			return report, fmt.Errorf("import %s: %w", t.SKU, err)
		}
		if ok {
			report.Added = append(report.Added, t.SKU)
		} else {
			report.Skipped = append(report.Skipped, t.SKU)
		}
	}

	s.logger.Info("catalog import finished",
		"source", report.Source,
		"added", len(report.Added),
		"skipped", len(report.Skipped),
		"invalid", len(report.Invalid),
	)
	return report, nil
}

func recordLabel(i int, t model.Transceiver) string {
	if t.SKU != "" {
		return t.SKU
	}
	return fmt.Sprintf("record #%d", i+1)
}
