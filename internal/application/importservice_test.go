package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

func TestImportService_Import(t *testing.T) {
	svc, store := seededCatalog(t)
	importer := NewImportService(svc, discardLogger())

	src := staticSource{records: []model.Transceiver{
		{SKU: "SFP-1G-SX", Name: "already there"},
		{SKU: "QSFP-DD-400G-DR4", Name: "400G DR4", FormFactor: "QSFP-DD", DataRate: "400G"},
		{Name: "no sku"},
		{SKU: "BAD", Connector: "ST"},
	}}

	report, err := importer.Import(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "static", report.Source)
	assert.Equal(t, []string{"QSFP-DD-400G-DR4"}, report.Added)
	assert.Equal(t, []string{"SFP-1G-SX"}, report.Skipped)
	assert.Len(t, report.Invalid, 2)
	assert.Contains(t, report.Invalid, "record #3")
	assert.Contains(t, report.Invalid, "BAD")
	assert.Len(t, store.records, 4)
	assert.Equal(t, "SFP-1G-SX", store.records[0].SKU)
	assert.Equal(t, "1G SX", store.records[0].Name, "existing record must not be overwritten")
}

func TestImportService_FetchError(t *testing.T) {
	svc, _ := seededCatalog(t)
	importer := NewImportService(svc, discardLogger())

	_, err := importer.Import(context.Background(), staticSource{err: errStorage})
	assert.ErrorIs(t, err, errStorage)
}
