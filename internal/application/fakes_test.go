package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTransceiverStore is an in-memory driven.TransceiverStore.
type memTransceiverStore struct {
	records []model.Transceiver
	err     error
}

func (m *memTransceiverStore) ListAll(_ context.Context) ([]model.Transceiver, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]model.Transceiver{}, m.records...), nil
}

func (m *memTransceiverStore) Get(_ context.Context, sku string) (*model.Transceiver, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.records {
		if t.SKU == sku {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memTransceiverStore) Add(_ context.Context, t model.Transceiver) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if slices.ContainsFunc(m.records, func(e model.Transceiver) bool { return e.SKU == t.SKU }) {
		return false, nil
	}
	m.records = append(m.records, t)
	return true, nil
}

func (m *memTransceiverStore) Update(_ context.Context, sku string, t model.Transceiver) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for i := range m.records {
		if m.records[i].SKU == sku {
			m.records[i] = t
			return true, nil
		}
	}
	return false, nil
}

func (m *memTransceiverStore) Delete(_ context.Context, sku string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	before := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(e model.Transceiver) bool { return e.SKU == sku })
	return len(m.records) < before, nil
}

func (m *memTransceiverStore) DistinctValues(_ context.Context, field string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	values := []string{}
	for _, t := range m.records {
		v, ok := t.FieldValue(field)
		if ok && v != "" && !slices.Contains(values, v) {
			values = append(values, v)
		}
	}
	slices.Sort(values)
	return values, nil
}

// memCredentialStore is an in-memory driven.CredentialStore.
type memCredentialStore struct {
	cred    model.AdminCredential
	saves   int
	loadErr error
	saveErr error
}

func (m *memCredentialStore) Load(_ context.Context) (model.AdminCredential, bool, error) {
	if m.loadErr != nil {
		return model.AdminCredential{}, false, m.loadErr
	}
	return m.cred, m.cred.PasswordHash != "", nil
}

func (m *memCredentialStore) Save(_ context.Context, cred model.AdminCredential) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cred = cred
	m.saves++
	return nil
}

// staticSource is a driven.CatalogSource returning fixed records.
type staticSource struct {
	records []model.Transceiver
	err     error
}

func (s staticSource) Fetch(_ context.Context) ([]model.Transceiver, error) {
	return s.records, s.err
}

func (s staticSource) Describe() string { return "static" }

var errStorage = errors.New("disk on fire")
