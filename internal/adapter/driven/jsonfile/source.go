package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CatalogSource = (*FileSource)(nil)

// FileSource reads records from a local JSON file in the catalog format,
// either a top-level array or a single record object.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch decodes the file. Unlike the catalog store, a missing file is an error.
func (s *FileSource) Fetch(_ context.Context) ([]model.Transceiver, error) {
	data, exists, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("read %s: file does not exist", s.path)
	}
	return DecodeRecords(data)
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return s.path
}

// DecodeRecords parses either a JSON array of records or a single record.
func DecodeRecords(data []byte) ([]model.Transceiver, error) {
	var records []model.Transceiver
	if err := json.Unmarshal(data, &records); err == nil {
		if records == nil {
			records = []model.Transceiver{}
		}
		return records, nil
	}

	var single model.Transceiver
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return []model.Transceiver{single}, nil
}
