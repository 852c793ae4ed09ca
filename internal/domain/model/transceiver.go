package model

import (
	"errors"
	"fmt"
	"strings"
)

// Transceiver field names as they appear in the persisted JSON.
const (
	FieldSKU         = "sku"
	FieldName        = "name"
	FieldFormFactor  = "form_factor"
	FieldDataRate    = "data_rate"
	FieldWavelength  = "wavelength"
	FieldReach       = "reach"
	FieldConnector   = "connector"
	FieldTemperature = "temperature"
	FieldPower       = "power"
	FieldDescription = "description"
	FieldStatus      = "status"
)

// Fields lists every transceiver field name in column order.
var Fields = []string{
	FieldSKU, FieldName, FieldFormFactor, FieldDataRate, FieldWavelength, FieldReach,
	FieldConnector, FieldTemperature, FieldPower, FieldDescription, FieldStatus,
}

// Transceiver is a single optical transceiver product record. SKU is the
// primary key and is unique across the catalog. Enum-like fields are kept as
// plain strings so records written by older tools still load.
type Transceiver struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	FormFactor  string `json:"form_factor"`
	DataRate    string `json:"data_rate"`
	Wavelength  string `json:"wavelength"`
	Reach       string `json:"reach"`
	Connector   string `json:"connector"`
	Temperature string `json:"temperature"`
	Power       string `json:"power"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// FieldValue returns the value of the named field. ok is false for unknown
// field names.
func (t Transceiver) FieldValue(field string) (value string, ok bool) {
	switch field {
	case FieldSKU:
		return t.SKU, true
	case FieldName:
		return t.Name, true
	case FieldFormFactor:
		return t.FormFactor, true
	case FieldDataRate:
		return t.DataRate, true
	case FieldWavelength:
		return t.Wavelength, true
	case FieldReach:
		return t.Reach, true
	case FieldConnector:
		return t.Connector, true
	case FieldTemperature:
		return t.Temperature, true
	case FieldPower:
		return t.Power, true
	case FieldDescription:
		return t.Description, true
	case FieldStatus:
		return t.Status, true
	}
	return "", false
}

// IsActive reports whether the product is still orderable.
func (t Transceiver) IsActive() bool {
	return t.Status == string(StatusActive)
}

// ValidationError lists the fields of a Transceiver that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid transceiver: " + strings.Join(e.Problems, "; ")
}

// Validate checks the record for a non-empty SKU and known enum values.
// Enum fields may be left empty. Returns a *ValidationError listing every
// problem found.
func (t Transceiver) Validate() error {
	var problems []string
	if strings.TrimSpace(t.SKU) == "" {
		problems = append(problems, "sku is required")
	}
	return t.withEnumProblems(problems)
}

// ValidateComplete is the check applied to records entered through the admin
// form, the API and the CLI: every field must be filled in, and enum fields
// must hold known values.
func (t Transceiver) ValidateComplete() error {
	var problems []string
	for _, field := range Fields {
		if v, _ := t.FieldValue(field); strings.TrimSpace(v) == "" {
			problems = append(problems, field+" is required")
		}
	}
	return t.withEnumProblems(problems)
}

func (t Transceiver) withEnumProblems(problems []string) error {
	if t.FormFactor != "" && !contains(AllFormFactors(), t.FormFactor) {
		problems = append(problems, fmt.Sprintf("unknown form_factor %q", t.FormFactor))
	}
	if t.DataRate != "" && !contains(AllDataRates(), t.DataRate) {
		problems = append(problems, fmt.Sprintf("unknown data_rate %q", t.DataRate))
	}
	if t.Connector != "" && !contains(AllConnectors(), t.Connector) {
		problems = append(problems, fmt.Sprintf("unknown connector %q", t.Connector))
	}
	if t.Status != "" && !contains(AllStatuses(), t.Status) {
		problems = append(problems, fmt.Sprintf("unknown status %q", t.Status))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
