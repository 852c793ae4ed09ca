package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// TransceiverResponse is the JSON representation of a transceiver. Field
// names match the persisted catalog format.
type TransceiverResponse struct {
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

// TransceiverRequest is the JSON body for create and update. On update SKU
// may be omitted; if present it must match the path.
type TransceiverRequest TransceiverResponse

// ListResponse wraps a filtered listing with its result count.
type ListResponse struct {
	Count        int                   `json:"count"`
	Transceivers []TransceiverResponse `json:"transceivers"`
}

// FilterOptionsResponse lists the values offered by each catalog filter.
type FilterOptionsResponse struct {
	FormFactors []string `json:"form_factors"`
	DataRates   []string `json:"data_rates"`
	Connectors  []string `json:"connectors"`
	Statuses    []string `json:"statuses"`
}

// DistinctValuesResponse lists the distinct values of one field.
type DistinctValuesResponse struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// ValidationErrorResponse is returned for records that fail validation.
type ValidationErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems"`
}

// ChangePasswordRequest is the JSON body for the password change endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AdminStatusResponse reports credential hygiene to an authenticated admin.
type AdminStatusResponse struct {
	DefaultPasswordWarning string `json:"default_password_warning,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toTransceiverResponse converts a domain Transceiver to its JSON representation.
func toTransceiverResponse(t model.Transceiver) TransceiverResponse {
	return TransceiverResponse{
		SKU:         t.SKU,
		Name:        t.Name,
		FormFactor:  t.FormFactor,
		DataRate:    t.DataRate,
		Wavelength:  t.Wavelength,
		Reach:       t.Reach,
		Connector:   t.Connector,
		Temperature: t.Temperature,
		Power:       t.Power,
		Description: t.Description,
		Status:      t.Status,
	}
}

// toModel converts a request body to a domain Transceiver.
func (req TransceiverRequest) toModel() model.Transceiver {
	return model.Transceiver{
		SKU:         req.SKU,
		Name:        req.Name,
		FormFactor:  req.FormFactor,
		DataRate:    req.DataRate,
		Wavelength:  req.Wavelength,
		Reach:       req.Reach,
		Connector:   req.Connector,
		Temperature: req.Temperature,
		Power:       req.Power,
		Description: req.Description,
		Status:      req.Status,
	}
}

// toFilterOptionsResponse converts application FilterOptions to JSON.
func toFilterOptionsResponse(opts application.FilterOptions) FilterOptionsResponse {
	return FilterOptionsResponse{
		FormFactors: nonNil(opts.FormFactors),
		DataRates:   nonNil(opts.DataRates),
		Connectors:  nonNil(opts.Connectors),
		Statuses:    nonNil(opts.Statuses),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
