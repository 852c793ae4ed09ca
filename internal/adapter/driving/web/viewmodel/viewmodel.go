// Package viewmodel defines presentation-ready structs for the HTML pages.
// View models decouple template rendering from domain model types.
package viewmodel

import "html/template"

// Catalog views.
const (
	ViewTable = "table"
	ViewCards = "cards"
)

// TransceiverViewModel holds presentation-ready data for one catalog entry,
// used by both the table row and the card layout.
type TransceiverViewModel struct {
	SKU         string
	Name        string
	FormFactor  string
	DataRate    string
	Wavelength  string
	Reach       string
	Connector   string
	Temperature string
	Power       string
	Status      string
	StatusClass string // CSS modifier: active, eol, discontinued, unknown
	Orderable   bool   // false dims the card in the cards view

	Description     string        // raw markdown, prefilled into edit forms
	DescriptionHTML template.HTML // sanitized rendering for display
	EditPath        string
	DeletePath      string
}

// SelectViewModel is one filter dropdown.
type SelectViewModel struct {
	Name     string // query parameter name
	Label    string
	Options  []string
	Selected string
}

// CatalogPageViewModel holds everything the public catalog page renders.
type CatalogPageViewModel struct {
	Filters      []SelectViewModel
	Search       string
	View         string
	TableViewURL string
	CardsViewURL string
	Total        int
	Count        int
	Transceivers []TransceiverViewModel
}

// FormViewModel backs the add and edit transceiver forms.
type FormViewModel struct {
	CSRFToken   string
	Action      string
	SubmitLabel string
	SKUReadOnly bool
	Values      TransceiverViewModel
	FormFactors []string
	DataRates   []string
	Connectors  []string
	Statuses    []string
}

// AdminPageViewModel holds the admin panel state.
type AdminPageViewModel struct {
	CSRFToken      string
	DefaultWarning string
	Notice         string
	Errors         []string
	AddForm        FormViewModel
	Transceivers   []TransceiverViewModel
}

// EditPageViewModel holds the single-record edit page.
type EditPageViewModel struct {
	Errors []string
	Form   FormViewModel
}

// LoginPageViewModel holds the admin login form state.
type LoginPageViewModel struct {
	CSRFToken string
	Error     string
}
