package web

import (
	"html/template"
	"net/url"
	"strings"

	vm "github.com/ericfisherdev/opticatalog/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

// toTransceiverViewModel converts a domain Transceiver for display.
func toTransceiverViewModel(t model.Transceiver) vm.TransceiverViewModel {
	escaped := url.PathEscape(t.SKU)
	return vm.TransceiverViewModel{
		SKU:             t.SKU,
		Name:            t.Name,
		FormFactor:      t.FormFactor,
		DataRate:        t.DataRate,
		Wavelength:      t.Wavelength,
		Reach:           t.Reach,
		Connector:       t.Connector,
		Temperature:     t.Temperature,
		Power:           t.Power,
		Status:          t.Status,
		StatusClass:     statusClass(t),
		Orderable:       t.IsActive(),
		Description:     t.Description,
		DescriptionHTML: template.HTML(RenderMarkdown(t.Description)), //nolint:gosec // sanitized by bluemonday
		EditPath:        "/admin/transceivers/" + escaped + "/edit",
		DeletePath:      "/admin/transceivers/" + escaped + "/delete",
	}
}

func toTransceiverViewModels(records []model.Transceiver) []vm.TransceiverViewModel {
	out := make([]vm.TransceiverViewModel, 0, len(records))
	for _, t := range records {
		out = append(out, toTransceiverViewModel(t))
	}
	return out
}

func statusClass(t model.Transceiver) string {
	if t.IsActive() {
		return "active"
	}
	switch model.Status(t.Status) {
	case model.StatusEOL:
		return "eol"
	case model.StatusDiscontinued:
		return "discontinued"
	}
	return "unknown"
}

// toCatalogPageViewModel assembles the public catalog page. Filter dropdowns
// offer "All" followed by the values present in the catalog.
func toCatalogPageViewModel(
	filter model.Filter,
	view string,
	opts application.FilterOptions,
	total int,
	matched []model.Transceiver,
) vm.CatalogPageViewModel {
	withAll := func(values []string) []string {
		return append([]string{model.FilterAll}, values...)
	}
	selected := func(v string) string {
		if v == "" {
			return model.FilterAll
		}
		return v
	}

	return vm.CatalogPageViewModel{
		Filters: []vm.SelectViewModel{
			{Name: "form_factor", Label: "Form factor", Options: withAll(opts.FormFactors), Selected: selected(filter.FormFactor)},
			{Name: "data_rate", Label: "Data rate", Options: withAll(opts.DataRates), Selected: selected(filter.DataRate)},
			{Name: "connector", Label: "Connector", Options: withAll(opts.Connectors), Selected: selected(filter.Connector)},
			{Name: "status", Label: "Status", Options: withAll(opts.Statuses), Selected: selected(filter.Status)},
		},
		Search:       filter.Search,
		View:         view,
		TableViewURL: catalogURL(filter, vm.ViewTable),
		CardsViewURL: catalogURL(filter, vm.ViewCards),
		Total:        total,
		Count:        len(matched),
		Transceivers: toTransceiverViewModels(matched),
	}
}

// catalogURL rebuilds the catalog link for filter in the given view.
func catalogURL(filter model.Filter, view string) string {
	q := url.Values{}
	set := func(key, v string) {
		if v != "" && v != model.FilterAll {
			q.Set(key, v)
		}
	}
	set("form_factor", filter.FormFactor)
	set("data_rate", filter.DataRate)
	set("connector", filter.Connector)
	set("status", filter.Status)
	if s := strings.TrimSpace(filter.Search); s != "" {
		q.Set("q", s)
	}
	q.Set("view", view)
	return "/?" + q.Encode()
}

// newFormViewModel builds an add or edit form. The enum dropdowns always
// offer the full accepted value sets so admins can enter new values.
func newFormViewModel(csrf, action, submit string, values model.Transceiver, editing bool) vm.FormViewModel {
	return vm.FormViewModel{
		CSRFToken:   csrf,
		Action:      action,
		SubmitLabel: submit,
		SKUReadOnly: editing,
		Values:      toTransceiverViewModel(values),
		FormFactors: model.AllFormFactors(),
		DataRates:   model.AllDataRates(),
		Connectors:  model.AllConnectors(),
		Statuses:    model.AllStatuses(),
	}
}
