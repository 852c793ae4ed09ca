package model

import "strings"

// FilterAll is the choice value meaning "no constraint" on a filter field.
const FilterAll = "All"

// Filter narrows a catalog listing. Empty or FilterAll fields match anything.
// Search is a case-insensitive substring match over SKU, name and description.
type Filter struct {
	FormFactor string
	DataRate   string
	Connector  string
	Status     string
	Search     string
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return isAny(f.FormFactor) && isAny(f.DataRate) && isAny(f.Connector) &&
		isAny(f.Status) && strings.TrimSpace(f.Search) == ""
}

// Matches reports whether t satisfies every constraint in the filter.
func (f Filter) Matches(t Transceiver) bool {
	if !isAny(f.FormFactor) && t.FormFactor != f.FormFactor {
		return false
	}
	if !isAny(f.DataRate) && t.DataRate != f.DataRate {
		return false
	}
	if !isAny(f.Connector) && t.Connector != f.Connector {
		return false
	}
	if !isAny(f.Status) && t.Status != f.Status {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.SKU), term) ||
		strings.Contains(strings.ToLower(t.Name), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

func isAny(v string) bool {
	return v == "" || v == FilterAll
}
