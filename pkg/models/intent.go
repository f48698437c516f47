package models

import "strings"

// Intent is the structured form of a prompt as produced by the upstream
// parser. Target, SubEntity and Constraints hold concept labels, not field
// names.
type Intent struct {
	Action      string   `json:"action"`
	Target      string   `json:"target"`
	Identifier  string   `json:"identifier,omitempty"`
	SubEntity   string   `json:"subEntity,omitempty"`
	Limit       int      `json:"limit"`
	Constraints []string `json:"constraints"`
	Fields      []string `json:"fields"`
	API         string   `json:"api"`
}

// FocusConcept returns the concept whose field the query selects: the
// sub-entity when present, otherwise the target.
func (i Intent) FocusConcept() string {
	if s := strings.TrimSpace(i.SubEntity); s != "" {
		return s
	}
	return strings.TrimSpace(i.Target)
}

// FirstConstraint returns the first non-blank constraint label.
func (i Intent) FirstConstraint() (string, bool) {
	if len(i.Constraints) == 0 {
		return "", false
	}
	c := strings.TrimSpace(i.Constraints[0])
	return c, c != ""
}

// HasIdentifier reports whether the intent carries a non-blank identifier.
func (i Intent) HasIdentifier() bool {
	return strings.TrimSpace(i.Identifier) != ""
}
