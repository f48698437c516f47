package models

// Mapping holds the API-specific field names resolved for one intent.
// Constraint fields are empty when the intent has no constraint or the
// mapping store has no match for it.
type Mapping struct {
	PrimaryField            string `json:"primaryField,omitempty"`
	IdentifierArgument      string `json:"identifierArgument,omitempty"`
	TargetField             string `json:"targetField,omitempty"`
	ConstraintArgumentField string `json:"constraintArgumentField,omitempty"`
	ConstraintOrderingField string `json:"constraintOrderingField,omitempty"`
	ConstraintDirection     string `json:"constraintDirection,omitempty"`
	TargetGraphQLType       string `json:"targetGraphQLType,omitempty"`
}

// HasOrdering reports whether all three ordering components are present.
func (m Mapping) HasOrdering() bool {
	return m.ConstraintArgumentField != "" &&
		m.ConstraintOrderingField != "" &&
		m.ConstraintDirection != ""
}
