package models

// Family groups target APIs whose queries share a structure.
type Family string

const (
	// FamilyUserCollection APIs nest collections under a primary entity
	// looked up by identifier (GitHub: user -> repositories).
	FamilyUserCollection Family = "user-collection"
	// FamilyReference APIs expose a single level of reference-data fields
	// (Countries: country(code:)).
	FamilyReference Family = "reference"
)

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	switch f {
	case FamilyUserCollection, FamilyReference:
		return true
	}
	return false
}

// Shape is the structure of a compiled query.
type Shape string

const (
	ShapeSingleEntity Shape = "single-entity"
	ShapeCollection   Shape = "collection"
	ShapeFlat         Shape = "flat"
)

// AuthPolicy is how requests to a target API are authenticated.
type AuthPolicy string

const (
	AuthBearer AuthPolicy = "bearer"
	AuthNone   AuthPolicy = "none"
)

// Schema describes what the compiler needs to know about a target API.
type Schema struct {
	API          string `json:"api"`
	Family       Family `json:"family"`
	DefaultField string `json:"default_field"`
}
