// Package vocabulary defines the IRIs of the mapping ontology and of the
// cache graph stored in the triple store.
//
// Mapping graphs describe GraphQL schemas in terms of concepts:
//
//	ex:UserConcept rdfs:label "user" ;
//	    ex:mapsToField "user" ;
//	    ex:identifierArgument "login" .
//	ex:MostStarred rdfs:label "most starred" ;
//	    ex:mapsToArgumentField "orderBy" ;
//	    ex:mapsToOrderingField "STARGAZERS" ;
//	    ex:defaultDirection "DESC" .
//
// Cache entries live in their own graph, one subject per prompt key.
package vocabulary

// Namespaces
const (
	OntologyNS = "http://example.org/ontology#"
	CacheNS    = "http://example.org/cache#"
	RDFSNS     = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNS      = "http://www.w3.org/2001/XMLSchema#"
)

// Mapping ontology predicates.
const (
	Label              = RDFSNS + "label"
	MapsToField        = OntologyNS + "mapsToField"
	IdentifierArgument = OntologyNS + "identifierArgument"
	MapsToGraphQLType  = OntologyNS + "mapsToGraphQLType"
	MapsToArgument     = OntologyNS + "mapsToArgumentField"
	MapsToOrdering     = OntologyNS + "mapsToOrderingField"
	DefaultDirection   = OntologyNS + "defaultDirection"
)

// Cache graph terms.
const (
	CachedEntry      = CacheNS + "CachedEntry"
	OriginalPrompt   = CacheNS + "originalPrompt"
	HasGraphQLResult = CacheNS + "hasGraphQLResult"
	CreatedAt        = CacheNS + "createdAt"
)

// XSDDateTime is the datatype of cache timestamps.
const XSDDateTime = XSDNS + "dateTime"

// Prefixes is the PREFIX header shared by every query gait sends.
const Prefixes = "PREFIX ex: <" + OntologyNS + ">\n" +
	"PREFIX cache: <" + CacheNS + ">\n" +
	"PREFIX rdfs: <" + RDFSNS + ">\n" +
	"PREFIX xsd: <" + XSDNS + ">\n"
