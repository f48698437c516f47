// Package resolver turns the concept labels of an intent into the field and
// argument names of the target API by querying that API's mapping graph.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/logger"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/router"
	"github.com/gait-ai/gait/pkg/sparql"
	"github.com/gait-ai/gait/pkg/vocabulary"
)

// DefaultPrimaryConcept is the concept user-collection lookups start from
// when the API configures none.
const DefaultPrimaryConcept = "user"

// Store runs SELECT queries against the mapping store.
type Store interface {
	Select(ctx context.Context, query string) ([]sparql.Binding, error)
}

// Resolver resolves intents to mapping records.
type Resolver struct {
	store  Store
	router *router.Router
	log    *zap.Logger
}

// New creates a Resolver.
func New(store Store, r *router.Router, l *zap.Logger) *Resolver {
	return &Resolver{store: store, router: r, log: logger.Component(l, "resolver")}
}

// Resolve returns the mapping record for intent. It fails with
// ErrUnsupportedAPI before touching the store when the api is unknown, and
// with ErrMappingUnavailable when the store is unreachable or has no
// binding for a mandatory concept. Unmatched constraints leave the
// constraint fields empty.
func (r *Resolver) Resolve(ctx context.Context, intent models.Intent) (models.Mapping, error) {
	target, err := r.router.Resolve(intent.API)
	if err != nil {
		return models.Mapping{}, err
	}

	var q string
	switch target.Family {
	case models.FamilyUserCollection:
		q, err = userCollectionQuery(target, intent)
	case models.FamilyReference:
		q, err = referenceQuery(target, intent)
	default:
		return models.Mapping{}, errors.Wrapf(errors.ErrUnsupportedAPI, "api %q has unknown family %q", target.Name, target.Family)
	}
	if err != nil {
		return models.Mapping{}, err
	}

	log := r.log.With(zap.String(logger.FieldAPI, target.Name))
	log.Debug("mapping query", zap.String(logger.FieldQuery, q))

	rows, err := r.store.Select(ctx, q)
	if err != nil {
		return models.Mapping{}, errors.Wrapf(errors.Mark(err, errors.ErrMappingUnavailable),
			"query mapping graph of %s", target.Name)
	}
	if len(rows) == 0 {
		return models.Mapping{}, errors.WithHintf(
			errors.Wrapf(errors.ErrMappingUnavailable, "no mapping for %q in %s", intent.FocusConcept(), target.Name),
			"check that %s holds the concept labels of the intent", target.MappingGraph)
	}

	row := rows[0]
	m := models.Mapping{
		PrimaryField:            row.Value("primaryField"),
		IdentifierArgument:      row.Value("identifierArgument"),
		TargetField:             row.Value("targetField"),
		ConstraintArgumentField: row.Value("argumentField"),
		ConstraintOrderingField: row.Value("orderingField"),
		ConstraintDirection:     row.Value("direction"),
		TargetGraphQLType:       row.Value("targetType"),
	}
	log.Debug("resolved mapping", zap.Any("mapping", m))
	return m, nil
}

func userCollectionQuery(target router.Target, intent models.Intent) (string, error) {
	focus := intent.FocusConcept()
	if focus == "" {
		return "", errors.Wrap(errors.ErrMappingUnavailable, "intent has no target concept")
	}
	primary := strings.TrimSpace(target.PrimaryConcept)
	if primary == "" {
		primary = DefaultPrimaryConcept
	}

	var b strings.Builder
	b.WriteString(vocabulary.Prefixes)
	b.WriteString("SELECT ?primaryField ?identifierArgument ?targetField ?targetType ?argumentField ?orderingField ?direction WHERE {\n")
	fmt.Fprintf(&b, "  GRAPH %s {\n", sparql.IRI(target.MappingGraph))
	b.WriteString("    ?primary rdfs:label ?primaryLabel ;\n")
	b.WriteString("             ex:mapsToField ?primaryField ;\n")
	b.WriteString("             ex:identifierArgument ?identifierArgument .\n")
	fmt.Fprintf(&b, "    %s\n", labelFilter("?primaryLabel", primary))
	b.WriteString("    ?target rdfs:label ?targetLabel ;\n")
	b.WriteString("            ex:mapsToField ?targetField .\n")
	fmt.Fprintf(&b, "    %s\n", labelFilter("?targetLabel", focus))
	b.WriteString("    OPTIONAL { ?target ex:mapsToGraphQLType ?targetType }\n")
	if c, ok := intent.FirstConstraint(); ok {
		b.WriteString("    OPTIONAL {\n")
		b.WriteString("      ?constraint rdfs:label ?constraintLabel ;\n")
		b.WriteString("                  ex:mapsToArgumentField ?argumentField ;\n")
		b.WriteString("                  ex:mapsToOrderingField ?orderingField ;\n")
		b.WriteString("                  ex:defaultDirection ?direction .\n")
		fmt.Fprintf(&b, "      %s\n", labelFilter("?constraintLabel", c))
		b.WriteString("    }\n")
	}
	b.WriteString("  }\n} LIMIT 1")
	return b.String(), nil
}

func referenceQuery(target router.Target, intent models.Intent) (string, error) {
	concept := strings.TrimSpace(intent.Target)
	if concept == "" {
		return "", errors.Wrap(errors.ErrMappingUnavailable, "intent has no target concept")
	}

	var b strings.Builder
	b.WriteString(vocabulary.Prefixes)
	b.WriteString("SELECT ?targetField ?identifierArgument ?targetType WHERE {\n")
	fmt.Fprintf(&b, "  GRAPH %s {\n", sparql.IRI(target.MappingGraph))
	b.WriteString("    ?target rdfs:label ?targetLabel ;\n")
	b.WriteString("            ex:mapsToField ?targetField .\n")
	fmt.Fprintf(&b, "    %s\n", labelFilter("?targetLabel", concept))
	b.WriteString("    OPTIONAL { ?target ex:identifierArgument ?identifierArgument }\n")
	b.WriteString("    OPTIONAL { ?target ex:mapsToGraphQLType ?targetType }\n")
	b.WriteString("  }\n} LIMIT 1")
	return b.String(), nil
}

// labelFilter matches a label variable case-insensitively against label.
func labelFilter(variable, label string) string {
	return fmt.Sprintf("FILTER(LCASE(STR(%s)) = %s)", variable, sparql.Literal(strings.ToLower(label)))
}
