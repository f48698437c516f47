// Package compiler assembles GraphQL query text from an intent and its
// resolved mapping record. It performs no I/O: the same inputs always
// produce the same query.
//
// The structure of the query is picked from a closed set of shapes:
//
//	single-entity  query { user(login: "octocat") { name bio } }
//	collection     query { user(login: "octocat") { repositories(first: 5) { nodes { name } } } }
//	flat           query { country(code: "BR") { name capital } }
//
// Reference APIs always compile flat. User-collection APIs compile
// single-entity when the intent focuses on the primary concept itself and
// collection otherwise.
package compiler

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/models"
)

// DefaultLimit is the page size used when the intent carries no positive
// limit.
const DefaultLimit = 100

// SelectShape returns the query shape for an API family and mapping.
func SelectShape(family models.Family, m models.Mapping) (models.Shape, error) {
	switch family {
	case models.FamilyReference:
		return models.ShapeFlat, nil
	case models.FamilyUserCollection:
		if Name(m.TargetField) == Name(m.PrimaryField) {
			return models.ShapeSingleEntity, nil
		}
		return models.ShapeCollection, nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedAPI, "unknown api family %q", family)
}

// Compile returns the GraphQL query for intent against the API described by
// schema. The result is parsed before it is returned; text that does not
// parse fails with ErrCompilation.
func Compile(schema models.Schema, intent models.Intent, m models.Mapping) (string, error) {
	shape, err := SelectShape(schema.Family, m)
	if err != nil {
		return "", err
	}

	fields := selection(intent.Fields, schema.DefaultField)
	if fields == "" {
		return "", errors.Wrapf(errors.ErrCompilation, "no selectable fields for %s", schema.API)
	}

	var q string
	switch shape {
	case models.ShapeSingleEntity:
		q, err = singleEntity(intent, m, fields)
	case models.ShapeCollection:
		q, err = collection(intent, m, fields)
	case models.ShapeFlat:
		q, err = flat(intent, m, fields)
	}
	if err != nil {
		return "", err
	}

	if _, gerr := parser.ParseQuery(&ast.Source{Name: schema.API, Input: q}); gerr != nil {
		return "", errors.WithDetailf(
			errors.Wrap(errors.Mark(gerr, errors.ErrCompilation), "compiled query does not parse"),
			"query: %s", q)
	}
	return q, nil
}

func singleEntity(intent models.Intent, m models.Mapping, fields string) (string, error) {
	root, err := rootSelector(intent, m)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("query { %s { %s } }", root, fields), nil
}

func collection(intent models.Intent, m models.Mapping, fields string) (string, error) {
	root, err := rootSelector(intent, m)
	if err != nil {
		return "", err
	}
	target := Name(m.TargetField)
	if target == "" {
		return "", errors.Wrap(errors.ErrMappingUnavailable, "mapping has no target field")
	}

	args := fmt.Sprintf("first: %d", EffectiveLimit(intent.Limit))
	if o := ordering(m); o != "" {
		args = o + ", " + args
	}
	return fmt.Sprintf("query { %s { %s(%s) { nodes { %s } } } }", root, target, args, fields), nil
}

func flat(intent models.Intent, m models.Mapping, fields string) (string, error) {
	target := Name(m.TargetField)
	if target == "" {
		return "", errors.Wrap(errors.ErrMappingUnavailable, "mapping has no target field")
	}

	arg := Name(m.IdentifierArgument)
	if arg == "" {
		return fmt.Sprintf("query { %s { %s } }", target, fields), nil
	}
	id, err := identifier(intent)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("query { %s(%s: %s) { %s } }", target, arg, id, fields), nil
}

// rootSelector renders the primary entity lookup, e.g. user(login: "octocat").
func rootSelector(intent models.Intent, m models.Mapping) (string, error) {
	primary := Name(m.PrimaryField)
	if primary == "" {
		return "", errors.Wrap(errors.ErrMappingUnavailable, "mapping has no primary field")
	}
	arg := Name(m.IdentifierArgument)
	if arg == "" {
		return "", errors.Wrap(errors.ErrMappingUnavailable, "mapping has no identifier argument")
	}
	id, err := identifier(intent)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s: %s)", primary, arg, id), nil
}

// ordering renders the ordering argument, or "" unless argument field,
// ordering field and direction are all usable.
func ordering(m models.Mapping) string {
	arg := Name(m.ConstraintArgumentField)
	field := Name(m.ConstraintOrderingField)
	dir := Name(m.ConstraintDirection)
	if arg == "" || field == "" || dir == "" {
		return ""
	}
	return fmt.Sprintf("%s: {field: %s, direction: %s}", arg, field, dir)
}

func identifier(intent models.Intent) (string, error) {
	id := StringLiteral(strings.TrimSpace(intent.Identifier))
	if id == `""` {
		return "", errors.Wrapf(errors.ErrMissingIdentifier, "intent for %q has no identifier", intent.Target)
	}
	return id, nil
}

// selection renders the field list, falling back to defaultField when no
// requested field survives sanitizing.
func selection(requested []string, defaultField string) string {
	seen := make(map[string]bool, len(requested))
	names := make([]string, 0, len(requested))
	for _, f := range requested {
		n := Name(f)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	if len(names) == 0 {
		if n := Name(defaultField); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, " ")
}

// EffectiveLimit returns limit when positive, DefaultLimit otherwise.
func EffectiveLimit(limit int) int {
	if limit > 0 {
		return limit
	}
	return DefaultLimit
}
