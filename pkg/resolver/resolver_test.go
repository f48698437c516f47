package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gait-ai/gait/pkg/config"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/router"
	"github.com/gait-ai/gait/pkg/sparql"
)

type fakeStore struct {
	rows    []sparql.Binding
	err     error
	queries []string
}

func (f *fakeStore) Select(_ context.Context, q string) ([]sparql.Binding, error) {
	f.queries = append(f.queries, q)
	return f.rows, f.err
}

func literal(v string) sparql.Term { return sparql.Term{Type: "literal", Value: v} }

func newTestResolver(t *testing.T, store *fakeStore) *Resolver {
	t.Helper()
	return New(store, router.New(config.Default()), zaptest.NewLogger(t))
}

func githubIntent() models.Intent {
	return models.Intent{
		Action:      "QUERY",
		Target:      "user",
		Identifier:  "octocat",
		SubEntity:   "repositories",
		Limit:       5,
		Constraints: []string{"Most Starred"},
		Fields:      []string{"name", "stargazerCount"},
		API:         "GITHUB",
	}
}

func TestResolveUserCollection(t *testing.T) {
	store := &fakeStore{rows: []sparql.Binding{{
		"primaryField":       literal("user"),
		"identifierArgument": literal("login"),
		"targetField":        literal("repositories"),
		"targetType":         literal("RepositoryConnection"),
		"argumentField":      literal("orderBy"),
		"orderingField":      literal("STARGAZERS"),
		"direction":          literal("DESC"),
	}}}
	r := newTestResolver(t, store)

	m, err := r.Resolve(context.Background(), githubIntent())
	require.NoError(t, err)
	assert.Equal(t, models.Mapping{
		PrimaryField:            "user",
		IdentifierArgument:      "login",
		TargetField:             "repositories",
		ConstraintArgumentField: "orderBy",
		ConstraintOrderingField: "STARGAZERS",
		ConstraintDirection:     "DESC",
		TargetGraphQLType:       "RepositoryConnection",
	}, m)

	require.Len(t, store.queries, 1)
	q := store.queries[0]
	assert.Contains(t, q, "GRAPH <http://example.org/graphs/github>")
	assert.Contains(t, q, `FILTER(LCASE(STR(?primaryLabel)) = "user")`)
	assert.Contains(t, q, `FILTER(LCASE(STR(?targetLabel)) = "repositories")`)
	assert.Contains(t, q, `FILTER(LCASE(STR(?constraintLabel)) = "most starred")`)
	assert.Contains(t, q, "ex:defaultDirection ?direction")
}

func TestResolveOmitsConstraintBlockWithoutConstraints(t *testing.T) {
	store := &fakeStore{rows: []sparql.Binding{{
		"primaryField":       literal("user"),
		"identifierArgument": literal("login"),
		"targetField":        literal("user"),
	}}}
	r := newTestResolver(t, store)

	in := githubIntent()
	in.SubEntity = ""
	in.Constraints = nil

	m, err := r.Resolve(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "user", m.TargetField)
	assert.False(t, m.HasOrdering())
	assert.NotContains(t, store.queries[0], "?constraintLabel")
}

func TestResolveUnmatchedConstraintLeavesFieldsEmpty(t *testing.T) {
	store := &fakeStore{rows: []sparql.Binding{{
		"primaryField":       literal("user"),
		"identifierArgument": literal("login"),
		"targetField":        literal("repositories"),
	}}}
	r := newTestResolver(t, store)

	m, err := r.Resolve(context.Background(), githubIntent())
	require.NoError(t, err)
	assert.Empty(t, m.ConstraintArgumentField)
	assert.Empty(t, m.ConstraintOrderingField)
	assert.Empty(t, m.ConstraintDirection)
}

func TestResolveReference(t *testing.T) {
	store := &fakeStore{rows: []sparql.Binding{{
		"targetField":        literal("country"),
		"identifierArgument": literal("code"),
	}}}
	r := newTestResolver(t, store)

	m, err := r.Resolve(context.Background(), models.Intent{
		Target: "Country", Identifier: "BR", Fields: []string{"name"}, API: "COUNTRIES",
	})
	require.NoError(t, err)
	assert.Equal(t, "country", m.TargetField)
	assert.Equal(t, "code", m.IdentifierArgument)
	assert.Empty(t, m.PrimaryField)

	q := store.queries[0]
	assert.Contains(t, q, "GRAPH <http://example.org/graphs/countries>")
	assert.Contains(t, q, `= "country")`)
	assert.Contains(t, q, "OPTIONAL { ?target ex:identifierArgument ?identifierArgument }")
}

func TestResolveNoBindings(t *testing.T) {
	r := newTestResolver(t, &fakeStore{})
	_, err := r.Resolve(context.Background(), githubIntent())
	assert.True(t, errors.Is(err, errors.ErrMappingUnavailable), "got %v", err)
}

func TestResolveStoreUnreachable(t *testing.T) {
	r := newTestResolver(t, &fakeStore{err: errors.New("dial tcp: connection refused")})
	_, err := r.Resolve(context.Background(), githubIntent())
	assert.True(t, errors.Is(err, errors.ErrMappingUnavailable), "got %v", err)
	assert.True(t, errors.IsTransient(err))
}

func TestResolveUnknownAPIMakesNoQuery(t *testing.T) {
	store := &fakeStore{}
	r := newTestResolver(t, store)

	in := githubIntent()
	in.API = "WEATHER"
	_, err := r.Resolve(context.Background(), in)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedAPI), "got %v", err)
	assert.Empty(t, store.queries)
}

func TestResolveEscapesLabels(t *testing.T) {
	store := &fakeStore{}
	r := newTestResolver(t, store)

	in := githubIntent()
	in.SubEntity = `repos") } } ; DROP ALL ; #`
	_, _ = r.Resolve(context.Background(), in)

	require.Len(t, store.queries, 1)
	assert.Contains(t, store.queries[0], `= "repos\") } } ; drop all ; #")`)
}
