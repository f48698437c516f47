package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap/zaptest"

	"github.com/gait-ai/gait/pkg/config"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/router"
)

func newTestGateway(t *testing.T, url string, auth models.AuthPolicy, token string) *Gateway {
	t.Helper()
	cfg := &config.Config{APIs: []config.APIConfig{{
		Name: "github", Family: models.FamilyUserCollection, URL: url,
		Auth: auth, Token: token, MappingGraph: "urn:g", DefaultField: "id",
	}}}
	return New(router.New(cfg), config.HTTPConfig{Timeout: time.Second, UserAgent: "gait-test"}, zaptest.NewLogger(t))
}

func TestInvokeSendsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		assert.Equal(t, "gait-test", r.Header.Get("User-Agent"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, `query { user(login: "octocat") { id } }`, req.Query)

		w.Write([]byte(`{"data":{"user":{"id":"MDQ6VXNlcjU4MzIzMQ=="}}}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, models.AuthBearer, "ghp_test")
	payload, err := g.Invoke(context.Background(), `query { user(login: "octocat") { id } }`, "GITHUB")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"user":{"id":"MDQ6VXNlcjU4MzIzMQ=="}}}`, payload)
}

func TestInvokeWithoutAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"country":{"name":"Brazil"}}}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, models.AuthNone, "")
	_, err := g.Invoke(context.Background(), `query { country(code: "BR") { name } }`, "github")
	require.NoError(t, err)
}

func TestMissingTokenSendsNothing(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, models.AuthBearer, "")
	_, err := g.Invoke(context.Background(), "query { viewer { login } }", "github")
	assert.True(t, errors.Is(err, errors.ErrMissingCredentials), "got %v", err)
	assert.True(t, errors.IsConfiguration(err))
	assert.False(t, errors.Is(err, errors.ErrExternalCall))
	assert.Zero(t, calls.Load())
}

func TestNon2xxIsExternalCallError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, models.AuthBearer, "bad")
	_, err := g.Invoke(context.Background(), "query { viewer { login } }", "github")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExternalCall))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Body, "Bad credentials")
}

func TestGraphQLErrorsAreFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Could not resolve to a User with the login of 'nobody'.","path":["user"]}]}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, models.AuthBearer, "ghp_test")
	_, err := g.Invoke(context.Background(), `query { user(login: "nobody") { id } }`, "github")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExternalCall))

	var list gqlerror.List
	require.True(t, errors.As(err, &list))
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Message, "Could not resolve")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := newTestGateway(t, url, models.AuthNone, "")
	_, err := g.Invoke(context.Background(), "query { countries { code } }", "github")
	assert.True(t, errors.Is(err, errors.ErrExternalCall), "got %v", err)
	assert.True(t, errors.IsTransient(err))
}

func TestUnknownAPI(t *testing.T) {
	g := newTestGateway(t, "http://127.0.0.1:1", models.AuthNone, "")
	_, err := g.Invoke(context.Background(), "query { x }", "gitlab")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedAPI))
}
