package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/config"
	"mapforge/internal/metrics"
	"mapforge/internal/schema"
)

const bookSchema = `
entities:
  - name: book
    type_hints: false
    properties:
      - name: title
        field: { type: text, analyzer: english }
  - name: author
    type_hints: false
    properties:
      - name: full_name
        field: { type: keyword }
`

const bookMapping = `{"properties":{"title":{"type":"text","analyzer":"english"}}}`

// envelope mirrors Response for decoding in assertions.
type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Issues    []Issue         `json:"issues"`
	Timestamp string          `json:"timestamp"`
}

func newTestServer(t *testing.T, schemaBody string) (*Server, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schemaBody), 0o644))

	cfg := &config.Config{
		Server: config.ServerConfig{Addr: ":0", Mode: gin.TestMode},
		Schema: config.SchemaConfig{FilePath: path, ResourceDir: dir},
		Log:    config.LogConfig{Level: "info"},
	}

	srv, err := New(cfg, zerolog.Nop(), metrics.NewWith(prometheus.NewRegistry()))
	require.NoError(t, err)

	return srv, path
}

func doRequest(t *testing.T, router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

func TestEntitiesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/entities")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, "success", env.Message)
	assert.NotEmpty(t, env.Timestamp)

	var data struct {
		Entities []string `json:"entities"`
		Total    int      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	assert.Equal(t, []string{"author", "book"}, data.Entities)
	assert.Equal(t, 2, data.Total)
}

func TestEntityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/entities/book")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)

	var entity schema.Entity
	require.NoError(t, json.Unmarshal(env.Data, &entity))

	spew.Dump(entity)

	assert.Equal(t, "book", entity.Name)
	require.Len(t, entity.Properties, 1)
	assert.Equal(t, "title", entity.Properties[0].Name)
}

func TestEntityEndpointUnknown(t *testing.T) {
	srv, _ := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/entities/ghost")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.Contains(t, env.Message, "ghost")
}

func TestMappingEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/mappings/book")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, bookMapping, rec.Body.String())

	// Second fetch is served from the cache and must be identical.
	again := doRequest(t, router, http.MethodGet, "/api/v1/mappings/book")
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, rec.Body.String(), again.Body.String())
}

func TestMappingEndpointUnknown(t *testing.T) {
	srv, _ := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/mappings/ghost")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestReloadPicksUpChanges(t *testing.T) {
	srv, path := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/mappings/book")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, bookMapping, rec.Body.String())

	changed := `
entities:
  - name: book
    type_hints: false
    properties:
      - name: title
        field: { type: text, analyzer: german }
`
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

	reload := doRequest(t, router, http.MethodPost, "/api/v1/reload")
	require.Equal(t, http.StatusOK, reload.Code)

	env := decodeEnvelope(t, reload)

	var data struct {
		Entities int `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Entities)
	assert.Empty(t, env.Issues)

	after := doRequest(t, router, http.MethodGet, "/api/v1/mappings/book")
	require.Equal(t, http.StatusOK, after.Code)
	assert.Equal(t,
		`{"properties":{"title":{"type":"text","analyzer":"german"}}}`,
		after.Body.String())
}

func TestReloadReportsValidationIssues(t *testing.T) {
	srv, path := newTestServer(t, bookSchema)
	router := srv.Router()

	// One valid entity, one with an unknown field type.
	mixed := `
entities:
  - name: book
    type_hints: false
    properties:
      - name: title
        field: { type: text }
  - name: broken
    properties:
      - name: blob
        field: { type: hologram }
`
	require.NoError(t, os.WriteFile(path, []byte(mixed), 0o644))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/reload")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)

	var data struct {
		Entities int `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Entities)

	require.NotEmpty(t, env.Issues)
	assert.Equal(t, "error", env.Issues[0].Severity)
	assert.Equal(t, "unknown_field_type", env.Issues[0].Code)
	assert.Equal(t, "broken.blob", env.Issues[0].Subject)

	// The rejected entity must not be served.
	missing := doRequest(t, router, http.MethodGet, "/api/v1/mappings/broken")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestReloadBadFileKeepsServing(t *testing.T) {
	srv, path := newTestServer(t, bookSchema)
	router := srv.Router()

	require.NoError(t, os.WriteFile(path, []byte("entities: [not, a, mapping"), 0o644))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/reload")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// The previous registry stays live.
	after := doRequest(t, router, http.MethodGet, "/api/v1/mappings/book")
	require.Equal(t, http.StatusOK, after.Code)
	assert.Equal(t, bookMapping, after.Body.String())
}

func TestHealthzEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, bookSchema)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	rec := doRequest(t, router, http.MethodGet, "/boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "internal server error", env.Message)
}
