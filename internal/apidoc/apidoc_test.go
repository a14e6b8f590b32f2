package apidoc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuildCoversRoutes(t *testing.T) {
	doc := Build("test")

	for path, methods := range map[string][]string{
		"/users/register":  {"post"},
		"/users/login":     {"post"},
		"/password/forgot": {"post"},
		"/password/reset":  {"post"},
		"/pets":            {"get", "post"},
		"/pets/{id}":       {"get", "put", "delete"},
		"/uploads/{name}":  {"get"},
	} {
		item, ok := doc.Paths[path]
		require.True(t, ok, "missing path %s", path)
		for _, m := range methods {
			assert.Contains(t, item, m, "%s %s", m, path)
		}
	}
	assert.NotEmpty(t, doc.Paths["/pets/{id}"]["put"].Security)
	assert.Empty(t, doc.Paths["/pets"]["get"].Security)
}

func TestHandlerServesYAML(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler("1.2.3")(rec, httptest.NewRequest(http.MethodGet, "/api-docs/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, "3.0.3", parsed["openapi"])
	info := parsed["info"].(map[string]any)
	assert.Equal(t, "1.2.3", info["version"])

	schemas := parsed["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "Pet")
}
