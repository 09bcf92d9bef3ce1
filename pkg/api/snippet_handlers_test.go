package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/snippetgen/pkg/generator"
	"github.com/platinummonkey/snippetgen/pkg/storage"
)

func newTestServer(t *testing.T) (*Server, storage.Storage) {
	t.Helper()
	store, err := storage.NewFileSystemStorage(t.TempDir())
	require.NoError(t, err)
	gen := generator.NewGenerator(nil, nil, nil)
	return NewServer(gen, nil, store, nil, nil), store
}

func generateBody(t *testing.T, overrides map[string]interface{}) *bytes.Buffer {
	t.Helper()
	body := map[string]interface{}{
		"config": map[string]interface{}{
			"rpc": map[string]interface{}{
				"proto_package": "google.cloud.speech.v1",
				"service_name":  "Adaptation",
				"rpc_name":      "CreateCustomClass",
			},
			"metadata":  map[string]interface{}{"config_id": "Basic"},
			"signature": map[string]interface{}{"snippet_method_name": "create_custom_class"},
		},
		"api_version": "v1",
	}
	for k, v := range overrides {
		body[k] = v
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func TestGenerateSnippets(t *testing.T) {
	t.Run("generates both variants by default", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate", generateBody(t, nil))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)

		assert.True(t, resp.Results[0].Sync)
		assert.Equal(t, "speech_v1_config_Adaptation_CreateCustomClass_Basic_sync", resp.Results[0].RegionTag)
		assert.Contains(t, resp.Results[0].Code, "def sample_create_custom_class_Basic():")
		assert.Contains(t, resp.Results[0].Code, "client = speech_v1.AdaptationClient()")

		assert.False(t, resp.Results[1].Sync)
		assert.Contains(t, resp.Results[1].Code, "async def sample_create_custom_class_Basic():")
	})

	t.Run("variant selection", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate",
			generateBody(t, map[string]interface{}{"variants": []string{"async"}}))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 1)
		assert.False(t, resp.Results[0].Sync)
	})

	t.Run("invalid variant", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate",
			generateBody(t, map[string]interface{}{"variants": []string{"both"}}))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing config", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate",
			bytes.NewBufferString(`{"api_version": "v1"}`))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing config field is a client error", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate",
			bytes.NewBufferString(`{"config": {"rpc": {"proto_package": "a.b"}}, "api_version": "v1"}`))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inline schema cross-check", func(t *testing.T) {
		server, _ := newTestServer(t)

		protoSources := map[string]string{
			"adaptation.proto": `syntax = "proto3";
package google.cloud.speech.v1;
message Req { string parent = 1; }
message Res { string name = 1; }
service Adaptation {
  rpc UpdateCustomClass(Req) returns (Res);
}
`,
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate",
			generateBody(t, map[string]interface{}{"proto_sources": protoSources}))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		// CreateCustomClass is not in the inline schema
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("persist stores snippets", func(t *testing.T) {
		server, store := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate",
			generateBody(t, map[string]interface{}{"persist": true}))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		snippets, err := store.List(req.Context())
		require.NoError(t, err)
		assert.Len(t, snippets, 2)
	})

	t.Run("request id header is set", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate", generateBody(t, nil))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestListAndGetSnippets(t *testing.T) {
	t.Run("list and fetch persisted snippet", func(t *testing.T) {
		server, _ := newTestServer(t)

		genReq := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/generate",
			generateBody(t, map[string]interface{}{"persist": true, "variants": []string{"sync"}}))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, genReq)
		require.Equal(t, http.StatusOK, rec.Code)

		listReq := httptest.NewRequest(http.MethodGet, "/api/v1/snippets", nil)
		rec = httptest.NewRecorder()
		server.ServeHTTP(rec, listReq)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "speech_v1_generated_Adaptation_create_custom_class_Basic_sync.py")

		getReq := httptest.NewRequest(http.MethodGet,
			"/api/v1/snippets/speech_v1_generated_Adaptation_create_custom_class_Basic_sync.py", nil)
		rec = httptest.NewRecorder()
		server.ServeHTTP(rec, getReq)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "client = speech_v1.AdaptationClient()")
	})

	t.Run("missing snippet is 404", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/snippets/nope.py", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("no storage configured", func(t *testing.T) {
		server := NewServer(generator.NewGenerator(nil, nil, nil), nil, nil, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/snippets", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
