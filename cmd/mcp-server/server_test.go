package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/njchilds90/mathtree"
	"github.com/njchilds90/mathtree/internal/session"
)

func newTestServer(t *testing.T, maxSessions int) *server {
	t.Helper()
	return newServer(session.NewStore(maxSessions, time.Hour), 1<<16, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ============================================================
// Tool endpoints
// ============================================================

func TestTool(t *testing.T) {
	s := newTestServer(t, 1)
	rec := do(t, s, http.MethodPost, "/tool",
		`{"tool":"to_string","params":{"tree":{"type":"operator","op":"+","children":[{"type":"literal","value":"2"},{"type":"symbol","value":"3x"}]}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[mathtree.ToolResponse](t, rec)
	assert.Equal(t, "2 + 3x", resp.String)
	assert.Empty(t, resp.Error)
}

func TestTool_BadRequests(t *testing.T) {
	s := newTestServer(t, 1)
	cases := map[string]string{
		"malformed":     `{"tool":`,
		"unknown field": `{"tool":"mcp_spec","extra":1}`,
		"trailing data": `{"tool":"mcp_spec"} {}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/tool", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["error"])
		})
	}
}

func TestTool_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(t, 1), http.MethodGet, "/tool", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTool_ErrorIsReported(t *testing.T) {
	rec := do(t, newTestServer(t, 1), http.MethodPost, "/tool", `{"tool":"nope"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unknown tool: nope", decodeBody[mathtree.ToolResponse](t, rec).Error)
}

func TestSchemaAndHealth(t *testing.T) {
	s := newTestServer(t, 1)

	rec := do(t, s, http.MethodGet, "/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))
	assert.Contains(t, rec.Body.String(), "post_operation")

	rec = do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 0, health["sessions"])
}

// ============================================================
// Session endpoints
// ============================================================

func TestSessions_Lifecycle(t *testing.T) {
	s := newTestServer(t, 2)

	rec := do(t, s, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[sessionView](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "?", created.State.Formula)

	rec = do(t, s, http.MethodPost, "/sessions/"+created.ID+"/keys",
		`{"keys":["type 2+3",{"name":"type","text":"*4"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[sessionView](t, rec)
	assert.Equal(t, "2 + 3*4", updated.State.Formula)
	assert.Equal(t, "14", updated.State.Value)
	assert.Equal(t, 2, updated.Keys)

	tree, err := mathtree.ParseJSON(string(updated.Tree))
	require.NoError(t, err)
	assert.Equal(t, "2 + 3*4", tree.String())

	rec = do(t, s, http.MethodGet, "/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "14", decodeBody[sessionView](t, rec).State.Value)

	rec = do(t, s, http.MethodDelete, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodGet, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessions_CreateFromTree(t *testing.T) {
	s := newTestServer(t, 1)
	rec := do(t, s, http.MethodPost, "/sessions",
		`{"tree":{"type":"operator","op":"*","children":[{"type":"literal","value":"5"},{"type":"unset"}]}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "5*?", decodeBody[sessionView](t, rec).State.Formula)

	rec = do(t, s, http.MethodPost, "/sessions", `{"tree":{"type":"operator","op":"-","children":[]}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessions_Full(t *testing.T) {
	s := newTestServer(t, 1)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/sessions", "").Code)
	rec := do(t, s, http.MethodPost, "/sessions", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSessions_BadKey(t *testing.T) {
	s := newTestServer(t, 1)
	created := decodeBody[sessionView](t, do(t, s, http.MethodPost, "/sessions", ""))

	rec := do(t, s, http.MethodPost, "/sessions/"+created.ID+"/keys", `{"keys":["jump"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string]interface{}](t, rec)["error"], "unknown key")

	rec = do(t, s, http.MethodPost, "/sessions/"+created.ID+"/keys",
		`{"keys":["type 7",{"name":"jump"},"type +1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	v := decodeBody[sessionView](t, rec)
	assert.Equal(t, "7", v.State.Formula, "keys before the bad one stay applied")
	assert.Contains(t, v.Error, "unknown key")
}

func TestSessions_UnknownID(t *testing.T) {
	s := newTestServer(t, 1)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/sessions/nope/keys", `{"keys":[]}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, "/sessions/nope", "").Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, 2)
	created := decodeBody[sessionView](t, do(t, s, http.MethodPost, "/sessions", ""))
	do(t, s, http.MethodPost, "/sessions/"+created.ID+"/keys", `{"keys":["type 1+2","left","backspace"]}`)
	do(t, s, http.MethodPost, "/tool", `{"tool":"mcp_spec"}`)
	do(t, s, http.MethodPost, "/tool", `{"tool":"nope"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "mathtree_sessions_active 1")
	assert.Contains(t, body, `mathtree_session_keys_total{key="backspace"} 1`)
	assert.Contains(t, body, `mathtree_tool_calls_total{outcome="ok",tool="mcp_spec"} 1`)
	assert.Contains(t, body, `mathtree_tool_calls_total{outcome="error",tool="unknown"} 1`)
	assert.NotContains(t, body, `tool="nope"`)
}

func TestMetrics_UnknownToolsShareOneSeries(t *testing.T) {
	s := newTestServer(t, 1)
	do(t, s, http.MethodPost, "/tool", `{"tool":"junk-1"}`)
	do(t, s, http.MethodPost, "/tool", `{"tool":"junk-2"}`)

	body := do(t, s, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `mathtree_tool_calls_total{outcome="error",tool="unknown"} 2`)
	assert.NotContains(t, body, "junk")
	assert.Equal(t, 1, strings.Count(body, `tool="unknown"`))
}

func TestToolLabel(t *testing.T) {
	for _, name := range mathtree.ToolNames() {
		assert.Equal(t, name, toolLabel(name))
	}
	assert.Equal(t, "unknown", toolLabel(""))
	assert.Equal(t, "unknown", toolLabel("Evaluate"))
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, time.Minute, sweepInterval(time.Hour))
	assert.Equal(t, 15*time.Second, sweepInterval(time.Minute))
	assert.Equal(t, time.Second, sweepInterval(time.Nanosecond))
}
