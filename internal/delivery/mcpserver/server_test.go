package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
	"github.com/travel-discovery-mcp/internal/pkg/requestid"
	"github.com/travel-discovery-mcp/internal/tool"
)

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	registry := tool.NewRegistry()

	echo := func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		var m map[string]interface{}
		_ = json.Unmarshal(args, &m)
		return map[string]interface{}{"echo": m, "request_id": requestid.FromContext(ctx)}, nil
	}
	failing := func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		return nil, apperrors.NewBadInput("Autocomplete term must contain at least 2 characters.", "")
	}

	require.NoError(t, registry.Register(tool.Tool{Name: "echo", Description: "echo arguments",
		InputSchema: map[string]interface{}{"type": "object", "properties": map[string]interface{}{"term": map[string]interface{}{"type": "string"}}},
		Handler:     echo}))
	require.NoError(t, registry.Register(tool.Tool{Name: "failing", Description: "always fails",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler:     tool.Trace("failing", nil, zap.NewNop())(failing)}))
	return registry
}

type testServer struct {
	t   *testing.T
	mcp *server.MCPServer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := NewServer(newTestRegistry(t), "travel-discovery", "test", zap.NewNop())
	require.NoError(t, err)
	return &testServer{t: t, mcp: s}
}

// call отправляет сообщение и возвращает декодированный ответ; nil для уведомлений
func (s *testServer) call(raw string) map[string]interface{} {
	s.t.Helper()
	resp := s.mcp.HandleMessage(context.Background(), json.RawMessage(raw))
	if resp == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	require.NoError(s.t, err)

	var m map[string]interface{}
	require.NoError(s.t, json.Unmarshal(data, &m))
	assert.Equal(s.t, "2.0", m["jsonrpc"])
	return m
}

func errorCode(t *testing.T, m map[string]interface{}) int {
	t.Helper()
	e, ok := m["error"].(map[string]interface{})
	require.True(t, ok, "expected error object, got %v", m)
	return int(e["code"].(float64))
}

func TestServer_Initialize(t *testing.T) {
	s := newTestServer(t)

	resp := s.call(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)

	require.NotNil(t, resp)
	result := resp["result"].(map[string]interface{})
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, "2025-03-26", result["protocolVersion"])
	assert.Contains(t, result["capabilities"], "tools")
	assert.Equal(t, "travel-discovery", result["serverInfo"].(map[string]interface{})["name"])
}

func TestServer_PingAndNotification(t *testing.T) {
	s := newTestServer(t)

	ping := s.call(`{"jsonrpc":"2.0","id":2,"method":"ping"}`)
	require.NotNil(t, ping)
	assert.NotContains(t, ping, "error")

	assert.Nil(t, s.call(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
}

func TestServer_ListTools(t *testing.T) {
	s := newTestServer(t)

	resp := s.call(`{"jsonrpc":"2.0","id":3,"method":"tools/list"}`)

	tools := resp["result"].(map[string]interface{})["tools"].([]interface{})
	require.Len(t, tools, 2)

	names := make([]string, 0, len(tools))
	for _, raw := range tools {
		item := raw.(map[string]interface{})
		names = append(names, item["name"].(string))
		if item["name"] == "echo" {
			schema := item["inputSchema"].(map[string]interface{})
			assert.Equal(t, "object", schema["type"])
			assert.Contains(t, schema["properties"], "term")
			assert.Equal(t, "echo arguments", item["description"])
		}
	}
	assert.ElementsMatch(t, []string{"echo", "failing"}, names)
}

func TestServer_CallTool(t *testing.T) {
	s := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		resp := s.call(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{"term":"Paris"}}}`)

		result := resp["result"].(map[string]interface{})
		assert.NotEqual(t, true, result["isError"])

		content := result["content"].([]interface{})
		require.Len(t, content, 1)
		item := content[0].(map[string]interface{})
		assert.Equal(t, "text", item["type"])
		assert.JSONEq(t, `{"echo":{"term":"Paris"},"request_id":""}`, item["text"].(string))

		structured := result["structuredContent"].(map[string]interface{})
		assert.Equal(t, map[string]interface{}{"term": "Paris"}, structured["echo"])
	})

	t.Run("tool error envelope", func(t *testing.T) {
		resp := s.call(`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"failing","arguments":{}}}`)

		result := resp["result"].(map[string]interface{})
		assert.Equal(t, true, result["isError"])
		text := result["content"].([]interface{})[0].(map[string]interface{})["text"].(string)
		assert.JSONEq(t, `{"error":{"type":"bad_input","message":"Autocomplete term must contain at least 2 characters."}}`, text)
	})

	t.Run("unknown tool", func(t *testing.T) {
		resp := s.call(`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"missing","arguments":{}}}`)
		assert.Contains(t, resp, "error")
		assert.NotContains(t, resp, "result")
	})
}

func TestServer_ProtocolErrors(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, -32700, errorCode(t, s.call(`{"jsonrpc":`)))
	assert.Equal(t, -32601, errorCode(t, s.call(`{"jsonrpc":"2.0","id":7,"method":"resources/unknown"}`)))
}

func TestHTTPHandler(t *testing.T) {
	s, err := NewServer(newTestRegistry(t), "travel-discovery", "test", zap.NewNop())
	require.NoError(t, err)
	h := NewHTTPHandler(s)

	post := func(body string, header http.Header) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		for k, v := range header {
			req.Header[http.CanonicalHeaderKey(k)] = v
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("tools/call carries request id", func(t *testing.T) {
		rec := post(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"term":"Berlin"}}}`,
			http.Header{HeaderRequestID: {"req-42"}})

		require.Equal(t, http.StatusOK, rec.Code)
		var decoded struct {
			Result struct {
				StructuredContent map[string]interface{} `json:"structuredContent"`
			} `json:"result"`
		}
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&decoded))
		assert.Equal(t, "req-42", decoded.Result.StructuredContent["request_id"])
	})

	t.Run("notification is accepted without body", func(t *testing.T) {
		rec := post(`{"jsonrpc":"2.0","method":"notifications/initialized"}`, nil)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})
}
