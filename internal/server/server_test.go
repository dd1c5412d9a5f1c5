package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/output"
	"github.com/toyz/axonbind/internal/resolver"
)

func testDocument(t *testing.T) *output.Document {
	t.Helper()
	doc := output.NewDocument(output.Info{Title: "shop", Version: "1.0.0"})
	for _, op := range []*models.Operation{
		{ID: "Orders.Get", Method: "GET", Path: "/orders/{id}"},
		{ID: "Orders.Delete", Method: "DELETE", Path: "/orders/{id}"},
		{ID: "Health", Method: "GET", Path: "/alive"},
	} {
		res := &resolver.Result{Template: op.Path}
		require.NoError(t, doc.Add(op, res, nil))
	}
	return doc
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EnableLogger = false
	s, err := New(testDocument(t), cfg, nil)
	require.NoError(t, err)
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServeDocument(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/swagger.json", contentType: "application/json", contains: `"operationId": "Orders.Get"`},
		{path: "/swagger.yaml", contentType: "application/yaml", contains: "operationId: Orders.Get"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(s, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestListOperations(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/operations")
	require.Equal(t, http.StatusOK, rec.Code)

	var ops []operationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ops))
	assert.Equal(t, []operationSummary{
		{ID: "Health", Method: "get", Path: "/alive"},
		{ID: "Orders.Delete", Method: "delete", Path: "/orders/{id}"},
		{ID: "Orders.Get", Method: "get", Path: "/orders/{id}"},
	}, ops)
}

func TestSetDocument(t *testing.T) {
	s := newTestServer(t)

	doc := output.NewDocument(output.Info{Title: "other", Version: "2"})
	require.NoError(t, s.SetDocument(doc))

	rec := get(s, "/swagger.json")
	assert.Contains(t, rec.Body.String(), `"title": "other"`)
	assert.NotContains(t, rec.Body.String(), "Orders.Get")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNoContent, get(s, "/healthz").Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.EnableLogger = false
	s, err := New(testDocument(t), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
