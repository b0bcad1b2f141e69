package server_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myaxum/myaxum/internal/api"
	"github.com/myaxum/myaxum/internal/server"
	"github.com/myaxum/myaxum/internal/service"
	"github.com/myaxum/myaxum/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBackend(t *testing.T, opts server.Options) http.Handler {
	t.Helper()
	logger := discardLogger()
	todoSvc := service.NewTodoService(storage.NewMemoryTodoStore(), nil, logger)
	userSvc := service.NewUserService(logger)
	return server.New(api.New(todoSvc, userSvc, logger), opts, logger).Handler()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

var frontend = fstest.MapFS{
	"index.html":    {Data: []byte(`<div id="app"></div>`)},
	"assets/app.js": {Data: []byte(`app()`)},
}

func TestBackend_Health(t *testing.T) {
	h := newBackend(t, server.Options{})

	w := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestBackend_JSONSample(t *testing.T) {
	h := newBackend(t, server.Options{})

	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/json_sample", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1338,"username":"Taro"}`, w.Body.String())
}

func TestBackend_TodoLifecycle(t *testing.T) {
	h := newBackend(t, server.Options{})

	w := serve(h, httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"text":"todo text"}`)))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"text":"todo text","completed":false}`, w.Body.String())

	w = serve(h, httptest.NewRequest(http.MethodPatch, "/api/todos/1",
		strings.NewReader(`{"text":"update todo text","completed":true}`)))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"text":"update todo text","completed":true}`, w.Body.String())

	w = serve(h, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"text":"update todo text","completed":true}]`, w.Body.String())

	w = serve(h, httptest.NewRequest(http.MethodDelete, "/api/todos/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(h, httptest.NewRequest(http.MethodGet, "/api/todos/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBackend_PublicRoutes(t *testing.T) {
	h := newBackend(t, server.Options{})

	w := serve(h, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"Hanako"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1337,"username":"Hanako"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader("login_id=taro&password=secret"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = serve(h, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestBackend_CORSAllowsDevServerOrigin(t *testing.T) {
	h := newBackend(t, server.Options{CORSAllowedOrigins: []string{"http://localhost:3001"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/todos", nil)
	req.Header.Set("Origin", "http://localhost:3001")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(h, req)
	assert.Equal(t, "http://localhost:3001", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(h, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBackend_SPAFallback(t *testing.T) {
	h := newBackend(t, server.Options{FrontendFS: frontend})

	w := serve(h, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "app()", w.Body.String())

	for _, p := range []string{"/", "/todos/3"} {
		w = serve(h, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.Equal(t, `<div id="app"></div>`, w.Body.String(), p)
	}
}

func TestBackend_StaticDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("from disk"), 0o600))

	h := newBackend(t, server.Options{FrontendFS: frontend, StaticDir: dir})

	w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from disk", w.Body.String())
}

func TestBackend_NoFrontend(t *testing.T) {
	h := newBackend(t, server.Options{})

	w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
