package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-equipment-analytics/pkg/logger"
)

func TestMatchWildcardRoute(t *testing.T) {
	cases := []struct {
		path, pattern string
		want          bool
	}{
		{"/api/v1/datasets/abc", "/api/v1/datasets/*", true},
		{"/api/v1/datasets/abc/summary", "/api/v1/datasets/*", false},
		{"/api/v1/datasets/abc/summary", "/api/v1/datasets/*/summary", true},
		{"/api/v1/datasets/abc/preview", "/api/v1/datasets/*/summary", false},
		{"/api/v1/datasets/abc/charts/bar.png", "/api/v1/datasets/*/charts/*.png", true},
		{"/api/v1/datasets/abc/charts/.png", "/api/v1/datasets/*/charts/*.png", false},
		{"/api/v1/datasets/abc/charts/bar.svg", "/api/v1/datasets/*/charts/*.png", false},
		{"/swagger/index.html", "/swagger/*", true},
		{"/swagger/a/b.js", "/swagger/*", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchWildcardRoute(tc.path, tc.pattern), "%s ~ %s", tc.path, tc.pattern)
	}
}

func TestRouterDispatch(t *testing.T) {
	r := New(logger.Nop())
	hit := ""
	r.GET("/api/v1/datasets", func(w http.ResponseWriter, _ *http.Request) { hit = "list" })
	r.POST("/api/v1/datasets/upload", func(w http.ResponseWriter, _ *http.Request) { hit = "upload" })
	r.GET("/api/v1/datasets/*/summary", func(w http.ResponseWriter, _ *http.Request) { hit = "summary" })
	r.GET("/api/v1/datasets/*", func(w http.ResponseWriter, req *http.Request) { hit = "get:" + PathSegment(req, 3) })

	serve := func(method, path string) int {
		hit = ""
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/api/v1/datasets"))
	assert.Equal(t, "list", hit)
	assert.Equal(t, http.StatusOK, serve(http.MethodPost, "/api/v1/datasets/upload"))
	assert.Equal(t, "upload", hit)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/api/v1/datasets/42/summary"))
	assert.Equal(t, "summary", hit)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/api/v1/datasets/42"))
	assert.Equal(t, "get:42", hit)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(http.MethodPut, "/api/v1/datasets/42"))
	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/api/v1/unknown"))
	assert.Empty(t, hit)

	assert.Len(t, r.routes, 4)
	assert.True(t, r.paths["/api/v1/datasets/*"])
}

func TestShutdownBeforeStart(t *testing.T) {
	r := New(logger.Nop())
	require.NoError(t, r.Shutdown(context.Background()))
	assert.NoError(t, r.Start("127.0.0.1:0"))
}

func TestStartShutdownFromAnotherGoroutine(t *testing.T) {
	r := New(logger.Nop())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start("127.0.0.1:0") }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after Shutdown")
	}
}

func TestPathSegment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/abc/preview", nil)
	assert.Equal(t, "api", PathSegment(req, 0))
	assert.Equal(t, "abc", PathSegment(req, 3))
	assert.Equal(t, "", PathSegment(req, 9))
}
