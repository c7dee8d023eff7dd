package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go-equipment-analytics/pkg/logger"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	log       *logger.Logger
	mux       *http.ServeMux
	routes    map[string]HandlerFunc // key = METHOD:PATH
	paths     map[string]bool        // track registered paths
	wildcards []string               // wildcard paths in registration order

	mu     sync.Mutex
	server *http.Server
	closed bool
}

func New(log *logger.Logger) *Router {
	r := &Router{
		log:    log.With("component", "router"),
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}

	// Catch-all handler for every path
	r.mux.HandleFunc("/", r.dispatch)
	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h(lrw, req)
	} else if h, ok := r.matchWildcard(req.Method, req.URL.Path); ok {
		h(lrw, req)
	} else if r.pathExists(req.URL.Path) {
		writeError(lrw, http.StatusMethodNotAllowed, "Method \""+req.Method+"\" not allowed.")
	} else {
		writeError(lrw, http.StatusNotFound, "Not found.")
	}

	r.log.Info("HTTP request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", lrw.statusCode,
		"duration", time.Since(start),
	)
}

// matchWildcard returns the first wildcard route, in registration order,
// that matches path for method. More specific routes must be registered first.
func (r *Router) matchWildcard(method, path string) (HandlerFunc, bool) {
	for _, pattern := range r.wildcards {
		if !matchWildcardRoute(path, pattern) {
			continue
		}
		if h, ok := r.routes[method+":"+pattern]; ok {
			return h, true
		}
	}
	return nil, false
}

func (r *Router) pathExists(path string) bool {
	if r.paths[path] {
		return true
	}
	for _, pattern := range r.wildcards {
		if matchWildcardRoute(path, pattern) {
			return true
		}
	}
	return false
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern.
// A segment may be "*" (any one segment) or "*.ext" (any one segment with that
// suffix); a trailing "*" matches any number of remaining segments.
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	last := len(routeSegments) - 1
	if routeSegments[last] == "*" && len(requestSegments) > len(routeSegments) {
		requestSegments = requestSegments[:len(routeSegments)]
	}
	if len(requestSegments) != len(routeSegments) {
		return false
	}

	for i, routeSegment := range routeSegments {
		if !matchSegment(requestSegments[i], routeSegment) {
			return false
		}
	}
	return true
}

func matchSegment(segment, pattern string) bool {
	switch {
	case pattern == "*":
		return segment != ""
	case strings.HasPrefix(pattern, "*"):
		suffix := pattern[1:]
		return len(segment) > len(suffix) && strings.HasSuffix(segment, suffix)
	default:
		return segment == pattern
	}
}

// PathSegment returns the i-th segment of the request path, or "".
func PathSegment(req *http.Request, i int) string {
	parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	if _, exists := r.routes[key]; !exists && strings.Contains(path, "*") && !r.paths[path] {
		r.wildcards = append(r.wildcards, path)
	}
	r.routes[key] = handler
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// --- Start server ---

// Start serves until Shutdown is called or the listener fails. It may run on
// another goroutine than Shutdown; a Start after Shutdown returns nil at once.
func (r *Router) Start(addr string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	r.server = srv
	r.mu.Unlock()

	r.log.Info("Server started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	srv := r.server
	r.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
