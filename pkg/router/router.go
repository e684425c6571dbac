// Package router is a small method-aware mux with trailing-wildcard
// routes and request logging, shared by the API binaries.
package router

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	mux    *http.ServeMux
	routes map[string]HandlerFunc // key = METHOD:PATH
	paths  []string               // registration order, checked first to last
	log    *zap.Logger
}

func New(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		log:    log,
	}

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		r.dispatch(lrw, req)
		r.log.Info("http",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h(w, req)
		return
	}
	pathMatched := false
	for _, pattern := range r.paths {
		if !matchRoute(req.URL.Path, pattern) {
			continue
		}
		pathMatched = true
		if h, ok := r.routes[req.Method+":"+pattern]; ok {
			h(w, req)
			return
		}
	}
	if pathMatched {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.NotFound(w, req)
}

// matchRoute matches a request path against a registered pattern.
// A "*" segment matches exactly one path segment; a trailing "*"
// matches one or more remaining segments.
func matchRoute(path, pattern string) bool {
	ps := strings.Split(strings.Trim(path, "/"), "/")
	rs := strings.Split(strings.Trim(pattern, "/"), "/")

	if len(rs) > 0 && rs[len(rs)-1] == "*" {
		if len(ps) < len(rs) {
			return false
		}
		rs = rs[:len(rs)-1]
		for i, seg := range rs {
			if seg != "*" && ps[i] != seg {
				return false
			}
		}
		return true
	}

	if len(ps) != len(rs) {
		return false
	}
	for i, seg := range rs {
		if seg != "*" && ps[i] != seg {
			return false
		}
	}
	return true
}

func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	if _, seen := r.routes[key]; !seen {
		dup := false
		for _, p := range r.paths {
			if p == path {
				dup = true
				break
			}
		}
		if !dup {
			r.paths = append(r.paths, path)
		}
	}
	r.routes[key] = handler
}

func (r *Router) GET(path string, handler HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Handler exposes the underlying mux for http.Server or tests.
func (r *Router) Handler() http.Handler { return r.mux }

// Start blocks serving on addr.
func (r *Router) Start(addr string) error {
	r.log.Info("server started", zap.String("addr", addr))
	srv := &http.Server{Addr: addr, Handler: r.mux}
	return srv.ListenAndServe()
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
