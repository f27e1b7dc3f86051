package httpapi

import (
	"context"
	"net/http"
	"strings"
)

// route is a single registered handler.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// Router is a minimal path-parameter-aware HTTP router; patterns use
// {name} segments, matched positionally against the request path.
type Router struct {
	routes   []route
	notFound http.HandlerFunc
}

// NewRouter constructs an empty Router.
func NewRouter() *Router {
	return &Router{notFound: defaultNotFound}
}

func (r *Router) handle(method, pattern string, h http.HandlerFunc) {
	r.routes = append(r.routes, route{method: method, pattern: pattern, handler: h})
}

func (r *Router) GET(pattern string, h http.HandlerFunc)    { r.handle(http.MethodGet, pattern, h) }
func (r *Router) POST(pattern string, h http.HandlerFunc)   { r.handle(http.MethodPost, pattern, h) }
func (r *Router) DELETE(pattern string, h http.HandlerFunc) { r.handle(http.MethodDelete, pattern, h) }

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for _, rt := range r.routes {
		if rt.method != req.Method {
			continue
		}
		params, ok := matchPattern(rt.pattern, req.URL.Path)
		if !ok {
			continue
		}
		rt.handler(w, req.WithContext(withParams(req.Context(), params)))
		return
	}
	r.notFound(w, req)
}

type paramsKey struct{}

func withParams(ctx context.Context, params map[string]string) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}

// param retrieves a path parameter captured by the router for this request.
func param(r *http.Request, name string) string {
	params, ok := r.Context().Value(paramsKey{}).(map[string]string)
	if !ok {
		return ""
	}
	return params[name]
}

func matchPattern(pattern, path string) (map[string]string, bool) {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, part := range patternParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			params[part[1:len(part)-1]] = pathParts[i]
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

func defaultNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "endpoint not found")
}
