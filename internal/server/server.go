package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, request IDs, panic recovery, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Route binds an HTTP method and a [http.ServeMux] path pattern to a handler.
type Route struct {
	Method  string
	Path    string
	Handler http.Handler
}

// Handler defines the interface for groups of HTTP handlers in the songbook service.
// Implementations describe their endpoints so a Router can register them in one call.
type Handler interface {
	Routes() []Route // Routes returns the method/path pairs this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers every route of a custom Handler implementation
	NotFound(handler http.Handler)                    // NotFound registers the handler for paths no route matches
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}
