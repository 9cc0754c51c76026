// Package server provides HTTP routing, middleware, and server lifecycle for the songbook web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Routes are registered as
// "METHOD /path" patterns, so path wildcards ("/admin/songs/{id}") and automatic 405 responses come
// from the standard mux.
//
// # Handler Interface
//
// Handler groups implement the [Handler] interface, returning their [Route] list, allowing a package
// such as web to keep its route table next to the handlers it names.
//
// # Middleware
//
//   - [RequestID] : reuse or generate an X-Request-ID and store it in the request context
//   - [Logger] : one access log line per request with status and duration
//   - [Recover] : convert panics to 500 responses
//   - [RateLimit] : process-wide token bucket returning 429 when exhausted
//
// # Lifecycle
//
// [NewHTTPServer] applies configured timeouts; [Serve] blocks on a listener until the context is
// cancelled and then shuts down gracefully.
package server
