// Package server provides HTTP routing, middleware and the JSON API for the track catalog.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /api/tracks/{id}"),
// so unsupported methods on a known path get 405 from the mux itself.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [TracksHandler] dispatches on the matched pattern.
//
// # Endpoints
//
//   - GET /api/tracks : all tracks, newest first
//   - POST /api/tracks/import : {"spotifyUrl": "..."} → 201 with the stored track
//   - GET, PUT, DELETE /api/tracks/{id} : read, edit (title, bpm) and delete one track
//   - POST /api/tracks/{id} : form _method=DELETE deletes; anything else is 405
//   - GET /api/catalog/search?q=&limit= : catalog search passthrough
//   - GET /healthz : liveness
//
// # Errors
//
// Bodies are {"error": "..."}. Invalid identifiers and input are 400, an existing
// track is 409 with {"error", "trackId"}, unknown ids are 404, catalog failures
// are 502 with the upstream message, a missing catalog is 503, everything else is
// 500 with a generic body while the detail goes to the log.
package server
