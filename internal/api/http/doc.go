// Package http exposes the terminal registry to the host application.
//
// Handlers only marshal arguments and flatten errors to strings; all
// session semantics live in the terminal domain package. Output never
// flows through these endpoints — it is pushed over the WebSocket
// event channel (see the ws package).
//
// Endpoints:
//   - POST   /terminal/sessions             spawn a session
//   - POST   /terminal/sessions/:id/input   write bytes to a session
//   - POST   /terminal/sessions/:id/resize  change geometry
//   - DELETE /terminal/sessions/:id         close a session
//   - GET    /terminal/sessions             list session ids
//   - GET    /terminal/sessions/:id         existence check
package http
