// Package ws pushes terminal events to the desktop UI over WebSocket.
//
// The hub implements terminal.Sink: every output/exit event emitted by
// a session's reader is marshalled to JSON and fanned out to all
// connected UI clients. Raw output bytes are base64-encoded by the
// JSON marshaller; the UI feeds the decoded bytes straight into its
// renderer.
//
// Delivery is best-effort by design: a slow or disconnected client
// drops events rather than blocking a session reader. The UI owns
// redraw/recovery; this channel promises ordering per session, not
// delivery.
//
// Message Types (Server → Client):
//   - output: raw PTY bytes for a session
//   - exit: session terminated (exit_code present when known)
//
// Example Usage:
//
//	hub := ws.NewHub(logger)
//	registry := terminal.NewRegistry(hub, logger)
//	router.GET("/events", hub.HandleConnection)
package ws
