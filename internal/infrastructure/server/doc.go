// Package server wires configuration, logging, metrics, the terminal
// registry, the WebSocket event hub, and the HTTP API into one
// runnable service.
package server
