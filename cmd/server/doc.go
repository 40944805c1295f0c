// Command server runs the TermDeck terminal backend: PTY session
// management over an HTTP API, with output streamed to the desktop UI
// over WebSocket.
package main
