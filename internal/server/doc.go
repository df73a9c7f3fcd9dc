// Package server runs the document store's HTTP server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown, including the long-lived subscribe connections that
// [net/http.Server.Shutdown] does not track on its own.
package server
