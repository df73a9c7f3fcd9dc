package server

// Server defines the lifecycle contract of the document store server.
//
// RunServer blocks until shutdown is requested or the listener fails;
// Shutdown releases resources and may be called from another goroutine.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
