// Package workers runs the client's background jobs as one unit.
//
// A [Worker] is started with the application context and stopped explicitly;
// [Workers] starts them in registration order and stops them in reverse, so
// a worker registered last is torn down first.
package workers

import "context"

// Worker is a background job with an explicit lifecycle.
//
// Start must not block: long-running work belongs in a goroutine that ends
// when ctx is cancelled or Stop is called. Stop blocks until that goroutine
// has exited and must be safe to call on a worker that never started.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
