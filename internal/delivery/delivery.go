// Package delivery holds the inbound adapters of the service.
package delivery

import "context"

// Delivery is a long-running server started by the application.
type Delivery interface {
	// Serve blocks until the server stops.
	Serve(ctx context.Context) error
}
