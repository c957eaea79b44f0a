package providers

import "time"

const (
	// shutdownTimeout bounds the final save when the process stops.
	shutdownTimeout = 30 * time.Second
)
