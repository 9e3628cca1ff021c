package besi

import "time"

// Config represents server configuration options.
type Config struct {
	// Protocol is the protocol the listener speaks; it supplies the scheme
	// used when resolving absolute-path request-targets.
	Protocol Protocol

	// Multicore runs the event loop on all CPU cores.
	Multicore bool

	// IdleTimeout is the TCP keep-alive period for accepted connections.
	IdleTimeout time.Duration

	// DisableStartupMessage suppresses the startup banner.
	DisableStartupMessage bool
}

// DefaultConfig returns a configuration suitable for most deployments:
// plaintext HTTP, multicore event loop, 15 second keep-alive.
func DefaultConfig() Config {
	return Config{
		Protocol:    HTTP,
		Multicore:   true,
		IdleTimeout: 15 * time.Second,
	}
}
