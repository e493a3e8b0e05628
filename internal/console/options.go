package console

import (
	"log/slog"
	"time"
)

const (
	defaultListenAddr     = "127.0.0.1:8639"
	defaultDebounceDelay  = 400 * time.Millisecond
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultMaxRequestSize = 1 << 20 // 1 MiB, demo payloads are small
)

// config holds configuration for the console server.
type config struct {
	listenAddr     string
	corsOrigins    []string
	debounceDelay  time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	maxRequestSize int64
	logger         *slog.Logger
}

// Option configures the console server.
type Option func(*config)

// WithListenAddr sets the address the server listens on.
// Default: 127.0.0.1:8639
func WithListenAddr(addr string) Option {
	return func(c *config) {
		c.listenAddr = addr
	}
}

// WithCORSOrigins sets the allowed browser origins. An empty list allows
// any origin, which suits a local demo console.
func WithCORSOrigins(origins []string) Option {
	return func(c *config) {
		c.corsOrigins = origins
	}
}

// WithDebounceDelay sets the delay between the last auto-run request and
// the actual decrypt attempt.
// Default: 400ms
func WithDebounceDelay(delay time.Duration) Option {
	return func(c *config) {
		c.debounceDelay = delay
	}
}

// WithReadTimeout sets the HTTP read timeout.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.readTimeout = timeout
	}
}

// WithWriteTimeout sets the HTTP write timeout.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.writeTimeout = timeout
	}
}

// WithLogger sets the structured logger used for request and lifecycle
// logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
