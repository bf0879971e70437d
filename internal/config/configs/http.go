package configs

import "time"

// HTTP defines configuration for the HTTP server. The Port specifies
// which port the server will bind to. RateLimitRPS and RateLimitBurst size
// the token bucket kept per caller; a non-positive RPS disables limiting.
// SignatureMaxSkew bounds how far the timestamp of a signed request may
// drift from the server clock.
type HTTP struct {
	// Port is the TCP port the HTTP server will listen on. Defaults to 8080.
	Port uint16 `env:"PORT" envDefault:"8080"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	SignatureMaxSkew time.Duration `env:"SIGNATURE_MAX_SKEW" envDefault:"5m"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
