package config

import "time"

type Registrar struct {
	// Interval between passes. One pass submits at most one pending listing,
	// so passes are serialized by construction.
	Interval time.Duration `env:"REGISTRAR_INTERVAL" envDefault:"1m"`

	// MaxRetry is the hard ceiling on denial remediation cycles per listing.
	MaxRetry int `env:"REGISTRAR_MAX_RETRY" envDefault:"3"`

	// DeniedBatchSize bounds how many denied listings are remediated per pass.
	DeniedBatchSize int `env:"REGISTRAR_DENIED_BATCH_SIZE" envDefault:"2"`

	// EnrichTimeout is how long an unenriched pending listing waits for the
	// upstream naming optimizer before being submitted as-is.
	EnrichTimeout time.Duration `env:"REGISTRAR_ENRICH_TIMEOUT" envDefault:"24h"`

	// PaceDelay is a cooperative delay inserted after each marketplace call
	// to respect its rate limits.
	PaceDelay time.Duration `env:"REGISTRAR_PACE_DELAY" envDefault:"1s"`
}
