package session

import "time"

// Defaults for the session timing knobs. The flow is a simulation, so the
// durations exist purely to make the stages observable.
const (
	DefaultProcessingDuration = 2 * time.Second
	DefaultRetryInterval      = 500 * time.Millisecond
	DefaultMaxPresentAttempts = 5
	DefaultAnnounceDelay      = 300 * time.Millisecond
	DefaultAnnounceTimeout    = 5 * time.Second
)

// Config carries the timing parameters of a payment session.
type Config struct {
	// ProcessingDuration is the fixed length of the simulated processing
	// stage. The user cannot abort processing once confirmed.
	ProcessingDuration time.Duration

	// RetryInterval is the backoff between presentation attempts while the
	// surface is busy.
	RetryInterval time.Duration

	// MaxPresentAttempts bounds the summary presentation retries. Past the
	// bound the session fails deterministically instead of retrying forever.
	MaxPresentAttempts int

	// AnnounceDelay is the fixed pause before the success overlay is
	// announced.
	AnnounceDelay time.Duration

	// AnnounceTimeout bounds a single overlay announcement attempt.
	AnnounceTimeout time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.ProcessingDuration <= 0 {
		cfg.ProcessingDuration = DefaultProcessingDuration
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.MaxPresentAttempts <= 0 {
		cfg.MaxPresentAttempts = DefaultMaxPresentAttempts
	}
	if cfg.AnnounceDelay <= 0 {
		cfg.AnnounceDelay = DefaultAnnounceDelay
	}
	if cfg.AnnounceTimeout <= 0 {
		cfg.AnnounceTimeout = DefaultAnnounceTimeout
	}
	return cfg
}
