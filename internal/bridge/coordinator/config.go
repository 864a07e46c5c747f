package coordinator

import "time"

const (
	DefaultWorkers         = 4
	DefaultQueueSize       = 256
	DefaultMaxAttempts     = 3
	DefaultCallTimeout     = 5 * time.Second
	DefaultInitialInterval = 200 * time.Millisecond
	DefaultMaxInterval     = 5 * time.Second
	DefaultRetention       = 10 * time.Minute
)

type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	CallTimeout time.Duration

	InitialInterval time.Duration
	MaxInterval     time.Duration

	// Retention is how long finished tickets stay available to Lookup and to duplicate
	// detection.
	Retention time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = DefaultInitialInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = DefaultMaxInterval
	}
	if c.MaxInterval < c.InitialInterval {
		c.MaxInterval = c.InitialInterval
	}
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}
	return c
}

func (c Config) janitorInterval() time.Duration {
	return max(c.Retention/2, time.Second)
}
