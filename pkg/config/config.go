package config

import (
	"time"
)

// Config holds dataflow engine configuration. All configuration options are
// centralized here for easy management and validation.
type Config struct {
	// Execution limits
	MaxExecutionTime     time.Duration // Maximum time for an entire workflow execution
	MaxNodeExecutionTime time.Duration // Maximum time for a single node's execution

	// Preview limits
	MaxPreviewRows int // Maximum rows returned by PreviewNode, regardless of table size

	// ai_agent remote-call configuration. Validate checks these, but the
	// ai_agent operator does not read them: it uses a fixed 60 s per-call
	// timeout and calls the model for one row at a time.
	AICallTimeout      time.Duration // Timeout for a single model call
	AIMaxConcurrency   int           // Bound on concurrent per-row model calls
	AIMaxCallsPerNode  int           // Maximum model calls allowed for one ai_agent node (0 = unlimited)

	// Resource limits
	MaxInputFileSize int64 // Maximum size of a source file (bytes)
	MaxNodes         int   // Maximum number of nodes in a workflow
	MaxEdges         int   // Maximum number of edges in a workflow
	MaxRowsPerTable  int   // Maximum rows any single table may hold (0 = unlimited)

	// Retry configuration for remote calls. No operator reads these; ai_agent
	// makes each model call once, without retry.
	DefaultMaxAttempts int           // Default max retry attempts for remote calls
	DefaultBackoff     time.Duration // Default initial backoff delay
}

// Default returns a Config with sensible production-ready default values.
func Default() *Config {
	return &Config{
		MaxExecutionTime:     5 * time.Minute,
		MaxNodeExecutionTime: 30 * time.Second,

		MaxPreviewRows: 100,

		AICallTimeout:     30 * time.Second,
		AIMaxConcurrency:  4,
		AIMaxCallsPerNode: 0,

		MaxInputFileSize: 50 * 1024 * 1024, // 50MB
		MaxNodes:         1000,
		MaxEdges:         5000,
		MaxRowsPerTable:  0, // unlimited

		DefaultMaxAttempts: 3,
		DefaultBackoff:     1 * time.Second,
	}
}

// Development returns a Config with relaxed limits for local iteration.
func Development() *Config {
	cfg := Default()
	cfg.MaxExecutionTime = 10 * time.Minute
	cfg.MaxPreviewRows = 500
	return cfg
}

// Production returns a Config with stricter limits suited to shared use.
func Production() *Config {
	cfg := Default()
	cfg.MaxExecutionTime = 5 * time.Minute
	cfg.MaxRowsPerTable = 2_000_000
	return cfg
}

// Testing returns a Config with minimal limits and fast timeouts for tests.
func Testing() *Config {
	cfg := Default()
	cfg.MaxExecutionTime = 1 * time.Minute
	cfg.AICallTimeout = 2 * time.Second
	cfg.MaxPreviewRows = 20
	return cfg
}

// Validate checks that the configuration values are internally consistent.
func (c *Config) Validate() error {
	if c.MaxExecutionTime < 0 {
		return ErrInvalidExecutionTime
	}
	if c.MaxNodeExecutionTime < 0 {
		return ErrInvalidNodeExecutionTime
	}
	if c.MaxPreviewRows < 0 {
		return ErrInvalidMaxPreviewRows
	}
	if c.AICallTimeout < 0 {
		return ErrInvalidAICallTimeout
	}
	if c.AIMaxConcurrency < 0 {
		return ErrInvalidAIMaxConcurrency
	}
	if c.MaxInputFileSize < 0 {
		return ErrInvalidInputSize
	}
	if c.MaxNodes < 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxEdges < 0 {
		return ErrInvalidMaxEdges
	}
	if c.DefaultBackoff < 0 {
		return ErrInvalidBackoff
	}
	return nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
