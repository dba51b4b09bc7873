package config

import "errors"

// Sentinel errors for configuration validation
var (
	ErrInvalidExecutionTime     = errors.New("invalid max execution time: must be non-negative")
	ErrInvalidNodeExecutionTime = errors.New("invalid max node execution time: must be non-negative")
	ErrInvalidMaxPreviewRows    = errors.New("invalid max preview rows: must be non-negative")

	ErrInvalidAICallTimeout    = errors.New("invalid ai call timeout: must be non-negative")
	ErrInvalidAIMaxConcurrency = errors.New("invalid ai max concurrency: must be non-negative")

	ErrInvalidInputSize = errors.New("invalid max input file size: must be non-negative")
	ErrInvalidMaxNodes  = errors.New("invalid max nodes: must be non-negative")
	ErrInvalidMaxEdges  = errors.New("invalid max edges: must be non-negative")

	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")
	ErrInvalidBackoff     = errors.New("invalid backoff duration: must be non-negative")
)
