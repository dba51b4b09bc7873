// Package config provides configuration management for the dataflow engine.
//
// # Overview
//
// The config package centralizes engine configuration: execution timeouts,
// preview row limits, ai_agent call budgets, and structural resource limits
// (max nodes/edges, max input file size), with validation and a set of
// environment-specific constructors.
//
// # Basic Usage
//
//	cfg := config.Default()
//	sched := engine.New(registry).WithConfig(cfg)
//
// # Default Configuration
//
//	MaxExecutionTime:     5 minutes
//	MaxNodeExecutionTime: 30 seconds
//	MaxPreviewRows:       100
//	AICallTimeout:        30 seconds
//	AIMaxConcurrency:     4
//	MaxNodes:             1000
//	MaxEdges:             5000
//	DefaultMaxAttempts:   3
//	DefaultBackoff:       1 second
//
// # Thread Safety
//
// Configuration objects are safe for concurrent read access; Clone returns
// an independent copy for mutation.
package config
