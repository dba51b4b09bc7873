// Package types provides shared type definitions for the dataflow engine.
//
// # Overview
//
// This package contains the core data structures used across the engine: the
// graph shape (Node, Edge, Payload), the operator kind enum, and the
// execution/preview report types returned by the scheduler. It exists to
// avoid circular imports between the graph, engine, and operator packages.
//
// # Node Configuration
//
// Unlike a fixed-field node model, each node's configuration is an arbitrary
// JSON object. Node keeps it as json.RawMessage and operators decode their
// own shape via Node.DecodeConfig, since the ~25 operators here each expect a
// different config shape and a single central switch would not scale.
//
// # Thread Safety
//
// Types in this package are not safe for concurrent mutation. Concurrent
// access should be coordinated by the caller.
package types
