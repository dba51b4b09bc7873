// Package engine provides the scheduler that runs a normalized workflow
// graph against the operator library.
//
// # Overview
//
// The scheduler computes a topological order over a workflow's nodes (or,
// for preview, the ancestor closure of a single node) and runs each node's
// operator in that order, threading node outputs forward through an
// exec.Context. Execution is strictly sequential: there is no intra-run
// parallelism across nodes, matching the single-threaded, synchronous
// contract every operator but ai_agent relies on.
//
// # Basic Usage
//
//	registry := operator.NewDefaultRegistry(nil)
//	sched := engine.New(registry)
//	report := sched.Execute(ctx, payload, files, "caller@example.com", "./out")
//	if !report.Success {
//	    log.Printf("workflow failed: %s", report.Error)
//	}
//
// # Failure Handling
//
// The scheduler never raises to its caller. Every call to Execute or
// PreviewNode returns a report: Success, Error, NodeStatus, and
// NodeResults are always populated, even when the graph itself is
// malformed (cyclic, a dangling node reference) or a single operator
// fails partway through the run.
//
// # Limits and Observability
//
// WithConfig attaches a *config.Config whose MaxNodes/MaxEdges,
// MaxExecutionTime, and MaxPreviewRows are enforced before and during a
// run; New defaults to config.Default(). WithObservers attaches an
// *observer.Manager so workflow_start/node_start/node_success/
// node_failure/workflow_end transitions are published as observer.Events,
// which a telemetry.TelemetryObserver can translate into spans and
// metrics.
package engine
