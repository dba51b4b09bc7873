// Package observer provides an event-driven observer pattern for workflow execution.
//
// # Overview
//
// The observer package implements the observer pattern to enable monitoring,
// logging, and reacting to workflow execution events. Observers can track
// workflow lifecycle, node execution, and errors without coupling to the
// engine implementation.
//
// # Features
//
//   - Event-driven: React to workflow and node events
//   - Multiple observers: a Manager holds any number of observers
//   - Lifecycle events: workflow start/end, node start/success/failure
//   - Error events: failure events carry the error
//   - Timing: events carry a start time and an elapsed time
//   - Asynchronous delivery: Notify does not wait for observers to run
//
// # Observer Interface
//
//	type Observer interface {
//	    OnEvent(ctx context.Context, event Event)
//	}
//
// Every notification is an Event value; its Type says which transition it
// reports.
//
// # Workflow Events
//
// EventWorkflowStart ("workflow_start"):
//   - Emitted after the payload passes the node/edge limits, before the
//     topological sort
//   - Carries ExecutionID, WorkflowID and StartTime
//
// EventWorkflowEnd ("workflow_end"):
//   - Emitted once the run finishes, successfully or not
//   - Status is StatusCompleted on success, StatusFailure otherwise
//   - Carries ElapsedTime and, on failure, Error
//
// # Node Events
//
// EventNodeStart ("node_start"):
//   - Emitted after the node's inputs are gathered and its config is
//     validated, immediately before the operator runs
//   - Carries NodeID and OperatorKind
//
// EventNodeSuccess ("node_success"):
//   - Emitted after the operator returns its table
//   - Carries ElapsedTime; Result is not set
//
// EventNodeFailure ("node_failure"):
//   - Emitted when the operator returns an error
//   - Carries ElapsedTime and Error; a failed workflow_end follows
//
// EventNodeEnd ("node_end") is defined, but the scheduler does not emit it.
//
// # Basic Usage
//
//	import "github.com/fieldflow/gridflow/pkg/observer"
//
//	// Create a manager and register an observer
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//
//	// Attach it to the scheduler
//	sched := engine.New(registry).WithObservers(mgr)
//
//	// Execute workflow - observers receive events
//	report := sched.Execute(ctx, payload, files, callerIdentity, outputDir)
//
// # Custom Observer Example
//
//	type MetricsObserver struct {
//	    metrics MetricsCollector
//	}
//
//	func (o *MetricsObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    switch event.Type {
//	    case observer.EventWorkflowStart:
//	        o.metrics.Increment("workflow.started")
//	    case observer.EventWorkflowEnd:
//	        o.metrics.Histogram("workflow.duration", event.ElapsedTime)
//	    case observer.EventNodeFailure:
//	        o.metrics.Increment("node.failed", map[string]string{"kind": string(event.OperatorKind)})
//	    }
//	}
//
// # Built-in Observers
//
// NoOpObserver:
//   - Ignores every event
//
// ConsoleObserver:
//   - Writes each event through a Logger: NewDefaultLogger for
//     NewConsoleObserver, or the one passed to NewConsoleObserverWithLogger
//   - Workflow events at info (error for a failed workflow_end), node_start
//     and node_success at debug, node_failure at warn
//
// Other observers, such as telemetry.TelemetryObserver, live in their own
// packages.
//
// # Observer Composition
//
// Multiple observers can be registered on one Manager:
//
//	mgr := observer.NewManagerWithObservers(consoleObserver, metricsObserver)
//	mgr.Register(telemetryObserver)
//
// Register ignores a nil observer. Notify starts one goroutine per observer
// for every event, so neither the order in which observers run nor the
// order in which one observer sees successive events is guaranteed.
//
// # Event Timing
//
// The scheduler emits events in this order (delivery is asynchronous, as
// described above):
//
//	Workflow Lifecycle:
//	  workflow_start
//	    → for each node, in topological order:
//	       node_start
//	         → Execute Node
//	       node_success or node_failure
//	  workflow_end
//
// # Context Propagation
//
// Observers receive the context passed to Scheduler.Execute, wrapped in a
// MaxExecutionTime timeout when one is configured. It carries cancellation
// and whatever values the caller stored in it. The scheduler does not add
// the execution or workflow ID to it; those are in Event.ExecutionID and
// Event.WorkflowID. types.GetExecutionID and types.GetWorkflowID return a
// value only when the caller stored one under types.ContextKeyExecutionID
// or types.ContextKeyWorkflowID:
//
//	executionID := types.GetExecutionID(ctx)
//	workflowID := types.GetWorkflowID(ctx)
//
// # Performance Considerations
//
//   - Observers should not block
//   - Use buffered channels for async processing
//   - Minimize allocations in hot paths
//   - Consider observer overhead for high-throughput
//
// # Error Handling
//
// OnEvent returns nothing, so an observer cannot report an error to the
// engine, and a failing observer does not stop execution:
//
//   - Observer panics are recovered inside the goroutine and discarded
//     without being logged
//   - Execution continues normally
//   - Other observers still receive events
//
// # Use Cases
//
//   - Logging and auditing
//   - Metrics collection and monitoring
//   - Real-time dashboards
//   - Debugging and troubleshooting
//   - Performance profiling
//   - Event streaming to external systems
//   - Workflow analytics
//   - Alerting and notifications
//
// # Testing
//
// For testing, use a mock observer:
//
//	type MockObserver struct {
//	    mu     sync.Mutex
//	    events []observer.Event
//	}
//
//	func (o *MockObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    o.mu.Lock()
//	    defer o.mu.Unlock()
//	    o.events = append(o.events, event)
//	}
//
// Notify returns before observers run, so a test waits (for example on a
// sync.WaitGroup) before inspecting what was recorded.
//
// # Best Practices
//
//   - Keep observer logic simple and fast
//   - Use async processing for expensive operations
//   - Don't modify workflow or node state
//   - Handle errors gracefully (don't panic)
//   - Use structured logging for consistency
//   - Consider observer overhead in production
//
// # Thread Safety
//
// Observer methods may be called concurrently from multiple goroutines.
// Implementations must be thread-safe using appropriate synchronization.
package observer
