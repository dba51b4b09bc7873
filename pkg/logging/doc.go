// Package logging provides structured logging capabilities for the workflow engine.
//
// # Overview
//
// The logging package implements a structured logging system with support for
// multiple output formats, log levels, contextual information, and integration
// with the workflow execution lifecycle.
//
// # Features
//
//   - Structured logging: JSON and text formats (log/slog handlers)
//   - Log levels: DEBUG, INFO, WARN, ERROR
//   - Context fields: workflow ID, execution ID, node ID, operator kind
//   - Context propagation: a Logger can be stored in a context.Context
//   - Flexible output: Write to any io.Writer
//
// # Log Levels
//
// Config.Level takes "debug", "info", "warn" (or "warning"), or "error".
// Any other value, including "", selects info.
//
//   - DEBUG: Detailed diagnostic information
//   - INFO: General informational messages
//   - WARN: Warning messages for potential issues
//   - ERROR: Error messages for failures
//
// # Basic Usage
//
//	import "github.com/fieldflow/gridflow/pkg/logging"
//
//	// Create logger
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout,
//	})
//
//	// Log messages
//	logger.WithWorkflowID("wf-123").WithField("node_count", 42).Info("Workflow started")
//
//	logger.WithNodeID("node-5").WithError(err).Error("Execution failed")
//
// # Context Integration
//
// WithContext stores the logger in a context; FromContext returns it, or a
// new logger built from DefaultConfig when the context holds none:
//
//	ctx = logger.WithContext(ctx)
//	logging.FromContext(ctx).Info("Node executing")
//
// # Structured Fields
//
// Fields are attached with WithField/WithFields and appear on every entry
// the returned Logger writes:
//
//	logger.WithFields(map[string]interface{}{
//	    "rows":        200,
//	    "duration_ms": 145,
//	}).Info("Node completed")
//
// # Output Formats
//
// JSON Format (Pretty false, the default):
//
//	{"time":"2024-01-15T10:30:00.000Z","level":"INFO","msg":"Workflow started","workflow_id":"wf-123","execution_id":"exec-456"}
//
// Text Format (Pretty true):
//
//	time=2024-01-15T10:30:00.000Z level=INFO msg="Workflow started" workflow_id=wf-123 execution_id=exec-456
//
// # Configuration
//
// Logger configuration options:
//
//	config := logging.Config{
//	    Level:         "debug",   // Minimum level to log
//	    Output:        os.Stdout, // Where to write logs (nil means os.Stdout)
//	    Pretty:        false,     // Text output instead of JSON
//	    IncludeCaller: true,      // Include file:line
//	}
//
// # Common Logging Patterns
//
// Workflow execution:
//
//	logger.WithWorkflowID(payload.WorkflowID).
//	    WithField("node_count", len(payload.Nodes)).
//	    Info("Workflow execution started")
//
// Node execution:
//
//	logger.WithNodeID(node.ID).WithOperatorKind(node.Kind).Debug("Node executing")
//
// Error logging:
//
//	logger.WithNodeID(node.ID).WithError(err).Error("Node execution failed")
//
// Performance metrics:
//
//	logger.WithWorkflowID(payload.WorkflowID).
//	    WithField("duration_ms", elapsed.Milliseconds()).
//	    Info("Workflow completed")
//
// # Best Practices
//
//   - Use structured fields instead of string formatting
//   - Include execution context (workflow_id, node_id, etc.)
//   - Log at appropriate levels (avoid debug in production)
//   - Add timing information for performance analysis
//   - Include error context (not just error message)
//   - Use consistent field names across the codebase
//
// # Thread Safety
//
// All logger operations are thread-safe and can be used concurrently
// from multiple goroutines without additional synchronization.
//
// # Testing
//
// For testing, use a logger with a buffer:
//
//	buf := &bytes.Buffer{}
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: buf,
//	})
//
//	logger.Info("expected message")
//	if !strings.Contains(buf.String(), "expected message") {
//	    t.Errorf("log output = %s", buf.String())
//	}
package logging
