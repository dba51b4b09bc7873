// Package types provides shared type definitions for the dataflow engine.
// All core data structures used across packages are defined here to avoid
// circular dependencies.
package types

import (
	"context"
	"encoding/json"
	"fmt"
)

// ============================================================================
// Context Keys
// ============================================================================

// contextKey is used for context keys to avoid collisions
type contextKey string

const (
	// ContextKeyExecutionID is the context key for the unique execution ID
	ContextKeyExecutionID contextKey = "execution_id"

	// ContextKeyWorkflowID is the context key for the workflow ID
	ContextKeyWorkflowID contextKey = "workflow_id"
)

// GetExecutionID extracts the execution ID from context.
// Returns empty string if not found in context.
func GetExecutionID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyExecutionID).(string); ok {
		return id
	}
	return ""
}

// GetWorkflowID extracts the workflow ID from context.
// Returns empty string if not found in context.
func GetWorkflowID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyWorkflowID).(string); ok {
		return id
	}
	return ""
}

// ============================================================================
// Operator Kinds
// ============================================================================

// OperatorKind identifies which operator a node dispatches to.
type OperatorKind string

const (
	OperatorSource         OperatorKind = "source"
	OperatorSourceCSV      OperatorKind = "source_csv"
	OperatorSourceOptional OperatorKind = "source_optional"
	OperatorTransform      OperatorKind = "transform"
	OperatorTypeConvert    OperatorKind = "type_convert"
	OperatorFillNA         OperatorKind = "fill_na"
	OperatorDeduplicate    OperatorKind = "deduplicate"
	OperatorTextProcess    OperatorKind = "text_process"
	OperatorDateProcess    OperatorKind = "date_process"
	OperatorGroupAggregate OperatorKind = "group_aggregate"
	OperatorPivot          OperatorKind = "pivot"
	OperatorUnpivot        OperatorKind = "unpivot"
	OperatorJoin           OperatorKind = "join"
	OperatorConcat         OperatorKind = "concat"
	OperatorVLookup        OperatorKind = "vlookup"
	OperatorDiff           OperatorKind = "diff"
	OperatorReconcile      OperatorKind = "reconcile"
	OperatorProfitIncome   OperatorKind = "profit_income"
	OperatorProfitCost     OperatorKind = "profit_cost"
	OperatorProfitExpense  OperatorKind = "profit_expense"
	OperatorProfitSummary  OperatorKind = "profit_summary"
	OperatorProfitTable    OperatorKind = "profit_table"
	OperatorCode           OperatorKind = "code"
	OperatorAIAgent        OperatorKind = "ai_agent"
	OperatorOutput         OperatorKind = "output"
	OperatorOutputCSV      OperatorKind = "output_csv"
)

// ============================================================================
// Core Data Structures
// ============================================================================

// Payload is the JSON document describing a workflow graph.
type Payload struct {
	WorkflowID string `json:"workflow_id,omitempty"`
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`

	// Variables is the ambient scalar table expression's "@name" references
	// resolve against. It has no node/edge of its own; it travels with the
	// workflow description the way node-level config does.
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Node is a single graph vertex. Config is kept as raw JSON and decoded
// lazily by the operator that owns it (see Node.DecodeConfig), since the
// operator set here is config-map shaped rather than a small fixed set of
// per-type fields.
type Node struct {
	ID     string          `json:"id"`
	Kind   OperatorKind    `json:"type"`
	Label  string          `json:"label,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

// nodeEnvelope mirrors both the flat {id,type,label,config} node shape and
// the nested {id,type,data:{type,label,config}} shape some editors emit.
type nodeEnvelope struct {
	ID     string          `json:"id"`
	Kind   OperatorKind    `json:"type,omitempty"`
	Label  string          `json:"label,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
	Data   *struct {
		Kind   OperatorKind    `json:"type,omitempty"`
		Label  string          `json:"label,omitempty"`
		Config json.RawMessage `json:"config,omitempty"`
	} `json:"data,omitempty"`
}

// UnmarshalJSON accepts both the flat node shape and the nested "data" shape.
func (n *Node) UnmarshalJSON(b []byte) error {
	var env nodeEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("decode node: %w", err)
	}
	n.ID = env.ID
	n.Kind = env.Kind
	n.Label = env.Label
	n.Config = env.Config
	if env.Data != nil {
		if env.Data.Kind != "" {
			n.Kind = env.Data.Kind
		}
		if env.Data.Label != "" {
			n.Label = env.Data.Label
		}
		if len(env.Data.Config) > 0 {
			n.Config = env.Data.Config
		}
	}
	return nil
}

// DecodeConfig round-trips the node's raw config into a typed struct. Each
// operator calls this with its own config shape instead of a central switch
// over every operator kind.
func (n Node) DecodeConfig(out interface{}) error {
	if len(n.Config) == 0 {
		return nil
	}
	if err := json.Unmarshal(n.Config, out); err != nil {
		return fmt.Errorf("decode config for node %q: %w", n.ID, err)
	}
	return nil
}

// Edge connects one node's output to another node's input.
type Edge struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ExecutionStatus is the terminal (or in-flight) state of a node's execution.
type ExecutionStatus string

const (
	StatusPending ExecutionStatus = "pending"
	StatusSuccess ExecutionStatus = "success"
	StatusError   ExecutionStatus = "error"
)

// NodeResult is one node's entry in an ExecutionReport/PreviewReport's
// node_results map: either the node's table data (Columns/Data/TotalRows)
// or, on failure, Error (and Trace for debuggability).
type NodeResult struct {
	Columns   []string         `json:"columns,omitempty"`
	Data      []map[string]any `json:"data,omitempty"`
	TotalRows int              `json:"total_rows,omitempty"`
	Error     string           `json:"error,omitempty"`
	Trace     string           `json:"traceback,omitempty"`
}

// ExecutionReport is the result of running a full workflow. The scheduler
// never raises to its caller; every execution, successful or not, produces
// one of these.
type ExecutionReport struct {
	Success     bool                       `json:"success"`
	Error       string                     `json:"error,omitempty"`
	OutputFile  string                     `json:"output_file,omitempty"`
	Preview     *NodeResult                `json:"preview,omitempty"`
	Logs        []string                   `json:"logs"`
	NodeStatus  map[string]ExecutionStatus `json:"node_status"`
	NodeResults map[string]*NodeResult     `json:"node_results"`
}

// PreviewReport is the result of previewing a single node and its
// ancestors: an ExecutionReport plus the previewed node's identity,
// operator-specific stats, and a bounded display window of its table.
type PreviewReport struct {
	Success     bool                       `json:"success"`
	Error       string                     `json:"error,omitempty"`
	Logs        []string                   `json:"logs"`
	NodeStatus  map[string]ExecutionStatus `json:"node_status"`
	NodeResults map[string]*NodeResult     `json:"node_results"`
	NodeID      string                     `json:"node_id"`
	NodeType    OperatorKind               `json:"node_type"`
	Stats       map[string]any             `json:"stats,omitempty"`
	Preview     *NodeResult                `json:"preview,omitempty"`
}
