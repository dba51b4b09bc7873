// Package graph provides graph algorithms and utilities for workflow execution.
//
// # Overview
//
// The graph package implements the graph operations used by the workflow
// engine for execution ordering, cycle detection, and preview sub-graph
// selection. It provides a foundation for DAG-based workflow execution.
//
// # Key Algorithms
//
// Topological Sort:
//   - Implements Kahn's algorithm for topological ordering
//   - Ensures nodes execute in dependency order
//   - Detects cycles in the workflow graph
//   - Deterministic: root nodes are queued sorted by ID
//
// Cycle Detection:
//   - DetectCycles runs the topological sort and returns its error
//   - The error states that a cycle exists; it does not name the nodes in it
//
// Dependency Analysis:
//   - AncestorClosure computes a node's transitive dependencies
//   - GetNodeInputEdges/GetNodeOutputEdges list a node's edges in edge-list order
//   - GetTerminalNodes lists nodes with no outgoing edges
//
// # Graph Representation
//
// Workflows are represented as directed graphs where:
//
//   - Nodes represent workflow operations
//   - Edges represent data dependencies
//   - Direction indicates data flow (source → target)
//   - Multiple edges can connect the same nodes
//
// # Topological Sort Usage
//
//	import "github.com/fieldflow/gridflow/pkg/graph"
//
//	edges := []types.Edge{
//	    {Source: "A", Target: "B"},
//	    {Source: "B", Target: "C"},
//	}
//
//	g := graph.New(nodes, edges)
//	g.Normalize() // drop edges that reference unknown node IDs
//
//	sorted, err := g.TopologicalSort()
//	if err != nil {
//	    // Handle cycle
//	}
//
//	// Execute in sorted order
//	for _, nodeID := range sorted {
//	    execute(nodeID)
//	}
//
// # Cycle Detection
//
//	if err := g.DetectCycles(); err != nil {
//	    fmt.Printf("Cycle detected: %v\n", err)
//	}
//
// # Performance Characteristics
//
//   - Topological sort: O(V + E) where V=nodes, E=edges, plus an insertion
//     sort of the root node IDs
//   - GetNode, GetNodeInputEdges, GetNodeOutputEdges: linear scans
//
// # Error Handling
//
// TopologicalSort and DetectCycles return an error only when the graph has a
// cycle. An empty graph sorts to an empty order, nodes without edges are
// sorted like any other root, and edges that reference unknown node IDs are
// dropped by Normalize rather than reported.
//
// # Algorithm Details
//
// Kahn's Algorithm (Topological Sort):
//  1. Calculate in-degree for all nodes
//  2. Add zero in-degree nodes to queue
//  3. Process queue: remove node, decrement neighbor in-degrees
//  4. Add newly zero in-degree nodes to queue
//  5. If processed count != node count, cycle exists
//
// # Use Cases
//
//   - Workflow execution ordering
//   - Dependency resolution
//   - Build systems
//   - Task scheduling
//   - Data pipeline orchestration
//
// # Design Principles
//
//   - Efficiency: Optimized for large graphs
//   - Clarity: Clear, well-documented algorithms
//   - Correctness: Extensively tested edge cases
//   - Flexibility: Generic graph operations
//
// # Thread Safety
//
// The query methods only read the graph, so multiple goroutines can analyze
// the same graph simultaneously. Normalize rewrites the edge list and must
// not run concurrently with other calls.
package graph
