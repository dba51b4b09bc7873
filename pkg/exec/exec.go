// Package exec holds the concrete execution state a scheduler run builds
// once and threads through every operator call: the node_id -> Table
// results map, an append-only log buffer, and the workflow's ambient
// scalar table. It also defines the ExecutionContext capability interface
// operators are handed, so pkg/operator depends only on this narrow
// surface rather than on the scheduler itself.
package exec

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldflow/gridflow/pkg/fileregistry"
	"github.com/fieldflow/gridflow/pkg/table"
)

// ExecutionContext is the narrow capability interface an operator
// receives: a log sink, the workflow's ambient scalar table (for @name
// expression references), the file registry (for source/source_csv/
// source_optional), the identity of the caller driving the run, and the
// context.Context governing the current execution (for cancellation/
// timeouts on ai_agent's remote calls).
type ExecutionContext interface {
	Log(format string, args ...interface{})
	Ambient() map[string]interface{}
	Files() fileregistry.Registry
	CallerIdentity() string
	Context() context.Context
	// IsPreview reports whether the current run is a preview_node call
	// rather than a full execute_all — ai_agent uses this to refuse
	// making remote calls during preview.
	IsPreview() bool
	// OutputDir is the directory output/output_csv write generated
	// artifacts into.
	OutputDir() string
	// RecordOutputFile records the path output/output_csv wrote to, so
	// the scheduler can surface it on the run's ExecutionReport.
	RecordOutputFile(path string)
}

// Context is the scheduler's concrete ExecutionContext: it owns the
// node_id -> Table results map every already-executed node's output lands
// in, an append-only log buffer surfaced verbatim in ExecutionReport.Logs,
// and the workflow's ambient scalars. One Context is built per
// Execute/PreviewNode call and handed to every operator the run touches.
type Context struct {
	mu      sync.Mutex
	results map[string]*table.Table
	logs    []string

	ambient  map[string]interface{}
	files    fileregistry.Registry
	caller   string
	ctx        context.Context
	preview    bool
	outputDir  string
	outputFile string
}

// New builds a Context for one scheduler run. ambient may be nil (the
// workflow declared no variables); files may be nil (no node in the run
// needs one).
func New(ctx context.Context, ambient map[string]interface{}, files fileregistry.Registry, callerIdentity string) *Context {
	return &Context{
		results: make(map[string]*table.Table),
		ambient: ambient,
		files:   files,
		caller:  callerIdentity,
		ctx:     ctx,
	}
}

// SetOutputDir sets the directory output/output_csv nodes write into.
func (c *Context) SetOutputDir(dir string) {
	c.outputDir = dir
}

// OutputDir returns the directory output/output_csv nodes write into,
// defaulting to the current directory when unset.
func (c *Context) OutputDir() string {
	if c.outputDir == "" {
		return "."
	}
	return c.outputDir
}

// RecordOutputFile records the path an output/output_csv node wrote to.
func (c *Context) RecordOutputFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputFile = path
}

// OutputFile returns the last path recorded by RecordOutputFile, if any.
func (c *Context) OutputFile() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputFile
}

// SetPreview marks this Context as backing a preview_node run rather than
// a full execute_all.
func (c *Context) SetPreview(preview bool) {
	c.preview = preview
}

// IsPreview reports whether this Context backs a preview_node run.
func (c *Context) IsPreview() bool {
	return c.preview
}

// Log appends a formatted line to the run's log buffer.
func (c *Context) Log(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, fmt.Sprintf(format, args...))
}

// Logs returns the accumulated log lines, in append order.
func (c *Context) Logs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.logs))
	copy(out, c.logs)
	return out
}

// Ambient returns the workflow's @name scalar table.
func (c *Context) Ambient() map[string]interface{} {
	if c.ambient == nil {
		return map[string]interface{}{}
	}
	return c.ambient
}

// Files returns the file registry source/source_csv/source_optional nodes
// resolve file_id against.
func (c *Context) Files() fileregistry.Registry {
	return c.files
}

// CallerIdentity returns the identity the run's file resolution and
// ai_agent calls are made on behalf of.
func (c *Context) CallerIdentity() string {
	return c.caller
}

// Context returns the context.Context governing the run.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// SetResult records nodeID's output table, making it visible to
// downstream nodes via Result.
func (c *Context) SetResult(nodeID string, t *table.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[nodeID] = t
}

// Result returns nodeID's previously recorded output table, if any.
func (c *Context) Result(nodeID string) (*table.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.results[nodeID]
	return t, ok
}
