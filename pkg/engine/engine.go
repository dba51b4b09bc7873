package engine

import (
	"context"
	"math"
	"runtime/debug"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fieldflow/gridflow/pkg/config"
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/fileregistry"
	"github.com/fieldflow/gridflow/pkg/graph"
	"github.com/fieldflow/gridflow/pkg/logging"
	"github.com/fieldflow/gridflow/pkg/observer"
	"github.com/fieldflow/gridflow/pkg/operator"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// defaultDisplayRows is used by PreviewNode when the caller passes a
// non-positive displayRows.
const defaultDisplayRows = 50

// Scheduler runs a workflow's nodes in topological order, dispatching each
// to the operator registered for its kind and threading results forward
// through a per-run exec.Context.
type Scheduler struct {
	registry  *operator.Registry
	logger    *logging.Logger
	observers *observer.Manager
	limits    *config.Config
}

// New builds a Scheduler backed by registry, logging at the default level,
// with no observers registered and config.Default()'s resource limits.
func New(registry *operator.Registry) *Scheduler {
	return &Scheduler{
		registry:  registry,
		logger:    logging.New(logging.DefaultConfig()),
		observers: observer.NewManager(),
		limits:    config.Default(),
	}
}

// NewWithLogger builds a Scheduler backed by registry, using logger instead
// of a freshly constructed default one.
func NewWithLogger(registry *operator.Registry, logger *logging.Logger) *Scheduler {
	return &Scheduler{registry: registry, logger: logger, observers: observer.NewManager(), limits: config.Default()}
}

// WithObservers attaches manager so every workflow_start/node_*/workflow_end
// transition is also published as an observer.Event — used to feed a
// telemetry.TelemetryObserver or any other execution-monitoring consumer.
func (s *Scheduler) WithObservers(manager *observer.Manager) *Scheduler {
	s.observers = manager
	return s
}

// WithConfig overrides the default resource limits (MaxNodes/MaxEdges,
// MaxExecutionTime, MaxPreviewRows) a Scheduler enforces.
func (s *Scheduler) WithConfig(cfg *config.Config) *Scheduler {
	s.limits = cfg
	return s
}

// Execute runs every node of payload to completion, or to the first
// operator failure, in topological order.
func (s *Scheduler) Execute(ctx context.Context, payload types.Payload, files fileregistry.Registry, callerIdentity, outputDir string) *types.ExecutionReport {
	report := &types.ExecutionReport{
		NodeStatus:  make(map[string]types.ExecutionStatus),
		NodeResults: make(map[string]*types.NodeResult),
	}

	if s.limits != nil && s.limits.MaxNodes > 0 && len(payload.Nodes) > s.limits.MaxNodes {
		report.Error = operator.NewError(operator.CategoryGraphStructure,
			"workflow has %d nodes, exceeding the limit of %d", len(payload.Nodes), s.limits.MaxNodes).Error()
		return report
	}
	if s.limits != nil && s.limits.MaxEdges > 0 && len(payload.Edges) > s.limits.MaxEdges {
		report.Error = operator.NewError(operator.CategoryGraphStructure,
			"workflow has %d edges, exceeding the limit of %d", len(payload.Edges), s.limits.MaxEdges).Error()
		return report
	}
	if s.limits != nil && s.limits.MaxExecutionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.limits.MaxExecutionTime)
		defer cancel()
	}

	g := graph.New(payload.Nodes, payload.Edges)
	g.Normalize()

	executionID := uuid.NewString()
	workflowStart := time.Now()
	s.notify(ctx, observer.Event{
		Type: observer.EventWorkflowStart, Status: observer.StatusStarted,
		ExecutionID: executionID, WorkflowID: payload.WorkflowID, StartTime: workflowStart,
	})

	order, err := g.TopologicalSort()
	if err != nil {
		report.Error = operator.NewError(operator.CategoryGraphCyclic, "%s", err).Error()
		s.notifyWorkflowEnd(ctx, executionID, payload.WorkflowID, workflowStart, err)
		return report
	}
	for _, id := range order {
		report.NodeStatus[id] = types.StatusPending
	}

	ec := exec.New(ctx, payload.Variables, files, callerIdentity)
	ec.SetOutputDir(outputDir)

	runLog := s.logger.WithWorkflowID(payload.WorkflowID)

	for _, id := range order {
		node := g.GetNode(id)
		if node == nil {
			continue
		}

		inputs, err := s.gatherInputs(g, ec, id)
		if err != nil {
			s.failExecution(report, ec, id, err)
			s.notifyWorkflowEnd(ctx, executionID, payload.WorkflowID, workflowStart, err)
			return report
		}

		op, ok := s.registry.Get(node.Kind)
		if !ok {
			err := operator.NewError(operator.CategoryGraphStructure, "no operator registered for kind %q", node.Kind).WithNode(id)
			s.failExecution(report, ec, id, err)
			s.notifyWorkflowEnd(ctx, executionID, payload.WorkflowID, workflowStart, err)
			return report
		}
		if err := op.Validate(*node); err != nil {
			s.failExecution(report, ec, id, err)
			s.notifyWorkflowEnd(ctx, executionID, payload.WorkflowID, workflowStart, err)
			return report
		}

		start := time.Now()
		s.notify(ctx, observer.Event{
			Type: observer.EventNodeStart, Status: observer.StatusStarted,
			ExecutionID: executionID, WorkflowID: payload.WorkflowID,
			NodeID: id, OperatorKind: node.Kind, StartTime: start,
		})
		out, err := op.Execute(ec, *node, inputs)
		elapsed := time.Since(start)
		runLog.WithNodeID(id).WithOperatorKind(node.Kind).Debugf("executed in %s", elapsed)
		if err != nil {
			s.notify(ctx, observer.Event{
				Type: observer.EventNodeFailure, Status: observer.StatusFailure,
				ExecutionID: executionID, WorkflowID: payload.WorkflowID,
				NodeID: id, OperatorKind: node.Kind, StartTime: start, ElapsedTime: elapsed, Error: err,
			})
			s.failExecution(report, ec, id, err)
			s.notifyWorkflowEnd(ctx, executionID, payload.WorkflowID, workflowStart, err)
			return report
		}
		s.notify(ctx, observer.Event{
			Type: observer.EventNodeSuccess, Status: observer.StatusSuccess,
			ExecutionID: executionID, WorkflowID: payload.WorkflowID,
			NodeID: id, OperatorKind: node.Kind, StartTime: start, ElapsedTime: elapsed,
		})

		ec.SetResult(id, out)
		report.NodeStatus[id] = types.StatusSuccess
		report.NodeResults[id] = nodeResultFromTable(out)

		if node.Kind == types.OperatorOutput || node.Kind == types.OperatorOutputCSV {
			if path := ec.OutputFile(); path != "" {
				report.OutputFile = path
			}
		}
	}

	report.Success = true
	report.Logs = ec.Logs()
	s.notifyWorkflowEnd(ctx, executionID, payload.WorkflowID, workflowStart, nil)
	return report
}

func (s *Scheduler) notify(ctx context.Context, event observer.Event) {
	if s.observers == nil || !s.observers.HasObservers() {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.observers.Notify(ctx, event)
}

func (s *Scheduler) notifyWorkflowEnd(ctx context.Context, executionID, workflowID string, start time.Time, err error) {
	status := observer.StatusCompleted
	if err != nil {
		status = observer.StatusFailure
	}
	s.notify(ctx, observer.Event{
		Type: observer.EventWorkflowEnd, Status: status,
		ExecutionID: executionID, WorkflowID: workflowID,
		StartTime: start, ElapsedTime: time.Since(start), Error: err,
	})
}

// PreviewNode runs only nodeID's ancestor closure, bounding source rows to
// sourceRows and the returned display window to displayRows, then returns
// nodeID's table shape, full row count, a sampled display window, and
// operator-specific stats.
func (s *Scheduler) PreviewNode(ctx context.Context, payload types.Payload, files fileregistry.Registry, callerIdentity, nodeID string, sourceRows, displayRows int) *types.PreviewReport {
	report := &types.PreviewReport{
		NodeStatus:  make(map[string]types.ExecutionStatus),
		NodeResults: make(map[string]*types.NodeResult),
		NodeID:      nodeID,
	}
	if displayRows <= 0 {
		displayRows = defaultDisplayRows
	}
	if s.limits != nil && s.limits.MaxPreviewRows > 0 && displayRows > s.limits.MaxPreviewRows {
		displayRows = s.limits.MaxPreviewRows
	}

	g := graph.New(payload.Nodes, payload.Edges)
	g.Normalize()

	target := g.GetNode(nodeID)
	if target == nil {
		report.Error = operator.NewError(operator.CategoryGraphStructure, "node %q not found", nodeID).Error()
		return report
	}
	report.NodeType = target.Kind

	order, err := previewOrder(g, nodeID)
	if err != nil {
		report.Error = operator.NewError(operator.CategoryGraphCyclic, "%s", err).Error()
		return report
	}
	for _, id := range order {
		report.NodeStatus[id] = types.StatusPending
	}

	ec := exec.New(ctx, payload.Variables, files, callerIdentity)
	ec.SetPreview(true)

	for _, id := range order {
		node := g.GetNode(id)
		if node == nil {
			continue
		}

		inputs, err := s.gatherInputs(g, ec, id)
		if err != nil {
			s.failPreview(report, ec, id, err)
			return report
		}

		op, ok := s.registry.Get(node.Kind)
		if !ok {
			err := operator.NewError(operator.CategoryGraphStructure, "no operator registered for kind %q", node.Kind).WithNode(id)
			s.failPreview(report, ec, id, err)
			return report
		}
		if err := op.Validate(*node); err != nil {
			s.failPreview(report, ec, id, err)
			return report
		}

		out, err := op.Execute(ec, *node, inputs)
		if err != nil {
			s.failPreview(report, ec, id, err)
			return report
		}
		if isSourceKind(node.Kind) && sourceRows > 0 {
			out = boundRows(out, sourceRows)
		}

		ec.SetResult(id, out)
		report.NodeStatus[id] = types.StatusSuccess
		report.NodeResults[id] = nodeResultFromTable(out)
	}

	final, ok := ec.Result(nodeID)
	if !ok {
		s.failPreview(report, ec, nodeID, operator.NewError(operator.CategoryInternal, "node %q produced no result", nodeID).WithNode(nodeID))
		return report
	}

	report.Success = true
	report.Logs = ec.Logs()
	report.Preview = previewWindow(final, target.Kind, displayRows)
	report.Stats = previewStats(final, target.Kind)
	return report
}

// gatherInputs resolves nodeID's inputs from already-executed upstream
// nodes, in the order their edges appear in the workflow's edge list (C2's
// fan-in ordering rule).
func (s *Scheduler) gatherInputs(g *graph.Graph, ec *exec.Context, nodeID string) ([]*table.Table, error) {
	edges := g.GetNodeInputEdges(nodeID)
	inputs := make([]*table.Table, 0, len(edges))
	for _, e := range edges {
		t, ok := ec.Result(e.Source)
		if !ok {
			return nil, operator.NewError(operator.CategoryGraphStructure,
				"node %q's input %q has not produced a result", nodeID, e.Source).WithNode(nodeID)
		}
		inputs = append(inputs, t)
	}
	return inputs, nil
}

func (s *Scheduler) failExecution(report *types.ExecutionReport, ec *exec.Context, id string, err error) {
	oe := operator.AsError(err)
	report.Success = false
	report.Error = oe.Error()
	report.NodeStatus[id] = types.StatusError
	report.NodeResults[id] = &types.NodeResult{Error: oe.Message, Trace: string(debug.Stack())}
	report.Logs = ec.Logs()
}

func (s *Scheduler) failPreview(report *types.PreviewReport, ec *exec.Context, id string, err error) {
	oe := operator.AsError(err)
	report.Success = false
	report.Error = oe.Error()
	report.NodeStatus[id] = types.StatusError
	report.NodeResults[id] = &types.NodeResult{Error: oe.Message, Trace: string(debug.Stack())}
	report.Logs = ec.Logs()
}

// previewOrder computes node_id's ancestor closure and topologically sorts
// only that subset, so a preview never runs a node the target doesn't
// depend on.
func previewOrder(g *graph.Graph, nodeID string) ([]string, error) {
	closure := g.AncestorClosure(nodeID)
	set := make(map[string]bool, len(closure))
	for _, id := range closure {
		set[id] = true
	}

	nodes := make([]types.Node, 0, len(closure))
	for _, id := range closure {
		if n := g.GetNode(id); n != nil {
			nodes = append(nodes, *n)
		}
	}
	var edges []types.Edge
	for _, id := range closure {
		for _, e := range g.GetNodeInputEdges(id) {
			if set[e.Source] {
				edges = append(edges, e)
			}
		}
	}

	sub := graph.New(nodes, edges)
	return sub.TopologicalSort()
}

func isSourceKind(kind types.OperatorKind) bool {
	switch kind {
	case types.OperatorSource, types.OperatorSourceCSV, types.OperatorSourceOptional:
		return true
	}
	return false
}

// boundRows truncates t to its first n rows, used to honor preview's
// source_rows bound on source operators' output.
func boundRows(t *table.Table, n int) *table.Table {
	total := t.RowCount()
	if n >= total {
		return t
	}
	keep := make([]bool, total)
	for i := 0; i < n; i++ {
		keep[i] = true
	}
	return t.FilterMask(keep)
}

// nodeResultFromTable renders t's full shape into a NodeResult: all
// columns, all rows, for a run's node_results map.
func nodeResultFromTable(t *table.Table) *types.NodeResult {
	rows := t.ToJSONRows()
	return &types.NodeResult{
		Columns:   t.ColumnNames(),
		Data:      rows,
		TotalRows: len(rows),
	}
}

// previewWindow samples at most displayRows rows of t for the previewed
// node. For reconcile, the sample is biased toward mismatched rows sorted
// by descending absolute difference; every other operator gets a plain
// prefix.
func previewWindow(t *table.Table, kind types.OperatorKind, displayRows int) *types.NodeResult {
	rows := t.ToJSONRows()
	total := len(rows)

	var sample []map[string]any
	if kind == types.OperatorReconcile {
		sample = reconcileDisplaySample(t, rows, displayRows)
	} else {
		n := displayRows
		if n > total {
			n = total
		}
		sample = rows[:n]
	}

	return &types.NodeResult{
		Columns:   t.ColumnNames(),
		Data:      sample,
		TotalRows: total,
	}
}

// reconcileDisplaySample orders rows so mismatches sort before matches, and
// within each group by descending absolute difference, then takes the
// first displayRows.
func reconcileDisplaySample(t *table.Table, rows []map[string]any, displayRows int) []map[string]any {
	diffCol, hasDiff := t.Column(operator.ReconcileDiffColumn)
	resultCol, hasResult := t.Column(operator.ReconcileResultColumn)
	if !hasDiff || !hasResult || len(rows) != len(diffCol.Values) {
		n := displayRows
		if n > len(rows) {
			n = len(rows)
		}
		return rows[:n]
	}

	type scoredRow struct {
		row      map[string]any
		absDiff  float64
		mismatch bool
	}
	scored := make([]scoredRow, len(rows))
	for i, row := range rows {
		d, _ := table.AsFloat(diffCol.Values[i])
		resultLabel, _ := table.AsString(resultCol.Values[i])
		scored[i] = scoredRow{
			row:      row,
			absDiff:  math.Abs(d),
			mismatch: resultLabel == operator.ReconcileMismatchLabel,
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].mismatch != scored[j].mismatch {
			return scored[i].mismatch
		}
		return scored[i].absDiff > scored[j].absDiff
	})

	n := displayRows
	if n > len(scored) {
		n = len(scored)
	}
	out := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		out[i] = scored[i].row
	}
	return out
}

// previewStats builds operator-specific preview statistics. Every kind
// gets the basic column/row shape; reconcile additionally reports the
// matched/mismatched row split.
func previewStats(t *table.Table, kind types.OperatorKind) map[string]any {
	stats := map[string]any{
		"column_count": len(t.ColumnNames()),
		"row_count":    t.RowCount(),
	}
	if kind != types.OperatorReconcile {
		return stats
	}
	resultCol, ok := t.Column(operator.ReconcileResultColumn)
	if !ok {
		return stats
	}
	var matched, mismatched int
	for _, v := range resultCol.Values {
		label, _ := table.AsString(v)
		if label == operator.ReconcileMismatchLabel {
			mismatched++
		} else {
			matched++
		}
	}
	stats["matched"] = matched
	stats["mismatched"] = mismatched
	return stats
}
