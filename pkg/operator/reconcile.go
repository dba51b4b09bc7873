package operator

import (
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type reconcileConfig struct {
	DetailKeys  []string `json:"detail_keys"`
	SummaryKeys []string `json:"summary_keys"`
	LeftColumn  string   `json:"left_column"`
	RightColumn string   `json:"right_column"`
	Tolerance   float64  `json:"tolerance"`
	OutputMode  string   `json:"output_mode,omitempty"`
}

const (
	reconcileDetailSumColumn = "明细汇总金额"
	reconcileSummarySumColumn = "汇总表金额"
	reconcileAbsDiffColumn    = "差额绝对值"

	// ReconcileDiffColumn and ReconcileResultColumn are exported because the
	// scheduler's preview bias (display rows sorted by descending absolute
	// difference) needs to recognize them on an arbitrary reconcile output
	// table without re-deriving the operator's internal column names.
	ReconcileDiffColumn   = "差额"
	ReconcileResultColumn = "核算结果"
	ReconcileMatchLabel   = "✅ 一致"
	ReconcileMismatchLabel = "❌ 不一致"
)

// ReconcileOperator compares a detail table's grouped sum against a
// summary table's grouped sum, key by key, flagging rows whose absolute
// difference exceeds the configured tolerance.
type ReconcileOperator struct{}

func (ReconcileOperator) Kind() types.OperatorKind { return types.OperatorReconcile }

func (ReconcileOperator) Validate(node types.Node) error {
	var cfg reconcileConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.DetailKeys) == 0 || len(cfg.SummaryKeys) == 0 {
		return NewError(CategoryConfigMissing, "reconcile requires detail_keys and summary_keys").WithNode(node.ID)
	}
	if len(cfg.DetailKeys) != len(cfg.SummaryKeys) {
		return NewError(CategoryConfigMissing, "reconcile: detail_keys and summary_keys must be the same length").WithNode(node.ID)
	}
	if cfg.LeftColumn == "" || cfg.RightColumn == "" {
		return NewError(CategoryConfigMissing, "reconcile requires left_column and right_column").WithNode(node.ID)
	}
	return nil
}

func (ReconcileOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) != 2 {
		return nil, NewError(CategoryArity, "reconcile requires exactly two inputs, got %d", len(inputs)).WithNode(node.ID)
	}
	var cfg reconcileConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	detail, summary := inputs[0], inputs[1]

	detailAgg, err := detail.SumBy(cfg.DetailKeys, cfg.LeftColumn, reconcileDetailSumColumn)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	summaryAgg, err := summary.SumBy(cfg.SummaryKeys, cfg.RightColumn, reconcileSummarySumColumn)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}

	rename := make(map[string]string, len(cfg.SummaryKeys))
	for i, k := range cfg.SummaryKeys {
		if k != cfg.DetailKeys[i] {
			rename[k] = cfg.DetailKeys[i]
		}
	}
	if len(rename) > 0 {
		summaryAgg = summaryAgg.Rename(rename)
	}

	merged, err := detailAgg.Merge(summaryAgg, "outer", cfg.DetailKeys, cfg.DetailKeys)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	merged, err = merged.FillValueAll([]string{reconcileDetailSumColumn, reconcileSummarySumColumn}, table.RealVal(0))
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}

	n := merged.RowCount()
	leftCol, _ := merged.Column(reconcileDetailSumColumn)
	rightCol, _ := merged.Column(reconcileSummarySumColumn)

	diff := make([]cty.Value, n)
	absDiff := make([]cty.Value, n)
	result := make([]cty.Value, n)
	for i := 0; i < n; i++ {
		l, _ := table.AsFloat(leftCol.Values[i])
		r, _ := table.AsFloat(rightCol.Values[i])
		d := l - r
		ad := math.Abs(d)
		diff[i] = table.RealVal(d)
		absDiff[i] = table.RealVal(ad)
		if ad <= cfg.Tolerance {
			result[i] = table.TextVal(ReconcileMatchLabel)
		} else {
			result[i] = table.TextVal(ReconcileMismatchLabel)
		}
	}

	out, err := merged.AddColumn(table.Column{Name: ReconcileDiffColumn, Kind: table.KindReal, Values: diff})
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}
	out, err = out.AddColumn(table.Column{Name: reconcileAbsDiffColumn, Kind: table.KindReal, Values: absDiff})
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}
	out, err = out.AddColumn(table.Column{Name: ReconcileResultColumn, Kind: table.KindText, Values: result})
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}

	if cfg.OutputMode == "diff_only" {
		absCol, _ := out.Column(reconcileAbsDiffColumn)
		keep := make([]bool, n)
		for i, v := range absCol.Values {
			f, _ := table.AsFloat(v)
			keep[i] = f > cfg.Tolerance
		}
		out = out.FilterMask(keep)
	}

	out = out.Drop([]string{reconcileAbsDiffColumn})
	return out, nil
}
