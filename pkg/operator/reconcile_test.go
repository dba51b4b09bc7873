package operator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

func newTestContext() exec.ExecutionContext {
	return exec.New(context.Background(), nil, nil, "test")
}

func TestReconcile_ToleranceInvariant(t *testing.T) {
	detail, err := table.New(
		table.Column{Name: "店", Kind: table.KindText, Values: []cty.Value{table.TextVal("店A"), table.TextVal("店B")}},
		table.Column{Name: "金额", Kind: table.KindReal, Values: []cty.Value{table.RealVal(100), table.RealVal(50)}},
	)
	if err != nil {
		t.Fatalf("build detail: %v", err)
	}
	summary, err := table.New(
		table.Column{Name: "店", Kind: table.KindText, Values: []cty.Value{table.TextVal("店A"), table.TextVal("店B")}},
		table.Column{Name: "汇总金额", Kind: table.KindReal, Values: []cty.Value{table.RealVal(100.5), table.RealVal(40)}},
	)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	cfg := reconcileConfig{
		DetailKeys:  []string{"店"},
		SummaryKeys: []string{"店"},
		LeftColumn:  "金额",
		RightColumn: "汇总金额",
		Tolerance:   1,
	}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "reconcile_1", Kind: types.OperatorReconcile, Config: raw}

	op := ReconcileOperator{}
	out, err := op.Execute(newTestContext(), node, []*table.Table{detail, summary})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	storeCol, _ := out.Column("店")
	resultCol, _ := out.Column(ReconcileResultColumn)
	want := map[string]string{"店A": ReconcileMatchLabel, "店B": ReconcileMismatchLabel}
	for i := 0; i < out.RowCount(); i++ {
		store, _ := table.AsString(storeCol.Values[i])
		got, _ := table.AsString(resultCol.Values[i])
		if got != want[store] {
			t.Errorf("store %s: 核算结果 = %q, want %q", store, got, want[store])
		}
	}

	cfg.OutputMode = "diff_only"
	raw, _ = json.Marshal(cfg)
	node.Config = raw
	filtered, err := op.Execute(newTestContext(), node, []*table.Table{detail, summary})
	if err != nil {
		t.Fatalf("Execute() diff_only error = %v", err)
	}
	if filtered.RowCount() != 1 {
		t.Fatalf("diff_only row count = %d, want 1", filtered.RowCount())
	}
	store, _ := filtered.Column("店")
	s, _ := table.AsString(store.Values[0])
	if s != "店B" {
		t.Errorf("diff_only surviving row = %q, want 店B", s)
	}
}

func TestReconcile_RequiresTwoInputs(t *testing.T) {
	empty, _ := table.New()
	cfg := reconcileConfig{DetailKeys: []string{"a"}, SummaryKeys: []string{"a"}, LeftColumn: "x", RightColumn: "y"}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "r1", Kind: types.OperatorReconcile, Config: raw}

	_, err := ReconcileOperator{}.Execute(newTestContext(), node, []*table.Table{empty})
	if err == nil {
		t.Fatal("Execute() with one input: want error, got nil")
	}
	oe := AsError(err)
	if oe.Category != CategoryArity {
		t.Errorf("Category = %v, want %v", oe.Category, CategoryArity)
	}
}
