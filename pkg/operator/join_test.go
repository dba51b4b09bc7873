package operator

import (
	"encoding/json"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

func TestJoin_KeyNormalizationAcrossTypes(t *testing.T) {
	left, err := table.New(
		table.Column{Name: "店号", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(1), table.IntVal(2)}},
		table.Column{Name: "sales", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(100), table.IntVal(200)}},
	)
	if err != nil {
		t.Fatalf("build left: %v", err)
	}
	right, err := table.New(
		table.Column{Name: "店号", Kind: table.KindText, Values: []cty.Value{table.TextVal("1"), table.TextVal("2")}},
		table.Column{Name: "店名", Kind: table.KindText, Values: []cty.Value{table.TextVal("店A"), table.TextVal("店B")}},
	)
	if err != nil {
		t.Fatalf("build right: %v", err)
	}

	cfg := joinConfig{How: "inner", LeftOn: []string{"店号"}, RightOn: []string{"店号"}}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "join_1", Kind: types.OperatorJoin, Config: raw}

	out, err := JoinOperator{}.Execute(newTestContext(), node, []*table.Table{left, right})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.RowCount() != 2 {
		t.Fatalf("row count = %d, want 2", out.RowCount())
	}
	names := out.ColumnNames()
	seen := map[string]int{}
	for _, n := range names {
		seen[n]++
	}
	if seen["店号"] != 1 {
		t.Errorf("店号 column count = %d, want 1 (redundant right-side key dropped)", seen["店号"])
	}
	if !out.HasColumn("店名") {
		t.Error("missing 店名 from right side")
	}
}

func TestJoin_RequiresTwoInputs(t *testing.T) {
	only, _ := table.New()
	cfg := joinConfig{LeftOn: []string{"a"}, RightOn: []string{"a"}}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "join_1", Kind: types.OperatorJoin, Config: raw}

	_, err := JoinOperator{}.Execute(newTestContext(), node, []*table.Table{only})
	if err == nil {
		t.Fatal("Execute() with one input: want error, got nil")
	}
	if AsError(err).Category != CategoryArity {
		t.Errorf("Category = %v, want %v", AsError(err).Category, CategoryArity)
	}
}
