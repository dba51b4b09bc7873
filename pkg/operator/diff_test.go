package operator

import (
	"encoding/json"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

func TestDiff_ProducesOnlyUnmatchedRowsTaggedByOrigin(t *testing.T) {
	left, err := table.New(
		table.Column{Name: "id", Kind: table.KindText, Values: []cty.Value{table.TextVal("a"), table.TextVal("b"), table.TextVal("c")}},
		table.Column{Name: "amount", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(1), table.IntVal(2), table.IntVal(3)}},
	)
	if err != nil {
		t.Fatalf("build left: %v", err)
	}
	right, err := table.New(
		table.Column{Name: "id", Kind: table.KindText, Values: []cty.Value{table.TextVal("a"), table.TextVal("b"), table.TextVal("d")}},
		table.Column{Name: "amount", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(1), table.IntVal(20), table.IntVal(4)}},
	)
	if err != nil {
		t.Fatalf("build right: %v", err)
	}

	cfg := diffConfig{Keys: []string{"id"}}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "diff_1", Kind: types.OperatorDiff, Config: raw}

	out, err := DiffOperator{}.Execute(newTestContext(), node, []*table.Table{left, right})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// "a" and "b" have matching keys on both sides and must be dropped
	// entirely, even though "b"'s amount differs between the two tables.
	idCol, _ := out.Column("id")
	statusCol, _ := out.Column(diffStatusColumn)
	want := map[string]string{"c": diffOnlyInLeft, "d": diffOnlyInRight}
	if out.RowCount() != len(want) {
		t.Fatalf("row count = %d, want %d", out.RowCount(), len(want))
	}
	for i := 0; i < out.RowCount(); i++ {
		id, _ := table.AsString(idCol.Values[i])
		status, ok := want[id]
		if !ok {
			t.Fatalf("unexpected surviving row id = %q", id)
		}
		got, _ := table.AsString(statusCol.Values[i])
		if got != status {
			t.Errorf("id %s: %s = %q, want %q", id, diffStatusColumn, got, status)
		}
	}
}

func TestDiff_MatchingKeysAcrossTypesAreDropped(t *testing.T) {
	left, _ := table.New(
		table.Column{Name: "店号", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(1), table.IntVal(2)}},
		table.Column{Name: "sales", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(100), table.IntVal(200)}},
	)
	right, _ := table.New(
		table.Column{Name: "店号", Kind: table.KindText, Values: []cty.Value{table.TextVal("1"), table.TextVal("3")}},
		table.Column{Name: "sales", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(999), table.IntVal(300)}},
	)

	cfg := diffConfig{Keys: []string{"店号"}}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "diff_1", Kind: types.OperatorDiff, Config: raw}

	out, err := DiffOperator{}.Execute(newTestContext(), node, []*table.Table{left, right})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.RowCount() != 2 {
		t.Fatalf("row count = %d, want 2 (店号=1 matches across int/text and is dropped)", out.RowCount())
	}
}

func TestDiff_RequiresTwoInputs(t *testing.T) {
	only, _ := table.New()
	cfg := diffConfig{Keys: []string{"id"}}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "diff_1", Kind: types.OperatorDiff, Config: raw}

	_, err := DiffOperator{}.Execute(newTestContext(), node, []*table.Table{only})
	if err == nil {
		t.Fatal("Execute() with one input: want error, got nil")
	}
	if AsError(err).Category != CategoryArity {
		t.Errorf("Category = %v, want %v", AsError(err).Category, CategoryArity)
	}
}
