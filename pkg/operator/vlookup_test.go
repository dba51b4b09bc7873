package operator

import (
	"encoding/json"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

func TestVLookup_DefaultsReturnColumnsToNonKeyNonCollidingLookupColumns(t *testing.T) {
	main, err := table.New(
		table.Column{Name: "sku", Kind: table.KindText, Values: []cty.Value{table.TextVal("x1"), table.TextVal("x2")}},
		table.Column{Name: "qty", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(3), table.IntVal(5)}},
	)
	if err != nil {
		t.Fatalf("build main: %v", err)
	}
	lookup, err := table.New(
		table.Column{Name: "sku", Kind: table.KindText, Values: []cty.Value{table.TextVal("x1"), table.TextVal("x2")}},
		table.Column{Name: "price", Kind: table.KindReal, Values: []cty.Value{table.RealVal(9.5), table.RealVal(4.0)}},
		table.Column{Name: "qty", Kind: table.KindInteger, Values: []cty.Value{table.IntVal(999), table.IntVal(999)}},
	)
	if err != nil {
		t.Fatalf("build lookup: %v", err)
	}

	cfg := vlookupConfig{LeftOn: []string{"sku"}, RightOn: []string{"sku"}}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "vlookup_1", Kind: types.OperatorVLookup, Config: raw}

	out, err := VLookupOperator{}.Execute(newTestContext(), node, []*table.Table{main, lookup})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !out.HasColumn("price") {
		t.Error("missing price from lookup table")
	}
	qtyCol, _ := out.Column("qty")
	v, _ := table.AsInt(qtyCol.Values[0])
	if v != 3 {
		t.Errorf("qty = %d, want 3 (main's own qty kept, lookup's qty not pulled over)", v)
	}
}

func TestVLookup_HonorsExplicitReturnColumns(t *testing.T) {
	main, _ := table.New(
		table.Column{Name: "sku", Kind: table.KindText, Values: []cty.Value{table.TextVal("x1")}},
	)
	lookup, _ := table.New(
		table.Column{Name: "sku", Kind: table.KindText, Values: []cty.Value{table.TextVal("x1")}},
		table.Column{Name: "price", Kind: table.KindReal, Values: []cty.Value{table.RealVal(9.5)}},
		table.Column{Name: "category", Kind: table.KindText, Values: []cty.Value{table.TextVal("widgets")}},
	)

	cfg := vlookupConfig{LeftOn: []string{"sku"}, RightOn: []string{"sku"}, ReturnColumns: []string{"price"}}
	raw, _ := json.Marshal(cfg)
	node := types.Node{ID: "vlookup_1", Kind: types.OperatorVLookup, Config: raw}

	out, err := VLookupOperator{}.Execute(newTestContext(), node, []*table.Table{main, lookup})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !out.HasColumn("price") {
		t.Error("missing requested price column")
	}
	if out.HasColumn("category") {
		t.Error("category should not be pulled in when return_columns is explicit")
	}
}
