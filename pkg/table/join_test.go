package table

import (
	"testing"

	"github.com/zclconf/go-cty/cty"
)

// TestMerge_TypeMismatchKeys mirrors the spec's worked example: an integer
// key on the left and a text key on the right must still match, and the
// redundant right-side key column is dropped from the result.
func TestMerge_TypeMismatchKeys(t *testing.T) {
	left := mustTable(t,
		Column{Name: "id", Kind: KindInteger, Values: []cty.Value{IntVal(1), IntVal(2)}},
		Column{Name: "name", Kind: KindText, Values: []cty.Value{TextVal("A"), TextVal("B")}},
	)
	right := mustTable(t,
		Column{Name: "id", Kind: KindText, Values: []cty.Value{TextVal("1"), TextVal("2")}},
		Column{Name: "price", Kind: KindReal, Values: []cty.Value{RealVal(10.0), RealVal(20.0)}},
	)

	out, err := left.Merge(right, "inner", []string{"id"}, []string{"id"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.RowCount() != 2 {
		t.Fatalf("Merge() rows = %d, want 2", out.RowCount())
	}
	names := out.ColumnNames()
	seen := map[string]int{}
	for _, n := range names {
		seen[n]++
	}
	if seen["id"] != 1 {
		t.Errorf("expected exactly one id column in result, got %d (%v)", seen["id"], names)
	}

	idCol, _ := out.Column("id")
	id0, _ := AsString(idCol.Values[0])
	if id0 != "1" {
		t.Errorf("id column not stringified: %q", id0)
	}

	priceCol, _ := out.Column("price")
	p0, _ := AsFloat(priceCol.Values[0])
	if p0 != 10.0 {
		t.Errorf("price = %v, want 10.0", p0)
	}
}

func TestMerge_LeftJoinKeepsUnmatched(t *testing.T) {
	left := mustTable(t,
		Column{Name: "id", Kind: KindInteger, Values: []cty.Value{IntVal(1), IntVal(2)}},
	)
	right := mustTable(t,
		Column{Name: "id", Kind: KindInteger, Values: []cty.Value{IntVal(1)}},
		Column{Name: "v", Kind: KindInteger, Values: []cty.Value{IntVal(100)}},
	)

	out, err := left.Merge(right, "left", []string{"id"}, []string{"id"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.RowCount() != 2 {
		t.Fatalf("Merge() rows = %d, want 2", out.RowCount())
	}
	vCol, _ := out.Column("v")
	if !IsAbsent(vCol.Values[1]) {
		t.Error("expected absent v for unmatched left row")
	}
}

func TestConcat_OuterUnionsColumns(t *testing.T) {
	a := mustTable(t, Column{Name: "x", Kind: KindInteger, Values: []cty.Value{IntVal(1)}})
	b := mustTable(t, Column{Name: "y", Kind: KindInteger, Values: []cty.Value{IntVal(2)}})

	out, err := Concat([]*Table{a, b}, "outer", false)
	if err != nil {
		t.Fatalf("Concat() error = %v", err)
	}
	if out.RowCount() != 2 {
		t.Fatalf("Concat() rows = %d, want 2", out.RowCount())
	}
	if !out.HasColumn("x") || !out.HasColumn("y") {
		t.Errorf("Concat() columns = %v", out.ColumnNames())
	}
	xCol, _ := out.Column("x")
	if !IsAbsent(xCol.Values[1]) {
		t.Error("expected absent x for row contributed by table b")
	}
}

func TestConcat_InnerKeepsCommonOnly(t *testing.T) {
	a := mustTable(t,
		Column{Name: "x", Kind: KindInteger, Values: []cty.Value{IntVal(1)}},
		Column{Name: "shared", Kind: KindInteger, Values: []cty.Value{IntVal(1)}},
	)
	b := mustTable(t,
		Column{Name: "y", Kind: KindInteger, Values: []cty.Value{IntVal(2)}},
		Column{Name: "shared", Kind: KindInteger, Values: []cty.Value{IntVal(2)}},
	)
	out, err := Concat([]*Table{a, b}, "inner", false)
	if err != nil {
		t.Fatalf("Concat() error = %v", err)
	}
	if len(out.ColumnNames()) != 1 || out.ColumnNames()[0] != "shared" {
		t.Errorf("Concat() inner columns = %v", out.ColumnNames())
	}
}
