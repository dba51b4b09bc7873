package expression

import "testing"

func TestEvaluateBoolean_ColumnComparison(t *testing.T) {
	ctx := &Context{Row: map[string]interface{}{"amount": 120.0}}
	got, err := EvaluateBoolean("amount > 100", ctx)
	if err != nil {
		t.Fatalf("EvaluateBoolean() error = %v", err)
	}
	if !got {
		t.Errorf("EvaluateBoolean() = false, want true")
	}
}

func TestEvaluateBoolean_BooleanCombination(t *testing.T) {
	ctx := &Context{Row: map[string]interface{}{"office": "邯郸", "amount": 50.0}}
	got, err := EvaluateBoolean(`office == '邯郸' & amount < 100`, ctx)
	if err != nil {
		t.Fatalf("EvaluateBoolean() error = %v", err)
	}
	if !got {
		t.Errorf("EvaluateBoolean() = false, want true")
	}
}

func TestEvaluateBoolean_AmbientReference(t *testing.T) {
	ctx := &Context{
		Row:     map[string]interface{}{"amount": 50.0},
		Ambient: map[string]interface{}{"threshold": 100.0},
	}
	got, err := EvaluateBoolean("amount < @threshold", ctx)
	if err != nil {
		t.Fatalf("EvaluateBoolean() error = %v", err)
	}
	if !got {
		t.Errorf("EvaluateBoolean() = false, want true")
	}
}

func TestEvaluateValue_Arithmetic(t *testing.T) {
	ctx := &Context{Row: map[string]interface{}{"income": 100.0, "cost": 40.0}}
	got, err := EvaluateValue("income - cost", ctx)
	if err != nil {
		t.Fatalf("EvaluateValue() error = %v", err)
	}
	f, ok := got.(float64)
	if !ok || f != 60 {
		t.Errorf("EvaluateValue() = %v, want 60", got)
	}
}

func TestEvaluateBoolean_QuotedLiteralWithAmpersand(t *testing.T) {
	ctx := &Context{Row: map[string]interface{}{"name": "A & B"}}
	got, err := EvaluateBoolean(`name == 'A & B'`, ctx)
	if err != nil {
		t.Fatalf("EvaluateBoolean() error = %v", err)
	}
	if !got {
		t.Errorf("EvaluateBoolean() = false, want true (quoted literal must not be split)")
	}
}
