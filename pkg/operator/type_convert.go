package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// columnType is a single column's target dtype, the closed set
// type_convert accepts.
type columnType struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

type typeConvertConfig struct {
	Columns []columnType `json:"columns"`
}

// TypeConvertOperator coerces columns to a target dtype one at a time.
// Per the reference behavior, a column whose dtype request fails (unknown
// target, or a column not present) is skipped rather than failing the
// whole operator.
type TypeConvertOperator struct{}

func (TypeConvertOperator) Kind() types.OperatorKind { return types.OperatorTypeConvert }

func (TypeConvertOperator) Validate(node types.Node) error {
	var cfg typeConvertConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	return nil
}

func (TypeConvertOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "type_convert requires one input").WithNode(node.ID)
	}
	var cfg typeConvertConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]
	for _, c := range cfg.Columns {
		if !t.HasColumn(c.Column) {
			ctx.Log("type_convert %s: column %q not present, skipping", node.ID, c.Column)
			continue
		}
		dtype, ok := dtypeKind(c.Type)
		if !ok {
			ctx.Log("type_convert %s: unknown type %q for column %q, skipping", node.ID, c.Type, c.Column)
			continue
		}
		coerced, err := t.Coerce(c.Column, dtype)
		if err != nil {
			ctx.Log("type_convert %s: converting %q to %s failed: %s, skipping", node.ID, c.Column, c.Type, err)
			continue
		}
		t = coerced
	}
	return t, nil
}

func dtypeKind(name string) (table.ElementKind, bool) {
	switch name {
	case "int":
		return table.KindInteger, true
	case "float":
		return table.KindReal, true
	case "str":
		return table.KindText, true
	case "bool":
		return table.KindBoolean, true
	case "datetime":
		return table.KindTimestamp, true
	default:
		return table.KindUnknown, false
	}
}
