package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type unpivotConfig struct {
	IDVars    []string `json:"id_vars"`
	ValueVars []string `json:"value_vars,omitempty"`
	VarName   string   `json:"var_name,omitempty"`
	ValueName string   `json:"value_name,omitempty"`
}

// UnpivotOperator reshapes wide data to long: id_vars stay as-is, every
// other (or explicitly listed) column becomes one var/value row pair.
type UnpivotOperator struct{}

func (UnpivotOperator) Kind() types.OperatorKind { return types.OperatorUnpivot }

func (UnpivotOperator) Validate(node types.Node) error {
	var cfg unpivotConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.IDVars) == 0 {
		return NewError(CategoryConfigMissing, "unpivot requires id_vars").WithNode(node.ID)
	}
	return nil
}

func (UnpivotOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "unpivot requires one input").WithNode(node.ID)
	}
	var cfg unpivotConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]

	valueVars := cfg.ValueVars
	if len(valueVars) == 0 {
		idSet := make(map[string]bool, len(cfg.IDVars))
		for _, id := range cfg.IDVars {
			idSet[id] = true
		}
		for _, name := range t.ColumnNames() {
			if !idSet[name] {
				valueVars = append(valueVars, name)
			}
		}
	}
	varName := cfg.VarName
	if varName == "" {
		varName = "variable"
	}
	valueName := cfg.ValueName
	if valueName == "" {
		valueName = "value"
	}

	out, err := t.Unpivot(cfg.IDVars, valueVars, varName, valueName)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}
