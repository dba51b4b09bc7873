package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type vlookupConfig struct {
	LeftOn        []string `json:"left_on"`
	RightOn       []string `json:"right_on"`
	ReturnColumns []string `json:"return_columns"`
}

// VLookupOperator brings a fixed set of columns over from a lookup table
// (the second input) onto every row of the primary table (the first
// input), matched by key — a left join narrowed to the requested return
// columns.
type VLookupOperator struct{}

func (VLookupOperator) Kind() types.OperatorKind { return types.OperatorVLookup }

func (VLookupOperator) Validate(node types.Node) error {
	var cfg vlookupConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.LeftOn) == 0 || len(cfg.RightOn) == 0 {
		return NewError(CategoryConfigMissing, "vlookup requires left_on and right_on").WithNode(node.ID)
	}
	return nil
}

func (VLookupOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) != 2 {
		return nil, NewError(CategoryArity, "vlookup requires exactly two inputs, got %d", len(inputs)).WithNode(node.ID)
	}
	var cfg vlookupConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	left, lookup := inputs[0], inputs[1]

	merged, err := left.Merge(lookup, "left", cfg.LeftOn, cfg.RightOn)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}

	leftNames := left.ColumnNames()
	leftSet := make(map[string]bool, len(leftNames))
	for _, n := range leftNames {
		leftSet[n] = true
	}
	returnColumns := cfg.ReturnColumns
	if len(returnColumns) == 0 {
		// Prevents suffix collisions: every lookup column not itself a key
		// and not already present on the left is brought over.
		rightKeys := make(map[string]bool, len(cfg.RightOn))
		for _, k := range cfg.RightOn {
			rightKeys[k] = true
		}
		for _, n := range lookup.ColumnNames() {
			if rightKeys[n] || leftSet[n] {
				continue
			}
			returnColumns = append(returnColumns, n)
		}
	}

	selection := append([]string{}, leftNames...)
	for _, rc := range returnColumns {
		if leftSet[rc] {
			continue
		}
		if merged.HasColumn(rc) {
			selection = append(selection, rc)
		}
	}

	out, err := merged.Select(selection)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}
