package operator

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type diffConfig struct {
	Keys           []string `json:"keys"`
	CompareColumns []string `json:"compare_columns,omitempty"`
}

const diffStatusColumn = "_diff_status"

const (
	diffOnlyInLeft  = "仅在表1"
	diffOnlyInRight = "仅在表2"
)

// DiffOperator compares two tables on a shared key and reports only the
// rows that exist on one side: rows whose key has no counterpart on the
// other side are narrowed to the key and compare columns and tagged with
// which side they came from.
// Rows present on both sides (matched keys) are dropped entirely.
type DiffOperator struct{}

func (DiffOperator) Kind() types.OperatorKind { return types.OperatorDiff }

func (DiffOperator) Validate(node types.Node) error {
	var cfg diffConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.Keys) == 0 {
		return NewError(CategoryConfigMissing, "diff requires keys").WithNode(node.ID)
	}
	return nil
}

func (DiffOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) != 2 {
		return nil, NewError(CategoryArity, "diff requires exactly two inputs, got %d", len(inputs)).WithNode(node.ID)
	}
	var cfg diffConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	left, right := inputs[0], inputs[1]

	for _, k := range cfg.Keys {
		if !left.HasColumn(k) || !right.HasColumn(k) {
			return nil, NewError(CategoryColumnMissing, "diff: key column %q missing from an input", k).WithNode(node.ID)
		}
	}

	compareColumns := cfg.CompareColumns
	if len(compareColumns) == 0 {
		keySet := make(map[string]bool, len(cfg.Keys))
		for _, k := range cfg.Keys {
			keySet[k] = true
		}
		rightSet := make(map[string]bool)
		for _, n := range right.ColumnNames() {
			rightSet[n] = true
		}
		for _, n := range left.ColumnNames() {
			if keySet[n] || !rightSet[n] {
				continue
			}
			compareColumns = append(compareColumns, n)
		}
	}

	stringLeft, err := stringifyKeys(left, cfg.Keys)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	stringRight, err := stringifyKeys(right, cfg.Keys)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}

	rightKeys := keySetOf(stringRight, cfg.Keys)
	leftKeys := keySetOf(stringLeft, cfg.Keys)

	leftOnly := onlySideMask(stringLeft, cfg.Keys, rightKeys)
	rightOnly := onlySideMask(stringRight, cfg.Keys, leftKeys)

	selectCols := append(append([]string{}, cfg.Keys...), compareColumns...)

	leftSubset, err := stringLeft.Select(selectCols)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	rightSubset, err := stringRight.Select(selectCols)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	leftSubset = leftSubset.FilterMask(leftOnly)
	rightSubset = rightSubset.FilterMask(rightOnly)

	leftSubset, err = taggedWithStatus(leftSubset, diffOnlyInLeft)
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}
	rightSubset, err = taggedWithStatus(rightSubset, diffOnlyInRight)
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}

	out, err := table.Concat([]*table.Table{leftSubset, rightSubset}, "outer", false)
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}
	return out, nil
}

func stringifyKeys(t *table.Table, keys []string) (*table.Table, error) {
	out := t
	var err error
	for _, k := range keys {
		out, err = out.Coerce(k, table.KindText)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func keySetOf(t *table.Table, keys []string) map[string]bool {
	set := make(map[string]bool, t.RowCount())
	for i := 0; i < t.RowCount(); i++ {
		set[compositeKey(t, keys, i)] = true
	}
	return set
}

func onlySideMask(t *table.Table, keys []string, otherKeys map[string]bool) []bool {
	mask := make([]bool, t.RowCount())
	for i := range mask {
		mask[i] = !otherKeys[compositeKey(t, keys, i)]
	}
	return mask
}

func compositeKey(t *table.Table, keys []string, row int) string {
	s := ""
	for _, k := range keys {
		c, _ := t.Column(k)
		s += "\x1f" + table.NormalizeKey(c.Values[row])
	}
	return s
}

func taggedWithStatus(t *table.Table, status string) (*table.Table, error) {
	values := make([]cty.Value, t.RowCount())
	for i := range values {
		values[i] = table.TextVal(status)
	}
	return t.AddColumn(table.Column{Name: diffStatusColumn, Kind: table.KindText, Values: values})
}
