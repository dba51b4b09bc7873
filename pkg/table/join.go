package table

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// normalizeJoinMode applies the engine's how-alias compatibility fix:
// "full_outer" is accepted as a synonym of "outer".
func normalizeJoinMode(how string) string {
	if how == "full_outer" {
		return "outer"
	}
	if how == "" {
		return "inner"
	}
	return how
}

type joinPair struct {
	left, right int // -1 means "no row on this side"
}

// Merge performs a relational join against other. Key columns on both sides
// are coerced to text before matching (so integer 42 and text "42" compare
// equal), and when a left/right key pair shares the same name the right-side
// copy is dropped from the result — matching the engine's redundant-key-
// column rule.
func (t *Table) Merge(other *Table, how string, leftOn, rightOn []string) (*Table, error) {
	if len(leftOn) != len(rightOn) || len(leftOn) == 0 {
		return nil, ErrKeyArity
	}
	mode := normalizeJoinMode(how)
	switch mode {
	case "inner", "left", "right", "outer":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedJoin, how)
	}

	left := t
	right := other
	var err error
	for _, k := range leftOn {
		if !left.HasColumn(k) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, k)
		}
		left, err = left.Coerce(k, KindText)
		if err != nil {
			return nil, err
		}
	}
	for _, k := range rightOn {
		if !right.HasColumn(k) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, k)
		}
		right, err = right.Coerce(k, KindText)
		if err != nil {
			return nil, err
		}
	}

	redundant := make(map[string]bool, len(leftOn))
	for i := range leftOn {
		if leftOn[i] == rightOn[i] {
			redundant[rightOn[i]] = true
		}
	}

	rightIndex := make(map[string][]int)
	for ri := 0; ri < right.RowCount(); ri++ {
		rightIndex[mergeKey(right, rightOn, ri)] = append(rightIndex[mergeKey(right, rightOn, ri)], ri)
	}

	includeLeftUnmatched := mode == "left" || mode == "outer"
	includeRightUnmatched := mode == "right" || mode == "outer"

	var pairs []joinPair
	usedRight := make([]bool, right.RowCount())
	for li := 0; li < left.RowCount(); li++ {
		matches := rightIndex[mergeKey(left, leftOn, li)]
		if len(matches) == 0 {
			if includeLeftUnmatched {
				pairs = append(pairs, joinPair{left: li, right: -1})
			}
			continue
		}
		for _, ri := range matches {
			pairs = append(pairs, joinPair{left: li, right: ri})
			usedRight[ri] = true
		}
	}
	if includeRightUnmatched {
		for ri := 0; ri < right.RowCount(); ri++ {
			if !usedRight[ri] {
				pairs = append(pairs, joinPair{left: -1, right: ri})
			}
		}
	}

	var rightCols []Column
	for _, c := range right.columns {
		if redundant[c.Name] {
			continue
		}
		rightCols = append(rightCols, c)
	}

	leftKeyToRight := make(map[string]string)
	for i := range leftOn {
		if leftOn[i] == rightOn[i] {
			leftKeyToRight[leftOn[i]] = rightOn[i]
		}
	}

	outCols := make([]Column, 0, len(left.columns)+len(rightCols))
	for _, c := range left.columns {
		vals := make([]cty.Value, len(pairs))
		for i, p := range pairs {
			if p.left >= 0 {
				vals[i] = c.Values[p.left]
				continue
			}
			if rn, ok := leftKeyToRight[c.Name]; ok {
				rc, _ := right.Column(rn)
				vals[i] = rc.Values[p.right]
				continue
			}
			vals[i] = Absent(c.Kind)
		}
		outCols = append(outCols, Column{Name: c.Name, Kind: c.Kind, Values: vals})
	}
	for _, c := range rightCols {
		vals := make([]cty.Value, len(pairs))
		for i, p := range pairs {
			if p.right >= 0 {
				vals[i] = c.Values[p.right]
			} else {
				vals[i] = Absent(c.Kind)
			}
		}
		outCols = append(outCols, Column{Name: c.Name, Kind: c.Kind, Values: vals})
	}
	return New(outCols...)
}

func mergeKey(t *Table, on []string, row int) string {
	var b strings.Builder
	for _, name := range on {
		c, _ := t.Column(name)
		b.WriteByte('\x1f')
		b.WriteString(NormalizeKey(c.Values[row]))
	}
	return b.String()
}

// Concat stacks tables vertically. join selects schema reconciliation mode:
// "outer" takes the union of columns (missing cells become absent), "inner"
// keeps only columns common to every table. resetIndex has no observable
// effect beyond row order (the engine has no positional index concept) and
// exists to mirror the config key the reference tool accepts.
func Concat(tables []*Table, join string, resetIndex bool) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrEmptyConcat
	}
	_ = resetIndex

	var names []string
	kinds := make(map[string]ElementKind)
	if join == "inner" {
		common := make(map[string]int)
		for _, t := range tables {
			for _, c := range t.columns {
				common[c.Name]++
			}
		}
		for _, c := range tables[0].columns {
			if common[c.Name] == len(tables) {
				names = append(names, c.Name)
				kinds[c.Name] = c.Kind
			}
		}
	} else {
		seen := make(map[string]bool)
		for _, t := range tables {
			for _, c := range t.columns {
				if !seen[c.Name] {
					seen[c.Name] = true
					names = append(names, c.Name)
					kinds[c.Name] = c.Kind
				}
			}
		}
	}

	outCols := make(map[string][]cty.Value, len(names))
	for _, name := range names {
		outCols[name] = nil
	}
	for _, t := range tables {
		n := t.RowCount()
		for _, name := range names {
			c, ok := t.Column(name)
			for i := 0; i < n; i++ {
				if ok {
					outCols[name] = append(outCols[name], c.Values[i])
				} else {
					outCols[name] = append(outCols[name], Absent(kinds[name]))
				}
			}
		}
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Kind: kinds[name], Values: outCols[name]}
	}
	return New(cols...)
}
