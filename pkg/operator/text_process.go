package operator

import (
	"regexp"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type textProcessConfig struct {
	Column    string `json:"column"`
	Operation string `json:"operation"`
	Old       string `json:"old,omitempty"`
	New       string `json:"new,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// TextProcessOperator applies one string operation to a column: trim,
// lower, upper, a literal replace, or a regex extract that appends a
// <column>_extracted column holding the pattern's first capture group.
type TextProcessOperator struct{}

func (TextProcessOperator) Kind() types.OperatorKind { return types.OperatorTextProcess }

func (TextProcessOperator) Validate(node types.Node) error {
	var cfg textProcessConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.Column == "" {
		return NewError(CategoryConfigMissing, "text_process requires column").WithNode(node.ID)
	}
	switch cfg.Operation {
	case "trim", "lower", "upper", "replace", "extract":
	default:
		return NewError(CategoryConfigMissing, "text_process: unknown operation %q", cfg.Operation).WithNode(node.ID)
	}
	return nil
}

func (TextProcessOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "text_process requires one input").WithNode(node.ID)
	}
	var cfg textProcessConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]
	col, ok := t.Column(cfg.Column)
	if !ok {
		return nil, NewError(CategoryColumnMissing, "text_process: column %q not found", cfg.Column).WithNode(node.ID)
	}

	if cfg.Operation == "extract" {
		re, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return nil, NewError(CategoryConfigMissing, "text_process: invalid pattern %q: %s", cfg.Pattern, err).WithNode(node.ID)
		}
		extracted := make([]cty.Value, len(col.Values))
		for i, v := range col.Values {
			s, ok := table.AsString(v)
			if !ok {
				extracted[i] = table.Absent(table.KindText)
				continue
			}
			m := re.FindStringSubmatch(s)
			if len(m) < 2 {
				extracted[i] = table.Absent(table.KindText)
				continue
			}
			extracted[i] = table.TextVal(m[1])
		}
		return t.AddColumn(table.Column{Name: cfg.Column + "_extracted", Kind: table.KindText, Values: extracted})
	}

	out := make([]cty.Value, len(col.Values))
	for i, v := range col.Values {
		s, ok := table.AsString(v)
		if !ok {
			out[i] = table.Absent(table.KindText)
			continue
		}
		switch cfg.Operation {
		case "trim":
			s = strings.TrimSpace(s)
		case "lower":
			s = strings.ToLower(s)
		case "upper":
			s = strings.ToUpper(s)
		case "replace":
			s = strings.ReplaceAll(s, cfg.Old, cfg.New)
		}
		out[i] = table.TextVal(s)
	}
	return t.ReplaceColumn(table.Column{Name: cfg.Column, Kind: table.KindText, Values: out})
}
