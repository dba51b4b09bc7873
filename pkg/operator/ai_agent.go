package operator

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/aiclient"
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type aiAgentConfig struct {
	PromptTemplate string `json:"prompt"`
	SystemPrompt   string `json:"system_prompt,omitempty"`
	OutputColumn   string `json:"target_column"`
}

const (
	aiAgentMaxRows    = 20
	aiAgentCallTimeout = 60 * time.Second
)

var aiAgentPlaceholder = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// AIAgentOperator sends a per-row prompt (built by substituting {{column}}
// placeholders) to a remote chat model, bounded to the first 20 rows, and
// writes the reply into a new column. A per-row failure is recorded as
// "Error: <reason>" in that row's output cell rather than failing the
// whole operator; ai_agent never runs during preview_node, since a
// preview must never trigger a billed remote call.
type AIAgentOperator struct {
	Model aiclient.ChatModel
}

func (AIAgentOperator) Kind() types.OperatorKind { return types.OperatorAIAgent }

func (AIAgentOperator) Validate(node types.Node) error {
	var cfg aiAgentConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.PromptTemplate == "" || cfg.OutputColumn == "" {
		return NewError(CategoryConfigMissing, "ai_agent requires prompt and target_column").WithNode(node.ID)
	}
	return nil
}

func (a AIAgentOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if ctx.IsPreview() {
		return nil, NewError(CategoryPreviewUnsupported, "ai_agent cannot run during preview").WithNode(node.ID)
	}
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "ai_agent requires one input").WithNode(node.ID)
	}
	if a.Model == nil {
		return nil, NewError(CategoryRemoteUnavailable, "ai_agent: no chat model configured").WithNode(node.ID)
	}
	var cfg aiAgentConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]
	rows := t.ToRowMaps()

	bound := len(rows)
	if bound > aiAgentMaxRows {
		bound = aiAgentMaxRows
	}

	values := make([]cty.Value, len(rows))
	for i := 0; i < bound; i++ {
		prompt := renderTemplate(cfg.PromptTemplate, rows[i])
		callCtx, cancel := context.WithTimeout(ctx.Context(), aiAgentCallTimeout)
		reply, err := a.Model.Complete(callCtx, cfg.SystemPrompt, prompt)
		cancel()
		if err != nil {
			values[i] = table.TextVal(fmt.Sprintf("Error: %s", err))
			ctx.Log("ai_agent %s: row %d failed: %s", node.ID, i, err)
			continue
		}
		values[i] = table.TextVal(reply)
	}
	for i := bound; i < len(rows); i++ {
		values[i] = table.Absent(table.KindText)
	}

	return t.AddColumn(table.Column{Name: cfg.OutputColumn, Kind: table.KindText, Values: values})
}

// renderTemplate substitutes {{column}} placeholders from row. If template
// has none, the row is rendered as a trailing "column: value" block instead,
// so the model still sees the row's data.
func renderTemplate(template string, row map[string]any) string {
	if !aiAgentPlaceholder.MatchString(template) {
		return template + "\n\n" + renderRowBlock(row)
	}
	return aiAgentPlaceholder.ReplaceAllStringFunc(template, func(match string) string {
		name := aiAgentPlaceholder.FindStringSubmatch(match)[1]
		v, ok := row[name]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", v)
	})
}

func renderRowBlock(row map[string]any) string {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %v\n", name, row[name])
	}
	return b.String()
}
