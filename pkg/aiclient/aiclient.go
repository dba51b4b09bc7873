// Package aiclient provides the ai_agent operator's narrow ChatModel
// abstraction and an Anthropic-backed implementation, grounded on the
// same adapter shape other Go Anthropic clients in this ecosystem use:
// a small interface the operator depends on, with the SDK call itself
// confined to one concrete type.
package aiclient

import (
	"context"
	"errors"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ChatModel is the capability ai_agent needs: send one prompt, get back
// text. Row-level templating and batching live in the operator; this
// interface only ever sees one fully-rendered prompt per call.
type ChatModel interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// AnthropicModel implements ChatModel against Anthropic's Messages API.
type AnthropicModel struct {
	client    anthropicsdk.Client
	modelName string
	maxTokens int64
}

// NewAnthropicModel builds an AnthropicModel. modelName defaults to a
// current Claude model when empty; maxTokens defaults to 1024 when zero,
// enough for the short per-row completions ai_agent asks for.
func NewAnthropicModel(apiKey, modelName string, maxTokens int64) *AnthropicModel {
	if modelName == "" {
		modelName = "claude-sonnet-4-5-20250929"
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}
	return &AnthropicModel{
		client:    anthropicsdk.NewClient(option.WithAPIKey(apiKey)),
		modelName: modelName,
		maxTokens: maxTokens,
	}
}

// Complete sends one user message (plus an optional system prompt) and
// returns the concatenated text of the reply.
func (m *AnthropicModel) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(m.modelName),
		MaxTokens: m.maxTokens,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			if text != "" {
				text += "\n"
			}
			text += tb.Text
		}
	}
	if text == "" {
		return "", errors.New("anthropic: response had no text content")
	}
	return text, nil
}
