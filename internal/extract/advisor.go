package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// Advisor produces free-text guidance for resolving violations.
type Advisor struct {
	client ChatCompleter
	model  string
	log    *slog.Logger
}

// NewAdvisor creates an advisor around a chat client.
func NewAdvisor(client ChatCompleter, opts ...ExtractorOption) *Advisor {
	// Advisor shares the extractor's option set; apply through a throwaway.
	cfg := NewExtractor(nil, opts...)
	return &Advisor{client: client, model: cfg.model, log: cfg.log}
}

const advisorSystemPrompt = `You help users fix invalid product configurations.
Given the current configuration and its validation violations, suggest the
smallest concrete changes that would make the configuration valid. Answer in
plain prose, no markdown.`

// Advise returns guidance text for the given violations. The violations
// are serialized verbatim; the returned text is passed through unparsed.
func (a *Advisor) Advise(ctx context.Context, cfg ir.Configuration, violations []ir.ValidationViolation) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: advisorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: advisorUserPrompt(cfg, violations)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisory: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("advisory: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

func advisorUserPrompt(cfg ir.Configuration, violations []ir.ValidationViolation) string {
	var b strings.Builder
	b.WriteString("Configuration:\n")
	for _, id := range cfg.SetIDs() {
		fmt.Fprintf(&b, "- %s = %s\n", id, ir.Key(cfg.Get(id)))
	}
	b.WriteString("\nViolations:\n")
	raw, err := json.Marshal(violations)
	if err != nil {
		// Violations are plain strings and slices; this cannot happen in
		// practice, but the prompt must never be silently empty.
		fmt.Fprintf(&b, "(unserializable: %v)\n", err)
		return b.String()
	}
	b.Write(raw)
	b.WriteString("\n")
	return b.String()
}
