package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// ChatCompleter is the narrow slice of the OpenAI client the collaborators
// use. *openai.Client satisfies it; tests supply a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor produces candidate rules from requirement text.
type Extractor struct {
	client ChatCompleter
	model  string
	now    func() time.Time
	log    *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithModel overrides the completion model.
func WithModel(model string) ExtractorOption {
	return func(e *Extractor) {
		e.model = model
	}
}

// WithLogger sets the logger for skipped-candidate diagnostics.
func WithLogger(log *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.log = log
	}
}

// WithClock overrides the draft timestamp source for tests.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates an extractor around a chat client.
func NewExtractor(client ChatCompleter, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client: client,
		model:  DefaultModel,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// candidateDoc is the JSON shape the model is asked to produce.
type candidateDoc struct {
	Description string         `json:"description"`
	Kind        string         `json:"kind"`
	Condition   candidateCond  `json:"condition"`
	Consequence *candidateCond `json:"consequence,omitempty"`
	Confidence  float64        `json:"confidence"`
}

type candidateCond struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     any    `json:"value,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

const extractionSystemPrompt = `You extract product configuration rules from requirement text.
Respond with a JSON array only. Each element:
{"description": "...", "kind": "implication"|"exclusion",
 "condition": {"attribute": "...", "operator": ">"|">="|"<"|"<="|"=="|"!="|"in", "value": scalar, "values": [scalars, for "in" only]},
 "consequence": {same shape, implications only},
 "confidence": 0.0-1.0}
Rules may only reference the attributes listed by the user. An implication
must have a consequence; an exclusion must not. Do not invent attributes.`

// Extract asks the model for candidate rules over the given schema.
// Every returned rule is a draft (approved = false) carrying the source
// name as provenance. Candidates that fail the rule shape invariant or
// reference unknown attributes are dropped with a log line.
func (e *Extractor) Extract(ctx context.Context, source, text string, attrs []ir.ProductAttribute) ([]ir.Rule, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: extractionUserPrompt(text, attrs)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("rule extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("rule extraction: empty completion")
	}

	raw := ExtractJSONArray(resp.Choices[0].Message.Content)
	if raw == "" {
		return nil, fmt.Errorf("rule extraction: no JSON array in completion")
	}

	var candidates []candidateDoc
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, fmt.Errorf("rule extraction: decoding candidates: %w", err)
	}

	index := ir.AttributeIndex(attrs)
	var drafts []ir.Rule
	for _, cand := range candidates {
		rule, err := e.toDraft(cand, source, index)
		if err != nil {
			e.log.Warn("dropping extracted candidate", "source", source, "error", err)
			continue
		}
		drafts = append(drafts, rule)
	}
	return drafts, nil
}

func (e *Extractor) toDraft(cand candidateDoc, source string, attrs map[string]ir.ProductAttribute) (ir.Rule, error) {
	cond, err := condFromCandidate(cand.Condition, attrs)
	if err != nil {
		return ir.Rule{}, err
	}
	rule := ir.Rule{
		ID:          uuid.NewString(),
		Description: cand.Description,
		Kind:        ir.RuleKind(cand.Kind),
		Condition:   cond,
		Confidence:  cand.Confidence,
		Approved:    false,
		CreatedAt:   e.now().UTC(),
		Provenance:  source,
	}
	if cand.Consequence != nil {
		cons, err := condFromCandidate(*cand.Consequence, attrs)
		if err != nil {
			return ir.Rule{}, err
		}
		rule.Consequence = &cons
	}
	if err := rule.CheckShape(); err != nil {
		return ir.Rule{}, err
	}
	return rule, nil
}

func condFromCandidate(cand candidateCond, attrs map[string]ir.ProductAttribute) (ir.RuleCondition, error) {
	if _, ok := attrs[cand.Attribute]; !ok {
		return ir.RuleCondition{}, fmt.Errorf("unknown attribute %q", cand.Attribute)
	}
	cond := ir.RuleCondition{
		Attribute: cand.Attribute,
		Operator:  ir.Operator(cand.Operator),
	}
	if cand.Value != nil {
		v, err := ir.FromAny(cand.Value)
		if err != nil {
			return ir.RuleCondition{}, err
		}
		cond.Value = v
	}
	for _, member := range cand.Values {
		v, err := ir.FromAny(member)
		if err != nil {
			return ir.RuleCondition{}, err
		}
		cond.Values = append(cond.Values, v)
	}
	return cond, nil
}

func extractionUserPrompt(text string, attrs []ir.ProductAttribute) string {
	var b strings.Builder
	b.WriteString("Attributes:\n")
	for _, a := range attrs {
		fmt.Fprintf(&b, "- %s (%s): %s", a.ID, a.Type, a.Name)
		if len(a.Options) > 0 {
			b.WriteString(" options:")
			for _, opt := range a.Options {
				fmt.Fprintf(&b, " %s", ir.Key(opt.Value))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\nRequirement text:\n")
	b.WriteString(text)
	return b.String()
}
