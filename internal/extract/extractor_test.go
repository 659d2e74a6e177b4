package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// fakeChat returns a canned completion and records the last request.
type fakeChat struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func testAttributes() []ir.ProductAttribute {
	return []ir.ProductAttribute{
		{ID: "motor_hp", Name: "Motor HP", Type: ir.AttributeNumber},
		{ID: "cooling_capacity", Name: "Cooling Capacity", Type: ir.AttributeNumber},
	}
}

func testExtractor(chat ChatCompleter) *Extractor {
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return NewExtractor(chat,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixed }),
	)
}

const cannedCompletion = "```json\n" + `[
  {
    "description": "big motors need cooling",
    "kind": "implication",
    "condition": {"attribute": "motor_hp", "operator": ">", "value": 10},
    "consequence": {"attribute": "cooling_capacity", "operator": ">=", "value": 5000},
    "confidence": 0.85
  },
  {
    "description": "references a made-up attribute",
    "kind": "exclusion",
    "condition": {"attribute": "warp_core", "operator": "==", "value": 1},
    "confidence": 0.9
  },
  {
    "description": "implication missing its consequence",
    "kind": "implication",
    "condition": {"attribute": "motor_hp", "operator": ">", "value": 50},
    "confidence": 0.4
  }
]` + "\n```"

func TestExtract_ProducesDraftsAndDropsBadCandidates(t *testing.T) {
	chat := &fakeChat{content: cannedCompletion}

	drafts, err := testExtractor(chat).Extract(context.Background(), "datasheet-2026.pdf", "some text", testAttributes())
	require.NoError(t, err)
	require.Len(t, drafts, 1, "unknown-attribute and shapeless candidates dropped")

	draft := drafts[0]
	assert.False(t, draft.Approved, "extracted rules are always drafts")
	assert.Equal(t, ir.KindImplication, draft.Kind)
	assert.Equal(t, "datasheet-2026.pdf", draft.Provenance)
	assert.InDelta(t, 0.85, draft.Confidence, 1e-9)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), draft.CreatedAt)
	require.NotNil(t, draft.Consequence)
	assert.Equal(t, ir.Number(5000), draft.Consequence.Value)
}

func TestExtract_PromptContainsSchemaAndText(t *testing.T) {
	chat := &fakeChat{content: "[]"}

	_, err := testExtractor(chat).Extract(context.Background(), "src", "the requirement text", testAttributes())
	require.NoError(t, err)

	require.Len(t, chat.lastReq.Messages, 2)
	user := chat.lastReq.Messages[1].Content
	assert.Contains(t, user, "motor_hp")
	assert.Contains(t, user, "the requirement text")
}

func TestExtract_ClientErrorPropagates(t *testing.T) {
	chat := &fakeChat{err: errors.New("rate limited")}

	_, err := testExtractor(chat).Extract(context.Background(), "src", "text", testAttributes())
	assert.Error(t, err)
}

func TestExtract_NoJSONArrayInCompletion(t *testing.T) {
	chat := &fakeChat{content: "I could not find any rules."}

	_, err := testExtractor(chat).Extract(context.Background(), "src", "text", testAttributes())
	assert.Error(t, err)
}

func TestExtractJSONArray(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"fenced", "```json\n[1, 2]\n```", "[1, 2]"},
		{"bare", `prefix [1, 2] suffix`, "[1, 2]"},
		{"trailing comma", "```json\n[{\"a\": 1,}]\n```", `[{"a": 1}]`},
		{"none", "no array here", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSONArray(tc.in))
		})
	}
}

func TestAdvise_PassesViolationsVerbatim(t *testing.T) {
	chat := &fakeChat{content: "Lower the motor to 10 HP or add cooling."}
	advisor := NewAdvisor(chat, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	cfg := ir.Configuration{"motor_hp": ir.Number(12)}
	violations := []ir.ValidationViolation{{
		RuleID:   "hp-cooling",
		Message:  `rule "hp-cooling" violated`,
		Severity: ir.SeverityError,
	}}

	text, err := advisor.Advise(context.Background(), cfg, violations)
	require.NoError(t, err)
	assert.Equal(t, "Lower the motor to 10 HP or add cooling.", text)

	user := chat.lastReq.Messages[1].Content
	assert.Contains(t, user, "motor_hp = 12")
	assert.Contains(t, user, "hp-cooling")
}
