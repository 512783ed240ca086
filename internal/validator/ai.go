package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"sentencecraft/internal/llm"
)

// FailurePolicy decides what an AI failure (transport error, timeout or
// malformed output) means for the pupil's sentence.
type FailurePolicy string

const (
	// FailOpen treats an unverifiable sentence as correct. A false
	// "correct" is less harmful than blocking a child's progress on an
	// outage.
	FailOpen FailurePolicy = "fail-open"

	// FailClosed treats an unverifiable sentence as incorrect.
	FailClosed FailurePolicy = "fail-closed"
)

const (
	FeedbackSuccess = "success"
	FeedbackError   = "error"
)

// Verdict is the AI's judgement of a sentence that already passed the
// rule checks.
type Verdict struct {
	IsCorrect bool     `json:"is_correct"`
	Type      string   `json:"feedback_type"`
	Message   string   `json:"message"`
	Questions []string `json:"socratic_questions,omitempty"`
}

const fallbackMessage = "Great sentence! Keep going!"

// verdictSchema constrains the model's output shape.
var verdictSchema = &llm.Schema{
	Name: "sentence_verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{"type": "boolean"},
			"feedback_type": map[string]any{
				"type": "string",
				"enum": []any{FeedbackSuccess, FeedbackError},
			},
			"message": map[string]any{"type": "string"},
			"socratic_questions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"is_correct", "feedback_type", "message"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly writing helper for a child aged 7 to 11.
You judge whether a sentence follows a required structure of grammar slots.
Judge ONLY structural correctness: are the required parts present and does
each part do its job (for example, an adjective must describe the subject)?
Do not mark a sentence wrong for spelling, imagination or word choice.
Always answer in the requested JSON shape. Keep the message short, warm and
encouraging. When the sentence is wrong, add one or two socratic_questions
that nudge the child toward the fix without giving the answer.`

// AIValidator asks a language model for a qualitative judgement of
// sentences that pass the rule checks. It never retries: one failed call
// is absorbed by the failure policy.
type AIValidator struct {
	provider  llm.Provider
	policy    FailurePolicy
	timeout   time.Duration
	maxTokens int
}

// NewAIValidator builds an AIValidator. A zero timeout defaults to 12s
// and an unknown policy defaults to fail-open.
func NewAIValidator(provider llm.Provider, policy FailurePolicy, timeout time.Duration) *AIValidator {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	if policy != FailClosed {
		policy = FailOpen
	}
	return &AIValidator{
		provider:  provider,
		policy:    policy,
		timeout:   timeout,
		maxTokens: 512,
	}
}

// Validate judges a sentence against its formula structure. The returned
// Verdict is always usable: failures are converted by the policy rather
// than surfaced to the caller.
func (v *AIValidator) Validate(ctx context.Context, sentence string, structure, newElements []string) Verdict {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.provider.Generate(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    buildPrompt(sentence, structure, newElements),
		Schema:    verdictSchema,
		MaxTokens: v.maxTokens,
	})
	if err != nil {
		log.Printf("AI validation failed (%s policy applies): %v", v.policy, err)
		return v.failureVerdict()
	}

	var verdict Verdict
	if err := json.Unmarshal(resp.Content, &verdict); err != nil {
		log.Printf("AI verdict parse failed (%s policy applies): %v", v.policy, err)
		return v.failureVerdict()
	}
	if verdict.Message == "" {
		verdict.Message = fallbackMessage
	}

	return verdict
}

func (v *AIValidator) failureVerdict() Verdict {
	if v.policy == FailClosed {
		return Verdict{
			IsCorrect: false,
			Type:      FeedbackError,
			Message:   "We couldn't check that sentence just now. Please try it again!",
		}
	}
	return Verdict{
		IsCorrect: true,
		Type:      FeedbackSuccess,
		Message:   fallbackMessage,
	}
}

func buildPrompt(sentence string, structure, newElements []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Required structure: %s\n", strings.Join(structure, " + "))
	if len(newElements) > 0 {
		fmt.Fprintf(&b, "Newly introduced parts to pay attention to: %s\n", strings.Join(newElements, ", "))
	}
	fmt.Fprintf(&b, "The child's sentence: %q\n", sentence)
	b.WriteString("Does the sentence follow the required structure?")
	return b.String()
}
