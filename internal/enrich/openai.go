// Package enrich provides the OpenAI-backed workout description
// enricher. It is strictly optional: the plan generator falls back to
// deterministic templates whenever a call fails.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"runcoach/internal/store"
)

// OpenAIEnricher rewrites workout descriptions with a language model.
type OpenAIEnricher struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIEnricher creates an enricher using the given API key.
func NewOpenAIEnricher(apiKey string) *OpenAIEnricher {
	return &OpenAIEnricher{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}
}

// Describe implements plan.DescriptionEnricher.
func (e *OpenAIEnricher) Describe(ctx context.Context, workout store.PlannedWorkout, phase store.Phase) (string, error) {
	prompt := fmt.Sprintf(`Write a 1-2 sentence coaching note for this planned run.
Type: %s
Distance: %.1f km
Target pace: %s to %s seconds per km
Training phase: %s

Be concrete about execution (warmup, effort control, recovery between reps where relevant).
Do not change the distance or pace targets. Plain text only, no markdown.`,
		workout.Type, workout.DistanceKm, formatSeconds(workout.PaceMinSecKm),
		formatSeconds(workout.PaceMaxSecKm), phase)

	chat, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: e.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("empty completion response")
	}

	description := strings.TrimSpace(chat.Choices[0].Message.Content)
	if description == "" {
		return "", errors.New("blank description returned")
	}
	return description, nil
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.0f", s)
}
