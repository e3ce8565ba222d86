package service

import (
	"context"
)

// Generator sends a single prompt to a generative language model and
// returns the text it produced. Implementations keep no conversation state.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string, opts GenerationOptions) (string, error)
}

// MealSuggester produces meal plan suggestions for a nursery menu
type MealSuggester interface {
	Suggest(ctx context.Context, menuText string) (string, error)
}
