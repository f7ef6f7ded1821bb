package generate

import (
	"context"
	"fmt"
	"time"

	"recipe-pipeline/core/generation"
	"recipe-pipeline/feature/recipes/models"

	"go.uber.org/zap"
)

const systemPrompt = `You are a professional chef and nutritionist. Respond with one JSON object and nothing else, using this structure:
{
    "name": "Recipe name",
    "description": "One or two sentences",
    "cuisine": "Indian, Italian, Chinese, Mexican, Mediterranean, ...",
    "category": "Main Course, Breakfast, Snack, Dessert, Soup, Salad, Beverage, ...",
    "ingredients": [{"name": "paneer", "quantity": 200, "unit": "g", "remarks": "cubed"}],
    "instructions": ["Step one", "Step two"],
    "prepTime": 15,
    "cookTime": 20,
    "servings": 2,
    "difficulty": "easy | medium | hard",
    "portionSize": "small | medium | large",
    "nutrition": {"calories": 350, "protein": 15, "carbs": 45, "fat": 12},
    "tags": ["high-protein"],
    "dietaryRestrictions": ["vegetarian"],
    "allergens": ["dairy"],
    "medicalContraindications": ["lactose-intolerance"],
    "tips": ["..."],
    "variations": ["..."]
}

prepTime and cookTime are minutes. quantity and every nutrition value are numbers, not strings.
Nutrition values are per serving. Ingredient names are plain, lower case and without quantities.`

// RecipeGenerator asks a completion service for a full recipe.
type RecipeGenerator struct {
	client generation.Client
	policy generation.RetryPolicy
	logger *zap.Logger
}

// NewRecipeGenerator creates a generator. Rate limited calls are retried
// according to policy.
func NewRecipeGenerator(client generation.Client, policy generation.RetryPolicy, logger *zap.Logger) *RecipeGenerator {
	g := &RecipeGenerator{client: client, policy: policy, logger: logger}
	if g.policy.OnRetry == nil {
		g.policy.OnRetry = func(attempt int, delay time.Duration, err error) {
			g.logger.Warn("Generation rate limited, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		}
	}
	return g
}

// Generate returns a validated recipe for name.
func (g *RecipeGenerator) Generate(ctx context.Context, name string) (*models.Recipe, error) {
	prompt := generation.Prompt{
		System: systemPrompt,
		User:   fmt.Sprintf("Create a complete recipe for %q.", name),
		JSON:   true,
	}
	text, err := generation.Retry(ctx, g.policy, func(ctx context.Context) (string, error) {
		return g.client.Complete(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	return ParseGenerated(text, name)
}
