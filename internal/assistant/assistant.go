// Package assistant turns corpus recipes into guided cook-throughs.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
)

// ErrRecipeNotFound is returned when no recipe matches a query.
var ErrRecipeNotFound = errors.New("recipe not found")

const stepMinutes = 5

// Retriever finds recipes semantically when plain lookup misses.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.RecipeResult, error)
}

// Guide resolves recipe queries and expands them into numbered steps
// with scaled ingredient portions.
type Guide struct {
	recipes   []domain.Recipe
	retriever Retriever
}

// New creates a guide over the given recipes. The retriever is
// optional; without it lookup is substring-only.
func New(recipes []domain.Recipe, retriever Retriever) *Guide {
	return &Guide{recipes: recipes, retriever: retriever}
}

// CookThrough is a recipe prepared for step-by-step cooking.
type CookThrough struct {
	Recipe domain.Recipe     `json:"recipe"`
	Steps  []domain.CookStep `json:"steps"`
	Meal   domain.Meal       `json:"meal"`
	Scale  float64           `json:"scale"`
}

// CookThrough finds the recipe best matching query and prepares it for
// the requested number of servings.
func (g *Guide) CookThrough(ctx context.Context, query string, servings int) (*CookThrough, error) {
	recipe, err := g.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	if servings < 1 {
		servings = 1
	}
	scale := float64(servings) / float64(recipe.BaseServings())

	steps := make([]domain.CookStep, 0, len(recipe.Steps))
	for i, instruction := range recipe.Steps {
		steps = append(steps, domain.CookStep{
			Index:         i + 1,
			Instruction:   instruction,
			Minutes:       stepMinutes,
			Tips:          []string{"Read the entire step before starting."},
			Substitutions: []string{"Swap similar vegetables if needed."},
		})
	}

	title := cases.Title(language.English)
	items := make([]domain.MealItem, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		items = append(items, domain.MealItem{
			Name:      title.String(ingredient),
			Quantity:  scale,
			Unit:      "serving",
			Calories:  recipe.Calories * scale,
			ProteinG:  recipe.ProteinG * scale,
			CarbG:     recipe.CarbG * scale,
			FatG:      recipe.FatG * scale,
			Estimated: true,
		})
	}
	meal := domain.Meal{
		Name:  recipe.Title,
		Type:  domain.MealDinner,
		Items: items,
		Notes: strings.Join(recipe.Tags, ";"),
	}
	return &CookThrough{Recipe: recipe, Steps: steps, Meal: meal, Scale: scale}, nil
}

// Find resolves a query to a recipe: title substring first, then
// ingredient substring, then semantic retrieval.
func (g *Guide) Find(ctx context.Context, query string) (domain.Recipe, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return domain.Recipe{}, fmt.Errorf("%w: empty query", ErrRecipeNotFound)
	}
	for _, recipe := range g.recipes {
		if strings.Contains(strings.ToLower(recipe.Title), needle) {
			return recipe, nil
		}
	}
	for _, recipe := range g.recipes {
		if strings.Contains(strings.ToLower(strings.Join(recipe.Ingredients, "|")), needle) {
			return recipe, nil
		}
	}
	if g.retriever != nil {
		results, err := g.retriever.Retrieve(ctx, query, 1)
		if err != nil {
			return domain.Recipe{}, fmt.Errorf("retrieve recipe: %w", err)
		}
		if len(results) > 0 && results[0].Score > 0 {
			return results[0].Recipe, nil
		}
	}
	return domain.Recipe{}, fmt.Errorf("%w: %q", ErrRecipeNotFound, query)
}
