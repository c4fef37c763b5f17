package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
)

func guideRecipes() []domain.Recipe {
	return []domain.Recipe{
		{
			ID: "recipe-0", Title: "Teriyaki Tofu",
			Ingredients: []string{"firm tofu", "soy sauce", "broccoli"},
			Steps:       []string{"Press the tofu", "Sear until golden", "Simmer in sauce"},
			Tags:        []string{"dinner", "vegan"},
			Servings:    2, Calories: 420, ProteinG: 24, CarbG: 38, FatG: 16,
		},
		{
			ID: "recipe-1", Title: "Lentil Soup",
			Ingredients: []string{"red lentils", "carrot", "onion"},
			Steps:       []string{"Saute onion and carrot", "Add lentils", "Simmer until tender"},
			Tags:        []string{"lunch", "vegan"},
			Servings:    4, Calories: 280, ProteinG: 16, CarbG: 40, FatG: 6,
		},
	}
}

type stubRetriever struct {
	results []domain.RecipeResult
	err     error
	queries []string
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, _ int) ([]domain.RecipeResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func TestCookThroughFindsByTitle(t *testing.T) {
	g := New(guideRecipes(), nil)
	ct, err := g.CookThrough(context.Background(), "teriyaki", 2)
	require.NoError(t, err)
	assert.Equal(t, "Teriyaki Tofu", ct.Recipe.Title)
}

func TestCookThroughFindsByIngredient(t *testing.T) {
	g := New(guideRecipes(), nil)
	ct, err := g.CookThrough(context.Background(), "carrot", 1)
	require.NoError(t, err)
	assert.Equal(t, "Lentil Soup", ct.Recipe.Title)
}

func TestCookThroughNumbersSteps(t *testing.T) {
	g := New(guideRecipes(), nil)
	ct, err := g.CookThrough(context.Background(), "lentil", 1)
	require.NoError(t, err)
	require.Len(t, ct.Steps, 3)
	for i, step := range ct.Steps {
		assert.Equal(t, i+1, step.Index)
		assert.Equal(t, stepMinutes, step.Minutes)
		assert.NotEmpty(t, step.Instruction)
		assert.NotEmpty(t, step.Tips)
	}
	assert.Equal(t, "Saute onion and carrot", ct.Steps[0].Instruction)
}

func TestCookThroughScalesIngredients(t *testing.T) {
	g := New(guideRecipes(), nil)
	// Teriyaki Tofu serves 2; cooking for 4 doubles everything.
	ct, err := g.CookThrough(context.Background(), "tofu", 4)
	require.NoError(t, err)
	assert.Equal(t, 2.0, ct.Scale)
	require.Len(t, ct.Meal.Items, 3)

	item := ct.Meal.Items[0]
	assert.Equal(t, "Firm Tofu", item.Name)
	assert.Equal(t, 2.0, item.Quantity)
	assert.InDelta(t, 840.0, item.Calories, 1e-9)
	assert.True(t, item.Estimated)
	assert.Equal(t, domain.MealDinner, ct.Meal.Type)
	assert.Equal(t, "dinner;vegan", ct.Meal.Notes)
}

func TestCookThroughDefaultsServings(t *testing.T) {
	g := New(guideRecipes(), nil)
	ct, err := g.CookThrough(context.Background(), "tofu", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ct.Scale)
}

func TestCookThroughFallsBackToRetriever(t *testing.T) {
	stub := &stubRetriever{results: []domain.RecipeResult{{Recipe: guideRecipes()[1], Score: 0.72}}}
	g := New(guideRecipes(), stub)

	ct, err := g.CookThrough(context.Background(), "cozy winter dinner", 1)
	require.NoError(t, err)
	assert.Equal(t, "Lentil Soup", ct.Recipe.Title)
	assert.Equal(t, []string{"cozy winter dinner"}, stub.queries)
}

func TestCookThroughNotFound(t *testing.T) {
	g := New(guideRecipes(), nil)
	_, err := g.CookThrough(context.Background(), "paella", 1)
	require.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = g.CookThrough(context.Background(), "   ", 1)
	require.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestCookThroughIgnoresZeroScoreRetrieval(t *testing.T) {
	stub := &stubRetriever{results: []domain.RecipeResult{{Recipe: guideRecipes()[0], Score: 0}}}
	g := New(guideRecipes(), stub)
	_, err := g.CookThrough(context.Background(), "paella", 1)
	require.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestCookThroughPropagatesRetrieverError(t *testing.T) {
	stub := &stubRetriever{err: errors.New("backend down")}
	g := New(guideRecipes(), stub)
	_, err := g.CookThrough(context.Background(), "paella", 1)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRecipeNotFound)
}
