package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
)

func sampleRecipes() []domain.Recipe {
	return []domain.Recipe{
		{
			ID: "recipe-0", Title: "Teriyaki Tofu",
			Ingredients: []string{"firm tofu", "soy sauce", "broccoli"},
			Tags:        []string{"dinner", "vegan", "high-protein"},
			Servings:    2, Calories: 420, ProteinG: 24, CarbG: 38, FatG: 16,
		},
		{
			ID: "recipe-1", Title: "Greek Yogurt Parfait",
			Ingredients: []string{"greek yogurt", "honey", "granola"},
			Tags:        []string{"breakfast", "vegetarian", "quick"},
			Servings:    1, Calories: 310, ProteinG: 18, CarbG: 42, FatG: 8,
		},
		{
			ID: "recipe-2", Title: "Lentil Soup",
			Ingredients: []string{"red lentils", "carrot", "onion"},
			Tags:        []string{"lunch", "vegan", "budget"},
			Servings:    4, Calories: 280, ProteinG: 16, CarbG: 40, FatG: 6,
		},
	}
}

func targets(calories int) domain.MacroTargets {
	return domain.MacroTargets{Calories: calories, ProteinG: 140, CarbG: 220, FatG: 60, MealsPerDay: 3}
}

func TestGenerateCoversRequestedDaysAndMeals(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	plan, err := p.Generate(targets(1000), 2, start)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	for i, day := range plan {
		assert.Equal(t, start.AddDate(0, 0, i), day.Date)
		require.Len(t, day.Meals, 3)
		assert.Equal(t, domain.MealBreakfast, day.Meals[0].Type)
		assert.Equal(t, domain.MealLunch, day.Meals[1].Type)
		assert.Equal(t, domain.MealDinner, day.Meals[2].Type)
	}
}

func TestGenerateRotatesRecipesAcrossDays(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	plan, err := p.Generate(targets(1000), 2, time.Now())
	require.NoError(t, err)

	day1 := []string{plan[0].Meals[0].Name, plan[0].Meals[1].Name, plan[0].Meals[2].Name}
	assert.Equal(t, []string{"Teriyaki Tofu", "Greek Yogurt Parfait", "Lentil Soup"}, day1)
	// The rotation pointer carries over, so day two starts where day one ended.
	assert.Equal(t, "Teriyaki Tofu", plan[1].Meals[0].Name)
}

func TestGenerateFourMealsAddsSnack(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	want := targets(1000)
	want.MealsPerDay = 4
	plan, err := p.Generate(want, 1, time.Now())
	require.NoError(t, err)
	require.Len(t, plan[0].Meals, 4)
	assert.Equal(t, domain.MealSnack, plan[0].Meals[3].Type)
}

func TestGenerateFiltersByDietTags(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	want := targets(800)
	want.DietTags = []string{"vegan"}
	plan, err := p.Generate(want, 1, time.Now())
	require.NoError(t, err)

	for _, meal := range plan[0].Meals {
		assert.Contains(t, []string{"Teriyaki Tofu", "Lentil Soup"}, meal.Name)
	}
}

func TestGenerateAppliesExclusions(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	want := targets(800)
	want.Exclusions = []string{"tofu"}
	plan, err := p.Generate(want, 1, time.Now())
	require.NoError(t, err)

	for _, meal := range plan[0].Meals {
		assert.NotEqual(t, "Teriyaki Tofu", meal.Name)
	}
}

func TestGenerateFallsBackWhenFilterEmptiesPool(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	want := targets(1000)
	want.DietTags = []string{"keto"}
	plan, err := p.Generate(want, 1, time.Now())
	require.NoError(t, err)
	require.Len(t, plan[0].Meals, 3)
}

func TestGenerateScalesUpShortDays(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	plan, err := p.Generate(targets(2000), 1, time.Now())
	require.NoError(t, err)

	// 420+310+280 = 1010 kcal, well under 80% of 2000, so the day is
	// scaled by 2000/1010.
	day := plan[0]
	totals := day.Totals()
	assert.InDelta(t, 2000, totals.Calories, 0.5)
	for _, meal := range day.Meals {
		for _, item := range meal.Items {
			assert.True(t, item.Estimated)
			assert.Greater(t, item.Quantity, 1.0)
		}
	}
}

func TestGenerateLeavesDaysNearTargetAlone(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	plan, err := p.Generate(targets(1100), 1, time.Now())
	require.NoError(t, err)

	// 1010 kcal is within 20% of 1100, so portions stay as-is.
	for _, meal := range plan[0].Meals {
		for _, item := range meal.Items {
			assert.False(t, item.Estimated)
			assert.Equal(t, 1.0, item.Quantity)
		}
	}
}

func TestGenerateScaleRespectsCalorieFloor(t *testing.T) {
	small := []domain.Recipe{{
		ID: "recipe-0", Title: "Cucumber Salad",
		Ingredients: []string{"cucumber"}, Tags: []string{"snack"},
		Servings: 1, Calories: 100, ProteinG: 2, CarbG: 5, FatG: 1,
	}}
	p := New(small, 0.2)
	// A 1000 kcal target still scales the 300 kcal day up to the
	// 1200 kcal safety floor.
	plan, err := p.Generate(targets(1000), 1, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 1200, plan[0].Totals().Calories, 0.5)
}

func TestGenerateInputValidation(t *testing.T) {
	p := New(sampleRecipes(), 0.2)
	_, err := p.Generate(targets(1000), 0, time.Now())
	require.Error(t, err)
	_, err = p.Generate(targets(0), 1, time.Now())
	require.Error(t, err)
	_, err = New(nil, 0.2).Generate(targets(1000), 1, time.Now())
	require.Error(t, err)
}
