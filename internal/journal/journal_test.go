package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func breakfast() domain.Meal {
	return domain.Meal{
		Name: "oats with banana",
		Type: domain.MealBreakfast,
		Items: []domain.MealItem{
			{Name: "Oats", Quantity: 50, Unit: "g", Calories: 194.5, ProteinG: 8.45, CarbG: 33.15, FatG: 3.45},
			{Name: "Banana", Quantity: 1, Unit: "serving", Calories: 89, ProteinG: 1.1, CarbG: 22.8, FatG: 0.3, Estimated: true},
		},
	}
}

func TestLogMealRoundTrip(t *testing.T) {
	j := openTestJournal(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	id, err := j.LogMeal(context.Background(), day, breakfast())
	require.NoError(t, err)
	require.Positive(t, id)

	meals, err := j.MealsForDay(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, id, meals[0].ID)
	assert.Equal(t, "oats with banana", meals[0].Name)
	assert.Equal(t, domain.MealBreakfast, meals[0].Type)
	assert.Equal(t, day, meals[0].Day)
	assert.InDelta(t, 283.5, meals[0].Totals.Calories, 1e-9)

	items, err := j.Items(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Oats", items[0].Name)
	assert.False(t, items[0].Estimated)
	assert.Equal(t, "Banana", items[1].Name)
	assert.True(t, items[1].Estimated)
}

func TestDailyTotalsSumsMeals(t *testing.T) {
	j := openTestJournal(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := j.LogMeal(context.Background(), day, breakfast())
	require.NoError(t, err)
	lunch := domain.Meal{
		Name:  "lentil soup",
		Type:  domain.MealLunch,
		Items: []domain.MealItem{{Name: "Lentil Soup", Quantity: 1, Unit: "serving", Calories: 280, ProteinG: 16, CarbG: 40, FatG: 6}},
	}
	_, err = j.LogMeal(context.Background(), day, lunch)
	require.NoError(t, err)

	totals, err := j.DailyTotals(context.Background(), day)
	require.NoError(t, err)
	assert.InDelta(t, 563.5, totals.Calories, 1e-9)
	assert.InDelta(t, 25.55, totals.ProteinG, 1e-9)
}

func TestDailyTotalsEmptyDay(t *testing.T) {
	j := openTestJournal(t)
	totals, err := j.DailyTotals(context.Background(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, totals.Calories)
}

func TestWeeklySummaryWindow(t *testing.T) {
	j := openTestJournal(t)
	ending := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	snack := func(calories float64) domain.Meal {
		return domain.Meal{
			Name:  "snack",
			Type:  domain.MealSnack,
			Items: []domain.MealItem{{Name: "Apple", Quantity: 1, Unit: "serving", Calories: calories}},
		}
	}
	// First day of the window, the last day, and one day before the
	// window that must not count.
	_, err := j.LogMeal(context.Background(), ending.AddDate(0, 0, -6), snack(100))
	require.NoError(t, err)
	_, err = j.LogMeal(context.Background(), ending, snack(200))
	require.NoError(t, err)
	_, err = j.LogMeal(context.Background(), ending.AddDate(0, 0, -7), snack(400))
	require.NoError(t, err)

	totals, err := j.WeeklySummary(context.Background(), ending)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, totals.Calories, 1e-9)
}

func TestMealsForDayKeepsDaysApart(t *testing.T) {
	j := openTestJournal(t)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	_, err := j.LogMeal(context.Background(), monday, breakfast())
	require.NoError(t, err)

	meals, err := j.MealsForDay(context.Background(), tuesday)
	require.NoError(t, err)
	assert.Empty(t, meals)
}
