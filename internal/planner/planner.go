// Package planner builds day-by-day meal plans from the recipe corpus.
package planner

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/nutrition"
)

const defaultTolerance = 0.2

// Planner rotates corpus recipes into meal slots and scales portions
// toward the daily calorie target.
type Planner struct {
	recipes   []domain.Recipe
	tolerance float64
}

// New creates a planner over the given recipes. Tolerance is the
// fraction a day's calories may undershoot the target before portions
// are scaled up.
func New(recipes []domain.Recipe, tolerance float64) *Planner {
	if tolerance <= 0 || tolerance >= 1 {
		tolerance = defaultTolerance
	}
	return &Planner{recipes: recipes, tolerance: tolerance}
}

// Generate produces a plan covering the given number of days starting
// at start.
func (p *Planner) Generate(targets domain.MacroTargets, days int, start time.Time) ([]domain.PlanDay, error) {
	if len(p.recipes) == 0 {
		return nil, errors.New("no recipes available for planning")
	}
	if days < 1 {
		return nil, errors.New("plan needs at least one day")
	}
	if targets.Calories <= 0 {
		return nil, errors.New("calorie target must be positive")
	}
	mealsPerDay := targets.MealsPerDay
	if mealsPerDay < 1 {
		mealsPerDay = 3
	}
	mealTypes := []domain.MealType{domain.MealBreakfast, domain.MealLunch, domain.MealDinner}
	if mealsPerDay == 4 {
		mealTypes = append(mealTypes, domain.MealSnack)
	}

	pool := p.filter(targets)
	plan := make([]domain.PlanDay, 0, days)
	pointer := 0
	for offset := 0; offset < days; offset++ {
		meals := make([]domain.Meal, 0, mealsPerDay)
		for idx := 0; idx < mealsPerDay; idx++ {
			recipe := pool[pointer%len(pool)]
			meals = append(meals, planMeal(recipe, mealTypes[idx%len(mealTypes)]))
			pointer++
		}
		day := domain.PlanDay{Date: start.AddDate(0, 0, offset), Meals: meals}
		target := float64(targets.Calories)
		if totals := day.Totals(); totals.Calories < target*(1-p.tolerance) {
			scale := nutrition.ClampCalories(target) / math.Max(totals.Calories, 1)
			day.Meals = scaleMeals(meals, scale)
		}
		plan = append(plan, day)
	}
	return plan, nil
}

// filter keeps recipes matching the diet tags and free of excluded
// ingredients, falling back to the full corpus when nothing survives.
func (p *Planner) filter(targets domain.MacroTargets) []domain.Recipe {
	var filtered []domain.Recipe
	for _, recipe := range p.recipes {
		if len(targets.DietTags) > 0 && !matchesAnyTag(recipe.Tags, targets.DietTags) {
			continue
		}
		if hitsExclusion(recipe.Ingredients, targets.Exclusions) {
			continue
		}
		filtered = append(filtered, recipe)
	}
	if len(filtered) == 0 {
		return p.recipes
	}
	return filtered
}

func matchesAnyTag(tags, wanted []string) bool {
	for _, want := range wanted {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), want) {
				return true
			}
		}
	}
	return false
}

func hitsExclusion(ingredients, exclusions []string) bool {
	for _, exclusion := range exclusions {
		exclusion = strings.ToLower(strings.TrimSpace(exclusion))
		if exclusion == "" {
			continue
		}
		for _, ingredient := range ingredients {
			if strings.Contains(strings.ToLower(ingredient), exclusion) {
				return true
			}
		}
	}
	return false
}

func planMeal(recipe domain.Recipe, mealType domain.MealType) domain.Meal {
	item := domain.MealItem{
		Name:     recipe.Title,
		Quantity: 1,
		Unit:     "serving",
		Calories: recipe.Calories,
		ProteinG: recipe.ProteinG,
		CarbG:    recipe.CarbG,
		FatG:     recipe.FatG,
	}
	return domain.Meal{
		Name:  recipe.Title,
		Type:  mealType,
		Items: []domain.MealItem{item},
		Notes: strings.Join(recipe.Tags, ";"),
	}
}

func scaleMeals(meals []domain.Meal, scale float64) []domain.Meal {
	scaled := make([]domain.Meal, 0, len(meals))
	for _, meal := range meals {
		items := make([]domain.MealItem, 0, len(meal.Items))
		for _, item := range meal.Items {
			items = append(items, domain.MealItem{
				Name:      item.Name,
				Quantity:  item.Quantity * scale,
				Unit:      item.Unit,
				Calories:  item.Calories * scale,
				ProteinG:  item.ProteinG * scale,
				CarbG:     item.CarbG * scale,
				FatG:      item.FatG * scale,
				Estimated: true,
			})
		}
		scaled = append(scaled, domain.Meal{Name: meal.Name, Type: meal.Type, Items: items, Notes: meal.Notes})
	}
	return scaled
}
