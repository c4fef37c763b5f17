package domain

import (
	"math"
	"time"
)

// MealType labels a logged or planned meal.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealItem is a single food with its resolved macros.
type MealItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Calories  float64 `json:"calories"`
	ProteinG  float64 `json:"protein_g"`
	CarbG     float64 `json:"carb_g"`
	FatG      float64 `json:"fat_g"`
	Estimated bool    `json:"estimated"`
}

// MacroTotals aggregates calories and macronutrients, rounded to two
// decimal places.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

// Add returns the element-wise sum of two totals.
func (t MacroTotals) Add(o MacroTotals) MacroTotals {
	return MacroTotals{
		Calories: t.Calories + o.Calories,
		ProteinG: t.ProteinG + o.ProteinG,
		CarbG:    t.CarbG + o.CarbG,
		FatG:     t.FatG + o.FatG,
	}
}

// Round returns the totals rounded to two decimal places.
func (t MacroTotals) Round() MacroTotals {
	return MacroTotals{
		Calories: round2(t.Calories),
		ProteinG: round2(t.ProteinG),
		CarbG:    round2(t.CarbG),
		FatG:     round2(t.FatG),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Meal is a set of items eaten or planned together.
type Meal struct {
	Name  string     `json:"name"`
	Type  MealType   `json:"type"`
	Items []MealItem `json:"items"`
	Notes string     `json:"notes,omitempty"`
}

// Totals sums the macros of every item in the meal.
func (m Meal) Totals() MacroTotals {
	var t MacroTotals
	for _, it := range m.Items {
		t = t.Add(MacroTotals{
			Calories: it.Calories,
			ProteinG: it.ProteinG,
			CarbG:    it.CarbG,
			FatG:     it.FatG,
		})
	}
	return t.Round()
}

// PlanDay is one day of a generated meal plan.
type PlanDay struct {
	Date  time.Time `json:"date"`
	Meals []Meal    `json:"meals"`
}

// Totals sums the macros of every meal in the day.
func (d PlanDay) Totals() MacroTotals {
	var t MacroTotals
	for _, m := range d.Meals {
		t = t.Add(m.Totals())
	}
	return t.Round()
}

// MacroTargets constrains meal-plan generation.
type MacroTargets struct {
	Calories    int      `json:"calories"`
	ProteinG    int      `json:"protein_g"`
	CarbG       int      `json:"carb_g"`
	FatG        int      `json:"fat_g"`
	MealsPerDay int      `json:"meals_per_day"`
	DietTags    []string `json:"diet_tags,omitempty"`
	Exclusions  []string `json:"exclusions,omitempty"`
}

// GroceryItem is one aggregated line of a shopping list.
type GroceryItem struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// CookStep is a single numbered instruction of a guided cook-through.
type CookStep struct {
	Index         int      `json:"index"`
	Instruction   string   `json:"instruction"`
	Minutes       int      `json:"minutes"`
	Tips          []string `json:"tips,omitempty"`
	Substitutions []string `json:"substitutions,omitempty"`
}
