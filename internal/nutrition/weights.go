package nutrition

import (
	"errors"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IngredientEstimate approximates how much of one ingredient a single
// serving of a recipe uses.
type IngredientEstimate struct {
	Ingredient         string  `json:"ingredient"`
	GramsPerServing    float64 `json:"grams_per_serving"`
	GramsTotal         float64 `json:"grams_total"`
	CaloriesPerServing float64 `json:"calories_per_serving"`
	ProteinPerServing  float64 `json:"protein_per_serving"`
	CarbPerServing     float64 `json:"carb_per_serving"`
	FatPerServing      float64 `json:"fat_per_serving"`
}

// EstimateIngredientGrams distributes a recipe's per-serving calories
// evenly across the ingredients found in the reference and converts each
// share to grams via the ingredient's calorie density. Unmatched
// ingredients are skipped.
func EstimateIngredientGrams(ref *Reference, ingredients []string, caloriesPerServing float64, servings int) ([]IngredientEstimate, error) {
	title := cases.Title(language.English)
	type match struct {
		name   string
		macros FoodMacros
	}
	var matches []match
	for _, ingredient := range ingredients {
		canonical, macros, err := ref.Lookup(ingredient)
		if err != nil {
			continue
		}
		matches = append(matches, match{name: canonical, macros: macros})
	}
	if len(matches) == 0 {
		return nil, errors.New("no ingredients matched the nutrition reference")
	}
	if servings < 1 {
		servings = 1
	}
	caloriesPerServing = math.Max(1, caloriesPerServing)
	share := caloriesPerServing / float64(len(matches))

	estimates := make([]IngredientEstimate, 0, len(matches))
	for _, m := range matches {
		var grams float64
		if m.macros.Calories > 0 {
			grams = share / (m.macros.Calories / 100)
		}
		estimates = append(estimates, IngredientEstimate{
			Ingredient:         title.String(m.name),
			GramsPerServing:    round1(grams),
			GramsTotal:         round1(grams * float64(servings)),
			CaloriesPerServing: round1(share),
			ProteinPerServing:  round1(m.macros.ProteinG / 100 * grams),
			CarbPerServing:     round1(m.macros.CarbG / 100 * grams),
			FatPerServing:      round1(m.macros.FatG / 100 * grams),
		})
	}
	return estimates, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
