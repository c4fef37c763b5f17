package nutrition

import (
	"math"
	"strings"
)

// minDailyCalories is the floor below which plans are never scaled.
const minDailyCalories = 1200

// gramEquivalents maps measurement units to grams (volume units assume
// water-like density).
var gramEquivalents = map[string]float64{
	"g":     1,
	"gram":  1,
	"grams": 1,
	"kg":    1000,
	"mg":    0.001,
	"lb":    453.592,
	"oz":    28.3495,
	"ml":    1,
	"l":     1000,
	"cup":   240,
	"tbsp":  15,
	"tsp":   5,
	"piece": 1,
	"pcs":   1,
	"unit":  1,
}

// Grams converts a quantity to grams when the unit has a known
// equivalent. The second return reports whether a conversion applied.
func Grams(quantity float64, unit string) (float64, bool) {
	if factor, ok := gramEquivalents[strings.ToLower(unit)]; ok {
		return quantity * factor, true
	}
	return quantity, false
}

// ClampCalories keeps a daily calorie target above the safe minimum.
func ClampCalories(calories float64) float64 {
	return math.Max(calories, minDailyCalories)
}
