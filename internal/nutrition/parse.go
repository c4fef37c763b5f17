package nutrition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
)

// connectorRe splits descriptions like "oats with milk and banana" into
// separate item phrases.
var connectorRe = regexp.MustCompile(`\b(?:with|and)\b`)

// measurementUnits are the units recognized inside a free-text item.
var measurementUnits = map[string]bool{
	"g":     true,
	"gram":  true,
	"grams": true,
	"ml":    true,
	"cup":   true,
	"cups":  true,
	"tbsp":  true,
	"tsp":   true,
	"oz":    true,
}

// ParseDescription turns a free-text meal description into macro-scored
// items. Gram-convertible quantities are scored against the per-100g
// reference; everything else counts as whole servings and is flagged
// estimated.
func ParseDescription(ref *Reference, description string) ([]domain.MealItem, error) {
	title := cases.Title(language.English)
	var items []domain.MealItem
	for _, part := range strings.Split(connectorRe.ReplaceAllString(description, ","), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		quantity := 1.0
		unit := "serving"
		var nameTokens []string
		for _, token := range strings.Fields(part) {
			if v, err := strconv.ParseFloat(token, 64); err == nil {
				quantity = v
				continue
			}
			lower := strings.ToLower(token)
			if measurementUnits[lower] {
				unit = strings.TrimRight(lower, "s")
				continue
			}
			nameTokens = append(nameTokens, lower)
		}
		if len(nameTokens) == 0 {
			continue
		}
		canonical, macros, err := ref.Lookup(strings.Join(nameTokens, " "))
		if err != nil {
			return nil, err
		}
		grams, inGrams := Grams(quantity, unit)
		factor := quantity
		if inGrams {
			factor = grams / 100
		}
		items = append(items, domain.MealItem{
			Name:      title.String(canonical),
			Quantity:  quantity,
			Unit:      unit,
			Calories:  macros.Calories * factor,
			ProteinG:  macros.ProteinG * factor,
			CarbG:     macros.CarbG * factor,
			FatG:      macros.FatG * factor,
			Estimated: !inGrams,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no recognizable meal items in %q", description)
	}
	return items, nil
}
