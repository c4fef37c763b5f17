// Package grocery aggregates meal plans into categorized shopping lists.
package grocery

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/nutrition"
)

// categoryKeywords maps ingredient keywords to store aisles. First
// match wins.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"spinach", "Produce"},
	{"kale", "Produce"},
	{"broccoli", "Produce"},
	{"chicken", "Protein"},
	{"beef", "Protein"},
	{"salmon", "Protein"},
	{"tofu", "Protein"},
	{"egg", "Protein"},
	{"yogurt", "Dairy"},
	{"milk", "Dairy"},
	{"cheese", "Dairy"},
	{"rice", "Pantry"},
	{"quinoa", "Pantry"},
	{"pasta", "Pantry"},
	{"beans", "Pantry"},
}

// Categorize assigns a grocery aisle to an item name.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range categoryKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.category
		}
	}
	return "Other"
}

// BuildList aggregates every item in a plan into one line per food and
// unit, converting measurable units to grams first.
func BuildList(plan []domain.PlanDay) []domain.GroceryItem {
	type key struct{ name, unit string }
	totals := make(map[key]float64)
	for _, day := range plan {
		for _, meal := range day.Meals {
			for _, item := range meal.Items {
				qty, unit := item.Quantity, item.Unit
				if grams, ok := nutrition.Grams(qty, unit); ok {
					qty, unit = grams, "g"
				}
				totals[key{name: strings.ToLower(item.Name), unit: unit}] += qty
			}
		}
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].unit < keys[j].unit
	})

	title := cases.Title(language.English)
	items := make([]domain.GroceryItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, domain.GroceryItem{
			Category: Categorize(k.name),
			Name:     title.String(k.name),
			Quantity: totals[k],
			Unit:     k.unit,
		})
	}
	return items
}

// ExportCSV renders a grocery list as CSV with a header row.
func ExportCSV(items []domain.GroceryItem) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"category", "name", "quantity", "unit"})
	for _, item := range items {
		_ = w.Write([]string{item.Category, item.Name, fmt.Sprintf("%.2f", item.Quantity), item.Unit})
	}
	w.Flush()
	return buf.String()
}
