// Package nutrition provides per-100g macro reference data and the
// free-text meal parsing built on top of it.
package nutrition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrUnknownFood is returned when a food name matches nothing in the reference.
var ErrUnknownFood = errors.New("unknown food item")

// FoodMacros holds macro nutrients per 100 g of a food.
type FoodMacros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

// Reference maps lowercase food names to their per-100g macros.
type Reference struct {
	foods map[string]FoodMacros
	names []string
}

// Builtin returns the compiled-in nutrition reference.
func Builtin() *Reference {
	return newReference(builtinFoods)
}

// Load reads a JSON reference file keyed by food name. An empty path
// falls back to the builtin table.
func Load(path string) (*Reference, error) {
	if path == "" {
		return Builtin(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read nutrition reference: %w", err)
	}
	var foods map[string]FoodMacros
	if err := json.Unmarshal(raw, &foods); err != nil {
		return nil, fmt.Errorf("parse nutrition reference %s: %w", path, err)
	}
	if len(foods) == 0 {
		return nil, fmt.Errorf("nutrition reference %s has no foods", path)
	}
	return newReference(foods), nil
}

func newReference(foods map[string]FoodMacros) *Reference {
	r := &Reference{foods: make(map[string]FoodMacros, len(foods))}
	for name, macros := range foods {
		r.foods[strings.ToLower(name)] = macros
	}
	r.names = make([]string, 0, len(r.foods))
	for name := range r.foods {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Lookup resolves a food name to its canonical reference entry. Exact
// matches win; otherwise the first alphabetical entry containing the
// name as a substring is used.
func (r *Reference) Lookup(name string) (string, FoodMacros, error) {
	token := strings.ToLower(strings.TrimSpace(name))
	if token == "" {
		return "", FoodMacros{}, fmt.Errorf("%w: empty name", ErrUnknownFood)
	}
	if macros, ok := r.foods[token]; ok {
		return token, macros, nil
	}
	for _, candidate := range r.names {
		if strings.Contains(candidate, token) {
			return candidate, r.foods[candidate], nil
		}
	}
	// Qualified names like "firm tofu" should still find "tofu".
	best := ""
	for _, candidate := range r.names {
		if containsWord(token, candidate) && len(candidate) > len(best) {
			best = candidate
		}
	}
	if best != "" {
		return best, r.foods[best], nil
	}
	if strings.HasSuffix(token, "s") {
		if canonical, macros, err := r.Lookup(strings.TrimSuffix(token, "s")); err == nil {
			return canonical, macros, nil
		}
	}
	return "", FoodMacros{}, fmt.Errorf("%w: %q", ErrUnknownFood, name)
}

func containsWord(text, word string) bool {
	return strings.Contains(" "+text+" ", " "+word+" ")
}

// Foods lists all reference food names in alphabetical order.
func (r *Reference) Foods() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len reports the number of foods in the reference.
func (r *Reference) Len() int { return len(r.foods) }

// builtinFoods approximates USDA per-100g values for common whole foods.
var builtinFoods = map[string]FoodMacros{
	"almonds":        {579, 21.2, 21.6, 49.9},
	"apple":          {52, 0.3, 13.8, 0.2},
	"avocado":        {160, 2, 8.5, 14.7},
	"banana":         {89, 1.1, 22.8, 0.3},
	"beef":           {250, 26, 0, 15},
	"bell pepper":    {31, 1, 6, 0.3},
	"black beans":    {132, 8.9, 23.7, 0.5},
	"blueberries":    {57, 0.7, 14.5, 0.3},
	"bread":          {265, 9, 49, 3.2},
	"broccoli":       {34, 2.8, 6.6, 0.4},
	"brown rice":     {112, 2.6, 23.5, 0.9},
	"butter":         {717, 0.9, 0.1, 81},
	"carrot":         {41, 0.9, 9.6, 0.2},
	"cauliflower":    {25, 1.9, 5, 0.3},
	"cheddar cheese": {403, 24.9, 1.3, 33.1},
	"chia seeds":     {486, 16.5, 42.1, 30.7},
	"chicken breast": {165, 31, 0, 3.6},
	"chickpeas":      {164, 8.9, 27.4, 2.6},
	"corn":           {86, 3.3, 18.7, 1.4},
	"cottage cheese": {98, 11.1, 3.4, 4.3},
	"couscous":       {112, 3.8, 23.2, 0.2},
	"cucumber":       {15, 0.7, 3.6, 0.1},
	"cumin":          {375, 17.8, 44.2, 22.3},
	"egg":            {155, 13, 1.1, 11},
	"feta cheese":    {264, 14.2, 4.1, 21.3},
	"garlic":         {149, 6.4, 33.1, 0.5},
	"ginger":         {80, 1.8, 17.8, 0.8},
	"granola":        {471, 10, 64, 20},
	"greek yogurt":   {59, 10, 3.6, 0.4},
	"green beans":    {31, 1.8, 7, 0.2},
	"honey":          {304, 0.3, 82.4, 0},
	"hummus":         {166, 7.9, 14.3, 9.6},
	"kale":           {49, 4.3, 8.8, 0.9},
	"lentils":        {116, 9, 20.1, 0.4},
	"mango":          {60, 0.8, 15, 0.4},
	"milk":           {61, 3.2, 4.8, 3.3},
	"mushroom":       {22, 3.1, 3.3, 0.3},
	"oats":           {389, 16.9, 66.3, 6.9},
	"olive oil":      {884, 0, 0, 100},
	"onion":          {40, 1.1, 9.3, 0.1},
	"orange":         {47, 0.9, 11.8, 0.1},
	"pasta":          {131, 5, 25, 1.1},
	"peanut butter":  {588, 25, 20, 50},
	"peas":           {81, 5.4, 14.5, 0.4},
	"potato":         {77, 2, 17.5, 0.1},
	"protein powder": {375, 75, 12.5, 6.3},
	"quinoa":         {120, 4.4, 21.3, 1.9},
	"salmon":         {208, 20, 0, 13},
	"shrimp":         {99, 24, 0.2, 0.3},
	"soy sauce":      {53, 8.1, 4.9, 0.6},
	"spinach":        {23, 2.9, 3.6, 0.4},
	"strawberries":   {32, 0.7, 7.7, 0.3},
	"sweet potato":   {86, 1.6, 20.1, 0.1},
	"tempeh":         {193, 19, 9.4, 10.8},
	"tofu":           {76, 8, 1.9, 4.8},
	"tomato":         {18, 0.9, 3.9, 0.2},
	"tuna":           {132, 28, 0, 1.3},
	"turkey breast":  {135, 30, 0, 1},
	"walnuts":        {654, 15.2, 13.7, 65.2},
	"white rice":     {130, 2.7, 28.2, 0.3},
	"yogurt":         {61, 3.5, 4.7, 3.3},
	"zucchini":       {17, 1.2, 3.1, 0.3},
}
