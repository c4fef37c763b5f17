package domain

// Recipe is a normalized recipe record loaded from the corpus.
// Records are immutable after load and re-created wholesale on rebuild.
type Recipe struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Tags        []string `json:"tags"`
	Servings    int      `json:"servings"`
	Calories    float64  `json:"calories"`
	ProteinG    float64  `json:"protein_g"`
	CarbG       float64  `json:"carb_g"`
	FatG        float64  `json:"fat_g"`

	// SearchText is the derived concatenation of title, ingredients,
	// steps and tags used as embedding input.
	SearchText string `json:"search_text"`
}

// BaseServings returns the recipe's serving count, never less than 1.
func (r Recipe) BaseServings() int {
	if r.Servings < 1 {
		return 1
	}
	return r.Servings
}

// RecipeResult pairs a retrieved recipe with its similarity score.
type RecipeResult struct {
	Recipe Recipe
	Score  float64
}
