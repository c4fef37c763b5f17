package nutrition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupExactMatch(t *testing.T) {
	ref := Builtin()
	name, macros, err := ref.Lookup("Greek Yogurt")
	require.NoError(t, err)
	assert.Equal(t, "greek yogurt", name)
	assert.Equal(t, 59.0, macros.Calories)
	assert.Equal(t, 10.0, macros.ProteinG)
}

func TestLookupSubstringMatch(t *testing.T) {
	ref := Builtin()
	name, _, err := ref.Lookup("yogur")
	require.NoError(t, err)
	assert.Equal(t, "greek yogurt", name)
}

func TestLookupQualifiedName(t *testing.T) {
	ref := Builtin()
	name, macros, err := ref.Lookup("firm tofu")
	require.NoError(t, err)
	assert.Equal(t, "tofu", name)
	assert.Equal(t, 76.0, macros.Calories)

	name, _, err = ref.Lookup("red lentils")
	require.NoError(t, err)
	assert.Equal(t, "lentils", name)
}

func TestLookupPluralFallsBackToSingular(t *testing.T) {
	ref := Builtin()
	name, _, err := ref.Lookup("eggs")
	require.NoError(t, err)
	assert.Equal(t, "egg", name)
}

func TestLookupUnknownFood(t *testing.T) {
	ref := Builtin()
	_, _, err := ref.Lookup("plutonium")
	require.ErrorIs(t, err, ErrUnknownFood)
	_, _, err = ref.Lookup("   ")
	require.ErrorIs(t, err, ErrUnknownFood)
}

func TestLoadReferenceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.json")
	payload := `{"Dragonfruit": {"calories": 60, "protein_g": 1.2, "carb_g": 13, "fat_g": 0.4}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	ref, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ref.Len())
	name, macros, err := ref.Lookup("dragonfruit")
	require.NoError(t, err)
	assert.Equal(t, "dragonfruit", name)
	assert.Equal(t, 60.0, macros.Calories)
}

func TestLoadEmptyPathUsesBuiltin(t *testing.T) {
	ref, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, ref.Len(), 50)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestGramsConversion(t *testing.T) {
	grams, ok := Grams(2, "cup")
	assert.True(t, ok)
	assert.Equal(t, 480.0, grams)

	grams, ok = Grams(1, "oz")
	assert.True(t, ok)
	assert.InDelta(t, 28.3495, grams, 1e-9)

	grams, ok = Grams(3, "serving")
	assert.False(t, ok)
	assert.Equal(t, 3.0, grams)
}

func TestClampCalories(t *testing.T) {
	assert.Equal(t, 1200.0, ClampCalories(900))
	assert.Equal(t, 2000.0, ClampCalories(2000))
}

func TestParseDescriptionMixedUnits(t *testing.T) {
	ref := Builtin()
	items, err := ParseDescription(ref, "1 cup greek yogurt and 1 banana")
	require.NoError(t, err)
	require.Len(t, items, 2)

	yogurt := items[0]
	assert.Equal(t, "Greek Yogurt", yogurt.Name)
	assert.Equal(t, 1.0, yogurt.Quantity)
	assert.Equal(t, "cup", yogurt.Unit)
	assert.InDelta(t, 59.0*2.4, yogurt.Calories, 1e-9)
	assert.False(t, yogurt.Estimated)

	banana := items[1]
	assert.Equal(t, "Banana", banana.Name)
	assert.Equal(t, "serving", banana.Unit)
	assert.InDelta(t, 89.0, banana.Calories, 1e-9)
	assert.True(t, banana.Estimated)
}

func TestParseDescriptionGramQuantities(t *testing.T) {
	ref := Builtin()
	items, err := ParseDescription(ref, "150 g chicken breast with 200 grams white rice")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Chicken Breast", items[0].Name)
	assert.InDelta(t, 165.0*1.5, items[0].Calories, 1e-9)
	assert.InDelta(t, 31.0*1.5, items[0].ProteinG, 1e-9)
	assert.False(t, items[0].Estimated)

	assert.Equal(t, "White Rice", items[1].Name)
	assert.Equal(t, "gram", items[1].Unit)
	assert.InDelta(t, 130.0*2, items[1].Calories, 1e-9)
}

func TestParseDescriptionUnknownFoodFails(t *testing.T) {
	ref := Builtin()
	_, err := ParseDescription(ref, "2 scoops stardust")
	require.ErrorIs(t, err, ErrUnknownFood)
}

func TestParseDescriptionNothingParsable(t *testing.T) {
	ref := Builtin()
	_, err := ParseDescription(ref, "12 34")
	require.Error(t, err)
	_, err = ParseDescription(ref, "")
	require.Error(t, err)
}

func TestEstimateIngredientGrams(t *testing.T) {
	ref := Builtin()
	estimates, err := EstimateIngredientGrams(ref, []string{"firm tofu", "soy sauce", "mirin", "broccoli"}, 420, 2)
	require.NoError(t, err)
	require.Len(t, estimates, 3)

	tofu := estimates[0]
	assert.Equal(t, "Tofu", tofu.Ingredient)
	assert.InDelta(t, 140.0, tofu.CaloriesPerServing, 0.05)
	// 140 kcal at 0.76 kcal/g is roughly 184 g.
	assert.InDelta(t, 184.2, tofu.GramsPerServing, 0.1)
	assert.InDelta(t, tofu.GramsPerServing*2, tofu.GramsTotal, 0.2)
}

func TestEstimateIngredientGramsNoMatches(t *testing.T) {
	ref := Builtin()
	_, err := EstimateIngredientGrams(ref, []string{"mirin", "dashi"}, 300, 1)
	require.Error(t, err)
}

func TestEstimateIngredientGramsClampsInputs(t *testing.T) {
	ref := Builtin()
	estimates, err := EstimateIngredientGrams(ref, []string{"banana"}, -50, 0)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.InDelta(t, 1.0, estimates[0].CaloriesPerServing, 1e-9)
	assert.InDelta(t, estimates[0].GramsPerServing, estimates[0].GramsTotal, 1e-9)
}
