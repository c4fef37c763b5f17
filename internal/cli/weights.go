package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TaniaZeidan/NutriTrackAI/internal/nutrition"
)

var weightsCmd = &cobra.Command{
	Use:   "weights <recipe>",
	Short: "Estimate per-ingredient gram weights for a recipe",
	Long: `Weights distributes a recipe's per-serving calories across the
ingredients found in the nutrition reference and converts each share to
grams. Ingredients the reference does not know are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWeights,
}

func init() {
	rootCmd.AddCommand(weightsCmd)
}

func runWeights(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	guide, _, err := a.guide()
	if err != nil {
		return err
	}
	recipe, err := guide.Find(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	ref, err := nutrition.Load(a.cfg.Nutrition.Path)
	if err != nil {
		return err
	}

	estimates, err := nutrition.EstimateIngredientGrams(ref, recipe.Ingredients, recipe.Calories, recipe.BaseServings())
	if err != nil {
		return fmt.Errorf("estimate %q: %w", recipe.Title, err)
	}

	fmt.Printf("%s (%.0f kcal per serving, serves %d)\n", recipe.Title, recipe.Calories, recipe.BaseServings())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INGREDIENT\tG/SERVING\tG TOTAL\tKCAL\tPROTEIN\tCARBS\tFAT")
	for _, e := range estimates {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1fg\t%.1fg\t%.1fg\n",
			e.Ingredient, e.GramsPerServing, e.GramsTotal,
			e.CaloriesPerServing, e.ProteinPerServing, e.CarbPerServing, e.FatPerServing)
	}
	w.Flush()
	if len(estimates) < len(recipe.Ingredients) {
		fmt.Printf("Skipped %d ingredient(s) missing from the nutrition reference.\n",
			len(recipe.Ingredients)-len(estimates))
	}
	return nil
}
