package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var flagCookServings int

var cookCmd = &cobra.Command{
	Use:   "cook <recipe>",
	Short: "Walk through a recipe step by step",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCook,
}

func init() {
	cookCmd.Flags().IntVar(&flagCookServings, "servings", 0, "servings to cook (default the recipe's own)")
	rootCmd.AddCommand(cookCmd)
}

func runCook(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	guide, _, err := a.guide()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	servings := flagCookServings
	if servings < 1 {
		recipe, err := guide.Find(cmd.Context(), query)
		if err != nil {
			return err
		}
		servings = recipe.BaseServings()
	}
	ct, err := guide.CookThrough(cmd.Context(), query, servings)
	if err != nil {
		return err
	}

	total := 0
	for _, step := range ct.Steps {
		total += step.Minutes
	}
	fmt.Printf("%s (serves %d, about %d minutes)\n", ct.Recipe.Title, servings, total)
	if len(ct.Recipe.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(ct.Recipe.Tags, ", "))
	}

	fmt.Println("\nIngredients:")
	for _, item := range ct.Meal.Items {
		fmt.Printf("  - %s (%.1f servings)\n", item.Name, item.Quantity)
	}

	fmt.Println("\nSteps:")
	for _, step := range ct.Steps {
		fmt.Printf("  %d. %s (%d min)\n", step.Index, step.Instruction, step.Minutes)
	}
	if len(ct.Steps) > 0 && len(ct.Steps[0].Tips) > 0 {
		fmt.Printf("\nTip: %s\n", ct.Steps[0].Tips[0])
	}

	fmt.Printf("\nPer serving: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		ct.Recipe.Calories, ct.Recipe.ProteinG, ct.Recipe.CarbG, ct.Recipe.FatG)
	return nil
}
