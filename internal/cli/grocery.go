package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TaniaZeidan/NutriTrackAI/internal/grocery"
)

var flagGroceryOut string

var groceryCmd = &cobra.Command{
	Use:   "grocery",
	Short: "Build a grocery list for a generated meal plan",
	Args:  cobra.NoArgs,
	RunE:  runGrocery,
}

func init() {
	groceryCmd.Flags().IntVar(&flagPlanDays, "days", 7, "days to plan")
	groceryCmd.Flags().IntVar(&flagPlanCalories, "calories", 2000, "daily calorie target")
	groceryCmd.Flags().IntVar(&flagPlanMeals, "meals", 0, "meals per day (default from config)")
	groceryCmd.Flags().StringSliceVar(&flagPlanTags, "tags", nil, "only use recipes matching these diet tags")
	groceryCmd.Flags().StringSliceVar(&flagPlanExclude, "exclude", nil, "skip recipes containing these ingredients")
	groceryCmd.Flags().StringVar(&flagGroceryOut, "out", "", "write the list as CSV to this file instead of stdout")
	rootCmd.AddCommand(groceryCmd)
}

func runGrocery(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	plan, err := generatePlan(a, flagPlanDays)
	if err != nil {
		return err
	}

	items := grocery.BuildList(plan)
	csv := grocery.ExportCSV(items)
	if flagGroceryOut != "" {
		if err := os.WriteFile(flagGroceryOut, []byte(csv), 0o644); err != nil {
			return fmt.Errorf("write grocery list: %w", err)
		}
		fmt.Printf("Wrote %d items to %s\n", len(items), flagGroceryOut)
		return nil
	}
	fmt.Print(csv)
	return nil
}
