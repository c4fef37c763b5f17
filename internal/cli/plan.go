package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/planner"
)

var (
	flagPlanDays     int
	flagPlanCalories int
	flagPlanProtein  int
	flagPlanCarbs    int
	flagPlanFat      int
	flagPlanMeals    int
	flagPlanTags     []string
	flagPlanExclude  []string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a meal plan from the recipe corpus",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().IntVar(&flagPlanDays, "days", 7, "days to plan")
	planCmd.Flags().IntVar(&flagPlanCalories, "calories", 2000, "daily calorie target")
	planCmd.Flags().IntVar(&flagPlanProtein, "protein", 140, "daily protein target (g)")
	planCmd.Flags().IntVar(&flagPlanCarbs, "carbs", 220, "daily carb target (g)")
	planCmd.Flags().IntVar(&flagPlanFat, "fat", 60, "daily fat target (g)")
	planCmd.Flags().IntVar(&flagPlanMeals, "meals", 0, "meals per day (default from config)")
	planCmd.Flags().StringSliceVar(&flagPlanTags, "tags", nil, "only use recipes matching these diet tags")
	planCmd.Flags().StringSliceVar(&flagPlanExclude, "exclude", nil, "skip recipes containing these ingredients")
	rootCmd.AddCommand(planCmd)
}

func planTargets(a *app) domain.MacroTargets {
	meals := flagPlanMeals
	if meals < 1 {
		meals = a.cfg.Planner.MealsPerDay
	}
	return domain.MacroTargets{
		Calories:    flagPlanCalories,
		ProteinG:    flagPlanProtein,
		CarbG:       flagPlanCarbs,
		FatG:        flagPlanFat,
		MealsPerDay: meals,
		DietTags:    flagPlanTags,
		Exclusions:  flagPlanExclude,
	}
}

func generatePlan(a *app, days int) ([]domain.PlanDay, error) {
	recipes, err := a.loader().Load()
	if err != nil {
		return nil, fmt.Errorf("load recipe corpus: %w", err)
	}
	p := planner.New(recipes, a.cfg.Planner.Tolerance)
	return p.Generate(planTargets(a), days, time.Now())
}

func runPlan(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	plan, err := generatePlan(a, flagPlanDays)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, day := range plan {
		totals := day.Totals()
		fmt.Fprintf(w, "%s\t%.0f kcal\t%.0fg protein\t%.0fg carbs\t%.0fg fat\n",
			day.Date.Format("Mon Jan 2"), totals.Calories, totals.ProteinG, totals.CarbG, totals.FatG)
		for _, meal := range day.Meals {
			scaled := ""
			if len(meal.Items) > 0 && meal.Items[0].Estimated {
				scaled = fmt.Sprintf(" (x%.2f portions)", meal.Items[0].Quantity)
			}
			fmt.Fprintf(w, "  %s\t%s%s\n", meal.Type, meal.Name, scaled)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
