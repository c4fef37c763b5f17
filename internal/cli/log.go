package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/journal"
	"github.com/TaniaZeidan/NutriTrackAI/internal/nutrition"
)

var (
	flagLogType string
	flagLogDate string
)

var logCmd = &cobra.Command{
	Use:   "log <description>",
	Short: "Log a meal from a free-text description",
	Long: `Log parses a description like "1 cup greek yogurt and 1 banana",
scores it against the nutrition reference, and records it in the meal
journal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&flagLogType, "type", "snack", "meal type: breakfast, lunch, dinner, or snack")
	logCmd.Flags().StringVar(&flagLogDate, "date", "", "day to log the meal on (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(logCmd)
}

func parseMealType(s string) (domain.MealType, error) {
	switch t := domain.MealType(strings.ToLower(s)); t {
	case domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnack:
		return t, nil
	default:
		return "", fmt.Errorf("unknown meal type %q", s)
	}
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	mealType, err := parseMealType(flagLogType)
	if err != nil {
		return err
	}
	day, err := parseDay(flagLogDate)
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}

	ref, err := nutrition.Load(a.cfg.Nutrition.Path)
	if err != nil {
		return err
	}
	description := strings.Join(args, " ")
	items, err := nutrition.ParseDescription(ref, description)
	if err != nil {
		return err
	}

	j, err := journal.Open(a.cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	meal := domain.Meal{Name: description, Type: mealType, Items: items}
	id, err := j.LogMeal(cmd.Context(), day, meal)
	if err != nil {
		return fmt.Errorf("log meal: %w", err)
	}

	totals := meal.Totals()
	fmt.Printf("Logged %s #%d on %s:\n", mealType, id, day.Format("2006-01-02"))
	for _, item := range items {
		marker := ""
		if item.Estimated {
			marker = " (estimated)"
		}
		fmt.Printf("  - %s: %.0f kcal%s\n", item.Name, item.Calories, marker)
	}
	fmt.Printf("Meal total: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		totals.Calories, totals.ProteinG, totals.CarbG, totals.FatG)

	daily, err := j.DailyTotals(cmd.Context(), day)
	if err != nil {
		return err
	}
	fmt.Printf("Day so far: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		daily.Calories, daily.ProteinG, daily.CarbG, daily.FatG)
	return nil
}
