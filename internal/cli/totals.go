package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TaniaZeidan/NutriTrackAI/internal/journal"
)

var flagTotalsDate string

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show logged daily and weekly macro totals",
	Args:  cobra.NoArgs,
	RunE:  runTotals,
}

func init() {
	totalsCmd.Flags().StringVar(&flagTotalsDate, "date", "", "day to summarize (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(totalsCmd)
}

func runTotals(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	day, err := parseDay(flagTotalsDate)
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}

	j, err := journal.Open(a.cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	meals, err := j.MealsForDay(cmd.Context(), day)
	if err != nil {
		return err
	}
	fmt.Printf("Meals on %s:\n", day.Format("2006-01-02"))
	if len(meals) == 0 {
		fmt.Println("  (nothing logged)")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  TYPE\tMEAL\tKCAL\tPROTEIN\tCARBS\tFAT")
		for _, m := range meals {
			fmt.Fprintf(w, "  %s\t%s\t%.0f\t%.1fg\t%.1fg\t%.1fg\n",
				m.Type, m.Name, m.Totals.Calories, m.Totals.ProteinG, m.Totals.CarbG, m.Totals.FatG)
		}
		w.Flush()
	}

	daily, err := j.DailyTotals(cmd.Context(), day)
	if err != nil {
		return err
	}
	fmt.Printf("Day total: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		daily.Calories, daily.ProteinG, daily.CarbG, daily.FatG)

	weekly, err := j.WeeklySummary(cmd.Context(), day)
	if err != nil {
		return err
	}
	fmt.Printf("Last 7 days: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat (avg %.0f kcal/day)\n",
		weekly.Calories, weekly.ProteinG, weekly.CarbG, weekly.FatG, weekly.Calories/7)
	return nil
}
