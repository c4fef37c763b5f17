package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagSearchK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find recipes semantically matching a description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&flagSearchK, "top", "k", 0, "number of results (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	k := flagSearchK
	if k < 1 {
		k = a.cfg.Retrieval.TopK
	}
	query := strings.Join(args, " ")

	results, err := a.retrieval().Retrieve(cmd.Context(), query, k)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No recipes match %q\n", query)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tRECIPE\tKCAL\tPROTEIN\tTAGS")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%.0f\t%.0fg\t%s\n",
			i+1, r.Score, r.Recipe.Title, r.Recipe.Calories, r.Recipe.ProteinG,
			strings.Join(r.Recipe.Tags, ","))
	}
	return w.Flush()
}
