package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flagIndexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the recipe search index",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagIndexForce, "force", false, "rebuild even if the index matches the corpus")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	svc := a.retrieval()
	res, err := svc.Rebuild(cmd.Context(), flagIndexForce)
	if err != nil {
		return err
	}
	if res.Reused {
		fmt.Printf("Index is up to date: %d recipes, backend %s (%d dims)\n",
			res.Entries, res.Backend, res.Dimension)
		return nil
	}
	fmt.Printf("Indexed %d recipes with backend %s (%d dims) in %s\n",
		res.Entries, res.Backend, res.Dimension, res.Duration.Round(time.Millisecond))
	return nil
}
