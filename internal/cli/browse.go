package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TaniaZeidan/NutriTrackAI/internal/assistant"
	"github.com/TaniaZeidan/NutriTrackAI/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse recipes interactively",
	Long: `Browse opens a terminal UI: type a meal description to search the
recipe index, arrow keys to flip through results, tab to enter cooking
mode for the selected recipe.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	svc := a.retrieval()
	res, err := svc.Rebuild(cmd.Context(), false)
	if err != nil {
		return fmt.Errorf("prepare index: %w", err)
	}

	recipes, err := a.loader().Load()
	if err != nil {
		return fmt.Errorf("load recipe corpus: %w", err)
	}
	guide := assistant.New(recipes, svc)

	summary := fmt.Sprintf("%d recipes | backend %s (%d dims) | top-%d",
		res.Entries, res.Backend, res.Dimension, a.cfg.Retrieval.TopK)
	m := tui.New(svc, guide, a.cfg.Retrieval.TopK, summary)
	_, err = tea.NewProgram(m).Run()
	return err
}
