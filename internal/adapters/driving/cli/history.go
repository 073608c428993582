package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := historyStore.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}
		if len(records) == 0 {
			cmd.Println("No search history.")
			return nil
		}

		for _, rec := range records {
			cmd.Printf("%s %s\n", titleStyle.Render(rec.Query),
				dimStyle.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04")))
			cmd.Printf("  %d result(s) from %d source(s) in %s\n",
				rec.ResultCount, rec.SourceCount, rec.Duration.Round(time.Millisecond))
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all search history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := historyStore.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		cmd.Println("History cleared.")
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
