package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/streamlens/streamlens/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage streaming sources",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sources, err := sourceStore.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing sources: %w", err)
		}
		if len(sources) == 0 {
			cmd.Println("No sources configured. Add one with 'streamlens sources add'.")
			return nil
		}

		for _, src := range sources {
			state := scoreStyle.Render("enabled")
			if !src.Enabled {
				state = dimStyle.Render("disabled")
			}
			cmd.Printf("%s %s\n", sourceStyle.Render(src.Name), state)
			cmd.Printf("  id:  %s\n", src.ID)
			cmd.Printf("  url: %s\n", src.BaseURL)
			if src.Timeout > 0 || src.RetryCount > 0 {
				cmd.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("timeout %s, retries %d",
					src.EffectiveTimeout(), src.RetryCount)))
			}
			cmd.Println()
		}
		return nil
	},
}

var (
	addName      string
	addURL       string
	addDetailURL string
	addTimeout   time.Duration
	addRetries   int
	addDisabled  bool
)

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		existing, err := sourceStore.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing sources: %w", err)
		}
		for _, s := range existing {
			if s.BaseURL == addURL {
				return fmt.Errorf("source %s already uses this url: %w", s.Name, domain.ErrAlreadyExists)
			}
		}

		src := domain.Source{
			ID:         uuid.NewString(),
			Name:       addName,
			BaseURL:    addURL,
			DetailURL:  addDetailURL,
			Timeout:    addTimeout,
			RetryCount: addRetries,
			Enabled:    !addDisabled,
		}
		if err := sourceStore.Save(cmd.Context(), src); err != nil {
			return fmt.Errorf("adding source: %w", err)
		}
		cmd.Printf("Added source %s (%s)\n", src.Name, src.ID)
		return nil
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sourceStore.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("removing source: %w", err)
		}
		cmd.Printf("Removed source %s\n", args[0])
		return nil
	},
}

var sourcesEnableCmd = &cobra.Command{
	Use:   "enable [id]",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sourceStore.SetEnabled(cmd.Context(), args[0], true); err != nil {
			return fmt.Errorf("enabling source: %w", err)
		}
		cmd.Printf("Enabled source %s\n", args[0])
		return nil
	},
}

var sourcesDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Disable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sourceStore.SetEnabled(cmd.Context(), args[0], false); err != nil {
			return fmt.Errorf("disabling source: %w", err)
		}
		cmd.Printf("Disabled source %s\n", args[0])
		return nil
	},
}

func init() {
	sourcesAddCmd.Flags().StringVar(&addName, "name", "", "display name")
	sourcesAddCmd.Flags().StringVar(&addURL, "url", "", "provider API base URL")
	sourcesAddCmd.Flags().StringVar(&addDetailURL, "detail-url", "", "optional detail endpoint URL")
	sourcesAddCmd.Flags().DurationVar(&addTimeout, "timeout", 0, "per-request timeout (default from config)")
	sourcesAddCmd.Flags().IntVar(&addRetries, "retries", 1, "retry count for failed requests")
	sourcesAddCmd.Flags().BoolVar(&addDisabled, "disabled", false, "add the source in disabled state")
	_ = sourcesAddCmd.MarkFlagRequired("name")
	_ = sourcesAddCmd.MarkFlagRequired("url")

	sourcesCmd.AddCommand(sourcesListCmd, sourcesAddCmd, sourcesRemoveCmd, sourcesEnableCmd, sourcesDisableCmd)
	rootCmd.AddCommand(sourcesCmd)
}
