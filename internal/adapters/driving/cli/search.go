package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/core/services"
	"github.com/streamlens/streamlens/internal/eventbus"
	"github.com/streamlens/streamlens/internal/logger"
)

var (
	searchPage    int
	searchJSON    bool
	matchTitle    string
	matchOriginal string
	matchYear     string
	matchKind     string
	matchSeasons  []int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all enabled sources",
	Long: `Queries every enabled source concurrently, dedups the combined
results, and ranks them against the query (or the --match title).
Per-source results are reported as they arrive; Ctrl-C aborts the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "result page to fetch from each source")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the match report as JSON")
	searchCmd.Flags().StringVar(&matchTitle, "match", "", "reference title to rank against (defaults to the query)")
	searchCmd.Flags().StringVar(&matchOriginal, "original-title", "", "reference title in its original language")
	searchCmd.Flags().StringVar(&matchYear, "year", "", "reference release year")
	searchCmd.Flags().StringVar(&matchKind, "kind", "", "reference content kind: movie or series")
	searchCmd.Flags().IntSliceVar(&matchSeasons, "season", nil, "reference season numbers (repeatable)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	all, err := sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}
	enabled := domain.EnabledSources(all)
	if len(enabled) == 0 {
		cmd.Println("No enabled sources. Add one with 'streamlens sources add'.")
		return nil
	}

	ref, err := buildReference(query)
	if err != nil {
		return err
	}

	agg, err := services.NewAggregator(searchClient, bus, configStore.Config().Search.Concurrency)
	if err != nil {
		return fmt.Errorf("creating aggregator: %w", err)
	}

	if !searchJSON {
		defer subscribeProgress(cmd)()
	}

	start := time.Now()
	items, err := agg.Search(ctx, query, enabled, searchPage)
	if errors.Is(err, domain.ErrCancelled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "search aborted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	// Record with a fresh context so a late Ctrl-C cannot lose the entry.
	record := domain.SearchRecord{
		Query:       query,
		SourceCount: len(enabled),
		ResultCount: len(items),
		Duration:    time.Since(start),
	}
	if err := historyStore.Append(context.Background(), record); err != nil {
		logger.Warn("recording history: %v", err)
	}

	report := services.NewMatcher().Rank(items, ref)

	if searchJSON {
		return outputReportJSON(cmd, report)
	}
	renderReport(cmd, query, report, len(items))
	return nil
}

func buildReference(query string) (domain.Reference, error) {
	ref := domain.Reference{
		Title:         query,
		OriginalTitle: matchOriginal,
		ReleaseYear:   matchYear,
	}
	if matchTitle != "" {
		ref.Title = matchTitle
	}

	switch matchKind {
	case "":
	case "movie":
		ref.Kind = domain.KindMovie
	case "series":
		ref.Kind = domain.KindSeries
	default:
		return ref, fmt.Errorf("unknown kind %q: %w", matchKind, domain.ErrInvalidInput)
	}

	for _, n := range matchSeasons {
		if n < 1 {
			return ref, fmt.Errorf("season %d: %w", n, domain.ErrInvalidInput)
		}
		ref.Seasons = append(ref.Seasons, domain.Season{
			Number: n,
			Name:   fmt.Sprintf("Season %d", n),
		})
	}
	return ref, nil
}

// subscribeProgress streams per-source outcomes to stderr while the
// aggregation runs. The returned function removes the handlers.
func subscribeProgress(cmd *cobra.Command) func() {
	errW := cmd.ErrOrStderr()

	unsubResult := bus.Subscribe(domain.EventSearchResult, func(e eventbus.Event) {
		ev := e.(domain.ResultEvent)
		fmt.Fprintln(errW, dimStyle.Render(fmt.Sprintf("%s: %d result(s)", ev.Source.Name, len(ev.Items))))
	})
	unsubError := bus.Subscribe(domain.EventSearchError, func(e eventbus.Event) {
		ev := e.(domain.ErrorEvent)
		if ev.Source != nil {
			fmt.Fprintln(errW, errorStyle.Render(fmt.Sprintf("%s: %v", ev.Source.Name, ev.Err)))
		}
	})
	unsubProgress := bus.Subscribe(domain.EventSearchProgress, func(e eventbus.Event) {
		ev := e.(domain.ProgressEvent)
		logger.Debug("settled %d/%d after %s", ev.Completed, ev.Total, ev.Source.Name)
	})

	return func() {
		unsubResult()
		unsubError()
		unsubProgress()
	}
}

func outputReportJSON(cmd *cobra.Command, report domain.MatchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
