package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/streamlens/streamlens/internal/core/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	sourceStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func renderReport(cmd *cobra.Command, query string, report domain.MatchReport, total int) {
	if total == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("Results for %q", query)))
	cmd.Println()

	for _, src := range report.PerSource {
		if src.BestMatch == nil {
			cmd.Printf("%s %s\n\n", sourceStyle.Render(src.SourceName), dimStyle.Render("no match"))
			continue
		}

		cmd.Printf("%s %s\n", sourceStyle.Render(src.SourceName),
			scoreStyle.Render(fmt.Sprintf("score %d", src.BestMatch.Score)))
		cmd.Printf("  %s\n", candidateLine(src.BestMatch.Candidate))
		for _, alt := range src.Alternatives {
			cmd.Printf("  %s\n", dimStyle.Render(candidateLine(alt.Candidate)))
		}
		cmd.Println()
	}

	for _, group := range report.PerSeason {
		cmd.Println(titleStyle.Render(group.Season.Name))
		for _, src := range group.SourceMatches {
			if src.BestMatch == nil {
				continue
			}
			cmd.Printf("  %s %s %s\n", sourceStyle.Render(src.SourceName),
				candidateLine(src.BestMatch.Candidate),
				scoreStyle.Render(fmt.Sprintf("score %d", src.BestMatch.Score)))
		}
		cmd.Println()
	}
}

func candidateLine(c domain.MediaCandidate) string {
	line := c.Title
	if c.Year != "" {
		line += " (" + c.Year + ")"
	}
	if c.TypeLabel != "" {
		line += " [" + c.TypeLabel + "]"
	}
	if c.Remarks != "" {
		line += " - " + c.Remarks
	}
	return truncate(line, termWidth()-4)
}

func truncate(s string, max int) string {
	if max < 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
