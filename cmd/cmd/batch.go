package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"postforge/internal/config"
	"postforge/internal/pipeline"
	"postforge/internal/sources"
)

var (
	batchFile   string
	batchTrends int
	batchForce  bool

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

var batchCmd = &cobra.Command{
	Use:   "batch [keywords...]",
	Short: "Process several keywords sequentially in one run",
	Long: `Processes keywords strictly one at a time. Keywords come from the
arguments, from a file (--file, one keyword per line), or from the
configured trend feed (--from-trends). A failing keyword is counted and
the batch continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		keywords, err := collectKeywords(args, cfg, a.pipeline)
		if err != nil {
			return err
		}
		if len(keywords) == 0 {
			return fmt.Errorf("no keywords to process")
		}

		report := a.pipeline.RunBatch(context.Background(), keywords, pipeline.Options{
			Force:  batchForce,
			DryRun: dryRun,
			Draft:  draft,
		})
		printReport(report)
		return report.Err()
	},
}

// collectKeywords merges args, the keyword file, and the trend feed, in
// that order, dropping duplicates. Trend candidates are filtered against
// the publication history before counting toward --from-trends, so an
// already-covered trend is replaced by the next one instead of shrinking
// the batch.
func collectKeywords(args []string, cfg *config.Config, pl *pipeline.Pipeline) ([]string, error) {
	var keywords []string
	seen := make(map[string]bool)
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	for _, arg := range args {
		add(arg)
	}

	if batchFile != "" {
		f, err := os.Open(batchFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open keyword file: %w", err)
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if strings.HasPrefix(line, "#") {
				continue
			}
			add(line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read keyword file: %w", err)
		}
	}

	if batchTrends > 0 {
		if cfg.Search.TrendFeed == "" {
			return nil, fmt.Errorf("--from-trends requires search.trend_feed to be configured")
		}
		feed := sources.NewFeedTrendSource(cfg.Search.TrendFeed, config.Duration(cfg.Search.Timeout, 15*time.Second))
		candidates, err := feed.FetchCandidates(context.Background(), 0)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch trend candidates: %w", err)
		}
		if batchForce {
			if len(candidates) > batchTrends {
				candidates = candidates[:batchTrends]
			}
		} else {
			candidates = pl.SelectCandidates(candidates, batchTrends)
		}
		for _, kw := range candidates {
			add(kw)
		}
	}
	return keywords, nil
}

func printReport(report pipeline.BatchReport) {
	fmt.Println(headStyle.Render("Batch result"))
	for _, r := range report.Results {
		switch {
		case r.Skipped:
			fmt.Printf("  %s %s (recently published)\n", skipStyle.Render("SKIP"), r.Keyword)
		case r.Err != nil:
			fmt.Printf("  %s %s: %v\n", failStyle.Render("FAIL"), r.Keyword, r.Err)
		default:
			fmt.Printf("  %s %s → %s\n", okStyle.Render("OK"), r.Keyword, r.Title)
		}
	}
	fmt.Printf("\n%d processed, %d published, %d skipped, %d failed\n",
		report.Processed, report.Published, report.Skipped, report.Failed)
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one keyword per line (# comments allowed)")
	batchCmd.Flags().IntVar(&batchTrends, "from-trends", 0, "pull up to N candidate keywords from the trend feed")
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "bypass the duplicate-history guard")
	rootCmd.AddCommand(batchCmd)
}
