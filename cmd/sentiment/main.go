package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"earnings-sentiment/internal/bootstrap"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/research/earnings"
	"earnings-sentiment/internal/store"
	"earnings-sentiment/internal/types"
)

var (
	configPath string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "sentiment [input-file]",
	Short: "Score the news of each reporting company with a language model",
	Long: `Read the news document written by the calendar command, ask the configured
scoring service for one sentiment score per company and write the ranked report.

Examples:
  sentiment                          # default input and output files
  sentiment week.json                # custom input
  sentiment week.json -o report.json`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSentiment,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default $EARNINGS_CONFIG or config.yaml)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "report file (default output.report_file)")
}

func main() {
	shutdown, err := bootstrap.Init()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(bootstrap.WithRun(ctx))
	stop()
	shutdown()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSentiment(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := bootstrap.LoadConfig(ctx, configPath)
	if err != nil {
		return err
	}
	input := cfg.Output.NewsFile
	if len(args) > 0 {
		input = args[0]
	}
	output := cfg.Output.ReportFile
	if outputPath != "" {
		output = outputPath
	}

	var doc types.NewsDocument
	if err := store.ReadJSON(input, &doc); err != nil {
		return fmt.Errorf("cannot read news document %s (run the calendar command first): %w", input, err)
	}
	if _, err := doc.Window(); err != nil {
		return fmt.Errorf("invalid news document %s: %w", input, err)
	}

	fmt.Printf("Testing %s scoring service...\n", cfg.LLM.Provider)
	scorer, err := bootstrap.NewScorer(ctx, cfg)
	if err != nil {
		return err
	}

	runLog := bootstrap.NewRunLog(ctx, cfg)
	pipeline := earnings.NewPipeline(nil, nil, scorer, earnings.WithResultSink(runLog.Sink()))

	fmt.Printf("Analyzing %d companies for %s\n", doc.TotalCompanies, doc.EarningsWeek)
	report, err := pipeline.Analyze(ctx, &doc)
	if err != nil {
		return fmt.Errorf("analysis interrupted (partial results in %s): %w", runLog.Dir(), err)
	}

	printReport(report)

	if err := store.WriteJSON(output, report); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	logger.Info(ctx, "Sentiment report written", "file", output, "companies", report.TotalCompaniesAnalyzed)
	fmt.Printf("\nResults saved to %s\n", output)
	return nil
}

func printReport(r *types.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                 EARNINGS SENTIMENT ANALYSIS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Earnings Week:      %s\n", r.EarningsWeek)
	fmt.Printf("Companies:          %d\n", r.Summary.TotalCompanies)
	fmt.Printf("With Articles:      %d\n", r.Summary.CompaniesWithArticles)
	fmt.Println()

	if len(r.MostPositive) > 0 {
		fmt.Println("MOST POSITIVE")
		printRanked(r.MostPositive)
		fmt.Println()
	}
	if len(r.MostNegative) > 0 {
		fmt.Println("MOST NEGATIVE")
		printRanked(r.MostNegative)
		fmt.Println()
	}

	fmt.Printf("Neutral (0):        %d companies\n", r.Summary.NeutralCount)
	fmt.Printf("Articles Analyzed:  %d of %d available\n", r.Summary.TotalArticlesAnalyzed, r.Summary.TotalArticlesAvailable)
}

func printRanked(results []types.SentimentResult) {
	for i, res := range results {
		fmt.Printf("  %2d. %-8s %+3d  (%d/%d articles)\n",
			i+1, res.Ticker, res.SentimentScore, res.ArticlesAnalyzed, res.TotalArticlesAvailable)
	}
}
