package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"earnings-sentiment/internal/bootstrap"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/research/earnings"
	"earnings-sentiment/internal/store"
	"earnings-sentiment/internal/types"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "calendar [weeks-ahead] [output-file]",
	Short: "Collect news for the companies reporting earnings in a week",
	Long: `Fetch the earnings calendar for a Monday-Sunday week, collect recent news
for every announcing company and write the intermediate news document.

Examples:
  calendar                 # next week, default output file
  calendar 0               # current week
  calendar 2 week.json     # two weeks ahead, custom output file`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCalendar,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default $EARNINGS_CONFIG or config.yaml)")
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

func runCalendar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	weeksAhead := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("weeks-ahead must be an integer, got %q", args[0])
		}
		weeksAhead = n
	}

	cfg, err := bootstrap.LoadConfig(ctx, configPath)
	if err != nil {
		return err
	}
	output := cfg.Output.NewsFile
	if len(args) > 1 {
		output = args[1]
	}

	collector, err := bootstrap.NewCollector(cfg)
	if err != nil {
		return err
	}

	window := earnings.ResolveWeek(time.Now(), weeksAhead)
	fmt.Printf("Fetching earnings calendar for %s\n", window)

	pipeline := earnings.NewPipeline(bootstrap.NewCalendar(cfg), collector, nil)
	doc, err := pipeline.Gather(ctx, window)
	if err != nil {
		if errors.Is(err, earnings.ErrSourceUnavailable) {
			return fmt.Errorf("earnings calendar unavailable: %w", err)
		}
		return err
	}

	printDocument(doc)

	if err := store.WriteJSON(output, doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	logger.Info(ctx, "News document written", "file", output, "companies", doc.TotalCompanies)
	fmt.Printf("\nSaved %d companies to %s\n", doc.TotalCompanies, output)
	return nil
}

func printDocument(doc *types.NewsDocument) {
	days := doc.EarningsDays()
	if len(days) == 0 {
		fmt.Printf("No earnings announcements for %s\n", doc.EarningsWeek)
		return
	}

	fmt.Println()
	fmt.Printf("EARNINGS WEEK %s\n", doc.EarningsWeek)
	fmt.Println("───────────────────────────────────────────────────────────────")
	for _, day := range days {
		fmt.Printf("%s %s (%d companies)\n", day.DayName, day.Date.Format(types.DateLayout), len(day.Tickers))
		for _, ticker := range day.Tickers {
			set := doc.NewsSet(ticker)
			fmt.Printf("  %-8s %3d articles  %d sources\n", ticker, len(set.Articles), len(set.UniqueSources))
		}
	}
}
