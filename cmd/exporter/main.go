package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leyning_exporter/internal/app"
	domainpages "leyning_exporter/internal/domain/pages"
	"leyning_exporter/internal/infra/config"
	"leyning_exporter/internal/infra/hebcal"
	"leyning_exporter/internal/infra/logger"
	csvpages "leyning_exporter/internal/infra/pages"
	"leyning_exporter/internal/infra/scheduler"
	"leyning_exporter/internal/infra/sheets"

	"github.com/spf13/cobra"
)

const isoDateLayout = "2006-01-02"

var (
	flagVerbose  bool
	flagSheet    string
	flagEmail    string
	flagTest     bool
	flagPages    string
	flagSchedule string
)

var rootCmd = &cobra.Command{
	Use:   "exporter START_DATE END_DATE",
	Short: "Export Torah reading assignments from Hebcal to a Google Sheet",
	Long: `Fetches leyning data for a date range from the Hebcal API and writes it to
a formatted Google Sheet: one tab per parsha plus an aggregate tab of weekday
and special-day readings. Without --sheet, only fetches and prints the data.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().StringVarP(&flagSheet, "sheet", "s", "", "Google Sheet name (if not provided, will only print JSON)")
	rootCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "email address to share the sheet with")
	rootCmd.Flags().BoolVarP(&flagTest, "test", "t", false, "test mode - only process the first parsha")
	rootCmd.Flags().StringVar(&flagPages, "pages", "", "CSV file with page numbers")
	rootCmd.Flags().StringVar(&flagSchedule, "schedule", "", "cron spec to re-run the export periodically")
}

func run(cmd *cobra.Command, args []string) error {
	startDate, endDate := args[0], args[1]
	for _, d := range []string{startDate, endDate} {
		if _, err := time.Parse(isoDateLayout, d); err != nil {
			return fmt.Errorf("dates must be in YYYY-MM-DD format, got %q", d)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	if flagVerbose {
		logger.SetVerbose()
	}

	// Missing collaborator configuration fails before any network activity.
	if flagSheet != "" && flagEmail == "" {
		return fmt.Errorf("--email is required when using --sheet")
	}

	source := hebcal.NewClient(hebcal.Config{
		BaseURL:       cfg.HebcalBaseURL,
		RetryAttempts: cfg.FetchRetryAttempts,
		RetryMinWait:  cfg.FetchRetryMinWait,
		RetryMaxWait:  cfg.FetchRetryMaxWait,
	})

	if flagSheet == "" {
		return fetchOnly(source, startDate, endDate)
	}

	var pagesRepo domainpages.Repository
	if flagPages != "" {
		repo, err := csvpages.NewCSVRepository(flagPages)
		if err != nil {
			return err
		}
		pagesRepo = repo
	}

	sink, err := sheets.NewClient(context.Background(), cfg.CredentialsFile, cfg.SinkWriteDelay)
	if err != nil {
		return err
	}

	service := app.NewExportService(source, pagesRepo, sink, logger.Log, flagTest)
	runOnce := func(ctx context.Context) error {
		return service.Run(ctx, startDate, endDate, flagSheet, flagEmail)
	}

	if err := runOnce(context.Background()); err != nil {
		return err
	}
	fmt.Printf("Data written to Google Sheet: %s\n", sink.URL())

	if flagSchedule != "" {
		sched := scheduler.NewExportScheduler(flagSchedule, runOnce)
		if err := sched.Start(); err != nil {
			return err
		}
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		sched.Stop()
	}
	return nil
}

// fetchOnly fetches the reading set without touching any spreadsheet and
// prints it when verbose.
func fetchOnly(source *hebcal.Client, startDate, endDate string) error {
	set, err := source.Fetch(context.Background(), startDate, endDate)
	if err != nil {
		return err
	}
	if flagVerbose {
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("could not encode fetched data: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
