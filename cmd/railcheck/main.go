package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/v0xg/railcheck/internal/browser"
	"github.com/v0xg/railcheck/internal/calendar"
	"github.com/v0xg/railcheck/internal/config"
	"github.com/v0xg/railcheck/internal/diag"
	"github.com/v0xg/railcheck/internal/engine"
	"github.com/v0xg/railcheck/internal/pages"
	"github.com/v0xg/railcheck/internal/verify"
)

const expectedTitle = "MakeMyTrip - #1 Travel Website 50% OFF on Hotels, Flights & Holiday"

var (
	cfgPath      string
	browserKind  string
	headless     bool
	baseURL      string
	artifactsDir string
	fromCity     string
	toCity       string
	travelClass  string
	travelDate   string
	verbose      bool

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "railcheck",
		Short: "End-to-end validation of the train booking workflow",
		Long: `railcheck drives a real browser through the full train booking flow:
open the dashboard, switch to the India edition, search trains with the
configured journey, filter the results, select the first bookable train,
add a traveller and attempt payment.

Soft verification failures are collected and reported together at the end
of the run; screenshots and a structured report land in the artifacts
directory.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "railcheck.yaml", "Config file path")
	rootCmd.Flags().StringVar(&browserKind, "browser", "", "Browser to drive: chrome, edge")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run the browser headless")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "Application URL to open")
	rootCmd.Flags().StringVar(&artifactsDir, "artifacts", "", "Artifacts output directory")
	rootCmd.Flags().StringVar(&fromCity, "from", "", "Source city")
	rootCmd.Flags().StringVar(&toCity, "to", "", "Destination city")
	rootCmd.Flags().StringVar(&travelClass, "class", "", "Travel class, e.g. \"First AC\"")
	rootCmd.Flags().StringVar(&travelDate, "date", "", "Travel date (YYYY-MM-DD, default: next Friday)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	date, err := cfg.TravelDate(time.Now(), calendar.NextFriday)
	if err != nil {
		return err
	}

	sink, err := diag.NewSink(cfg.ArtifactsDir, logger)
	if err != nil {
		return err
	}
	fmt.Printf("→ Run %s, artifacts in %s\n", sink.RunID(), sink.Dir())

	br, err := browser.Launch(browser.Options{
		Browser:  cfg.Browser,
		Headless: cfg.Headless,
		Width:    cfg.ViewportWidth,
		Height:   cfg.ViewportHeight,
	}, logger)
	if err != nil {
		return fmt.Errorf("browser launch failed: %w", err)
	}
	defer br.Close()

	page, err := br.Open(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.BaseURL, err)
	}

	// The capture closure follows the engine across window switches.
	var eng *engine.Engine
	ledger := verify.NewLedger(logger, func(label string) (string, error) {
		if eng == nil {
			return "", errors.New("no page attached")
		}
		return sink.Screenshot(eng.Page(), label)
	})
	eng = engine.New(page, logger, ledger)

	workflowErr := runWorkflow(cfg, date, eng, br, ledger, sink)

	verdict := "passed"
	finishErr := ledger.Finish()
	if workflowErr != nil || finishErr != nil {
		verdict = "failed"
	}
	if err := sink.WriteReport(ledger.Records(), verdict); err != nil {
		logger.Warn("writing run report failed", zap.Error(err))
	}

	if workflowErr != nil {
		fmt.Printf("✗ Run halted: %v\n", workflowErr)
		return workflowErr
	}
	if finishErr != nil {
		fmt.Printf("✗ Run failed:\n%v\n", finishErr)
		return finishErr
	}
	fmt.Println("✓ Run passed")
	return nil
}

// applyFlagOverrides layers explicitly set CLI flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("browser") {
		cfg.Browser = browserKind
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = headless
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if cmd.Flags().Changed("artifacts") {
		cfg.ArtifactsDir = artifactsDir
	}
	if cmd.Flags().Changed("from") {
		cfg.Journey.From = fromCity
	}
	if cmd.Flags().Changed("to") {
		cfg.Journey.To = toCity
	}
	if cmd.Flags().Changed("class") {
		cfg.Journey.TravelClass = travelClass
	}
	if cmd.Flags().Changed("date") {
		cfg.Journey.TravelDate = travelDate
	}
}

// runWorkflow executes the booking steps in order. A returned error is a
// hard stop; soft failures have already been recorded on the ledger and do
// not end the run.
func runWorkflow(cfg *config.Config, date time.Time, eng *engine.Engine, br *browser.Browser, ledger *verify.Ledger, sink *diag.Sink) error {
	step := func(name string, fn func() error) error {
		fmt.Printf("→ %s... ", name)
		if err := fn(); err != nil {
			fmt.Println("failed")
			sink.Record(name, "failed")
			return err
		}
		fmt.Println("done")
		sink.Record(name, "ok")
		return nil
	}

	var dash *pages.Dashboard
	if err := step("dashboard", func() error {
		var err error
		dash, err = pages.OpenDashboard(eng, br, logger)
		if err != nil {
			return err
		}
		title, err := dash.Title()
		if err != nil {
			return err
		}
		ledger.Compare(title, expectedTitle, "verify page title")
		return nil
	}); err != nil {
		return err
	}

	var trains *pages.Trains
	if err := step("open trains page", func() error {
		var err error
		trains, err = dash.GoToTrains()
		if err != nil {
			return err
		}
		return trains.BookTrainTickets()
	}); err != nil {
		return err
	}

	var travellers *pages.SelectTravellers
	if err := step("search and select train", func() error {
		var err error
		travellers, err = trains.SearchAndSelect(
			cfg.Journey.From,
			cfg.Journey.To,
			cfg.Journey.TravelClass,
			cfg.Journey.DepartureWindow,
			calendar.TargetFor(date))
		return err
	}); err != nil {
		return err
	}

	if err := step("add traveller", func() error {
		p := cfg.Journey.Traveller
		return travellers.AddTraveller(p.Name, p.Age, p.Gender)
	}); err != nil {
		return err
	}

	return step("pay and book", func() error {
		if details, err := travellers.PaymentDetails(); err == nil {
			logger.Info("payment details", zap.String("details", details))
		} else {
			return err
		}
		msg, err := travellers.PayAndBookNow()
		if err != nil {
			return err
		}
		if _, err := sink.Screenshot(eng.Page(), "pay response "+msg); err != nil {
			logger.Warn("capturing pay response failed", zap.Error(err))
		}
		return nil
	})
}
