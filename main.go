package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/fflogs-export/pkg/scrape"
	"github.com/go-scripts/fflogs-export/pkg/table"
)

// CLI flags structure
type CLI struct {
	Config      string        `help:"Path to YAML run configuration." default:"config.yaml"`
	Logs        []string      `help:"Log URLs to export (overrides the config file)." short:"l"`
	Encounters  string        `help:"Encounters to include: all, kills or wipes." short:"e"`
	Headed      bool          `help:"Show the browser window instead of running headless."`
	DownloadDir string        `help:"Directory CSV exports are saved to." short:"d"`
	Extension   string        `help:"Path to an unpacked ad-blocking extension."`
	Timeout     time.Duration `help:"Per-element wait timeout (default 10s)."`
	Deadline    time.Duration `help:"Overall batch deadline, 0 for none."`
	AcceptPopup bool          `help:"Clear the first-visit consent popup before the batch."`
	TUI         bool          `help:"Show the interactive terminal dashboard."`
	Verbose     bool          `help:"Enable debug logging."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("fflogs-export"),
		kong.Description("Exports per-encounter damage and healing CSVs from a batch of FFLogs reports."),
	)

	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	fileCfg, err := loadConfig(cli.Config)
	if err != nil {
		log.Fatal("configuration error", "err", err)
	}

	opts, err := mergeOptions(cli, fileCfg)
	if err != nil {
		log.Fatal("configuration error", "err", err)
	}
	if len(opts.Logs) == 0 {
		log.Fatal("no logs to export; pass --logs or list them in the config file")
	}

	// Old exports would otherwise mix into this run's report.
	if err := table.CleanDir(opts.DownloadDir); err != nil {
		log.Fatal("could not prepare download directory", "dir", opts.DownloadDir, "err", err)
	}

	session, err := scrape.NewSession(scrape.SessionConfig{
		Headless:      opts.Headless,
		DownloadDir:   opts.DownloadDir,
		ExtensionDir:  opts.ExtensionDir,
		BatchDeadline: opts.BatchDeadline,
	})
	if err != nil {
		log.Fatal("could not start browser", "err", err)
	}

	cfg := scrape.Config{
		Logs:           opts.Logs,
		Encounters:     opts.Encounters,
		ElementTimeout: opts.ElementTimeout,
		AcceptPopup:    opts.AcceptPopup,
	}

	if cli.TUI {
		if err := runTUI(cfg, session); err != nil {
			log.Fatal("batch failed", "err", err)
		}
		return
	}

	scraper := scrape.New(cfg, session, scrape.NewPlainReporter())
	report, err := scraper.Run()
	if err != nil {
		// The session is already closed; the reporter printed the error.
		os.Exit(1)
	}

	printReport(report, opts.DownloadDir)
}

// printReport renders the collected export tables after a completed run.
func printReport(report scrape.RunReport, downloadDir string) {
	tables, err := table.Collect(downloadDir)
	if err != nil {
		log.Error("could not read downloaded exports", "err", err)
		return
	}

	for _, t := range tables {
		table.Render(os.Stdout, t)
		fmt.Println()
	}

	log.Info("exports written",
		"dir", downloadDir,
		"tables", len(tables),
		"processed", report.Processed,
		"skipped", report.Skipped)
}
