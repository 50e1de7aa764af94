package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-scripts/fflogs-export/pkg/scrape"
)

// FileConfig mirrors the YAML run configuration. Every field is optional;
// command-line flags override whatever the file sets.
type FileConfig struct {
	Logs           []string `yaml:"logs"`
	Encounters     string   `yaml:"encounters"`
	Headless       *bool    `yaml:"headless"`
	DownloadDir    string   `yaml:"download_dir"`
	ExtensionDir   string   `yaml:"extension_dir"`
	ElementTimeout string   `yaml:"element_timeout"`
	BatchDeadline  string   `yaml:"batch_deadline"`
	AcceptPopup    bool     `yaml:"accept_popup"`
}

// Options is the fully merged and validated run configuration.
type Options struct {
	Logs           []string
	Encounters     scrape.EncounterFilter
	Headless       bool
	DownloadDir    string
	ExtensionDir   string
	ElementTimeout time.Duration
	BatchDeadline  time.Duration
	AcceptPopup    bool
}

// loadConfig reads the YAML run configuration. A missing file is not an
// error: the tool can run on flags alone.
func loadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// mergeOptions combines file config and flags into validated run options.
// The encounter filter is validated here, before any browser starts.
func mergeOptions(cli CLI, file FileConfig) (Options, error) {
	opts := Options{
		Logs:           file.Logs,
		Headless:       true,
		DownloadDir:    "csv",
		ExtensionDir:   file.ExtensionDir,
		ElementTimeout: 10 * time.Second,
		AcceptPopup:    file.AcceptPopup || cli.AcceptPopup,
	}

	if len(cli.Logs) > 0 {
		opts.Logs = cli.Logs
	}

	encounters := file.Encounters
	if cli.Encounters != "" {
		encounters = cli.Encounters
	}
	if encounters == "" {
		encounters = "all"
	}
	filter, err := scrape.ParseEncounterFilter(encounters)
	if err != nil {
		return opts, err
	}
	opts.Encounters = filter

	if file.Headless != nil {
		opts.Headless = *file.Headless
	}
	if cli.Headed {
		opts.Headless = false
	}

	if file.DownloadDir != "" {
		opts.DownloadDir = file.DownloadDir
	}
	if cli.DownloadDir != "" {
		opts.DownloadDir = cli.DownloadDir
	}
	if cli.Extension != "" {
		opts.ExtensionDir = cli.Extension
	}

	if file.ElementTimeout != "" {
		d, err := time.ParseDuration(file.ElementTimeout)
		if err != nil {
			return opts, fmt.Errorf("parse element_timeout: %w", err)
		}
		opts.ElementTimeout = d
	}
	if cli.Timeout > 0 {
		opts.ElementTimeout = cli.Timeout
	}

	if file.BatchDeadline != "" {
		d, err := time.ParseDuration(file.BatchDeadline)
		if err != nil {
			return opts, fmt.Errorf("parse batch_deadline: %w", err)
		}
		opts.BatchDeadline = d
	}
	if cli.Deadline > 0 {
		opts.BatchDeadline = cli.Deadline
	}

	return opts, nil
}
