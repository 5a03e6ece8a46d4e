package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/artifacts"
	"github.com/llkd33/newcrawling/pkg/browser"
	"github.com/llkd33/newcrawling/pkg/db"
	"github.com/llkd33/newcrawling/pkg/extractor"
)

// CrawlAction runs the batch pipeline: load config, open the sink and
// the browser, fan the URLs out over workers and write the report.
func CrawlAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config, err := loadRuntimeConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if len(config.URLs) == 0 {
		return fmt.Errorf("no URLs provided: use --urls or a config file")
	}

	extractionCfg := extractionConfigFromFlags(c)
	if err := extractionCfg.Validate(); err != nil {
		logger.Error("invalid extraction settings", "error", err)
		os.Exit(2)
	}

	manager, err := artifacts.NewManager(config.ArtifactDir)
	if err != nil {
		logger.Error("failed to initialize artifact manager", "error", err)
		os.Exit(2)
	}

	database, err := db.Open(config.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	source, cleanup, err := buildSource(config, extractionCfg, manager, logger)
	if err != nil {
		logger.Error("failed to initialize content source", "error", err)
		os.Exit(2)
	}
	defer cleanup()

	results := run(c.Context, logger, config, source, database)
	elapsed := time.Since(startTime)

	if reportPath, err := manager.WriteReport(buildReport(results, elapsed)); err != nil {
		logger.Error("failed to write crawl report", "error", err)
	} else {
		logger.Info("crawl report saved", "path", reportPath)
	}

	output := buildOutput(results, elapsed)
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if output.Status == "failed" {
		os.Exit(1)
	}
	return nil
}

// ExtractAction extracts a single URL and prints the full result,
// debug trail included. Meant for poking at a stubborn post.
func ExtractAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	url := c.Args().First()
	if url == "" {
		return fmt.Errorf("usage: extract <url>")
	}

	config, err := loadRuntimeConfig(c)
	if err != nil {
		return err
	}
	extractionCfg := extractionConfigFromFlags(c)
	if err := extractionCfg.Validate(); err != nil {
		return err
	}

	manager, err := artifacts.NewManager(config.ArtifactDir)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact manager: %w", err)
	}

	source, cleanup, err := buildSource(config, extractionCfg, manager, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize content source: %w", err)
	}
	defer cleanup()

	result := source.ExtractContent(c.Context, url)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if !result.Success {
		os.Exit(1)
	}
	return nil
}

// buildSource selects the browser pipeline or the plain-HTTP fallback.
func buildSource(config *models.CrawlConfig, extractionCfg models.ExtractionConfig, manager *artifacts.Manager, logger *slog.Logger) (Source, func(), error) {
	if !config.UseBrowser {
		logger.Warn("running without a browser: dynamic editors will not render")
		return newStaticSource(config.UserAgent, extractionCfg, logger), func() {}, nil
	}

	opts := browser.DefaultOptions()
	if config.UserAgent != "" {
		opts.UserAgent = config.UserAgent
	}
	chrome, err := browser.NewChrome(context.Background(), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	ex := extractor.New(chrome, extractionCfg, logger,
		extractor.WithIframeName(config.IframeName),
		extractor.WithArtifacts(manager),
	)
	return ex, func() { chrome.Close() }, nil
}

// loadRuntimeConfig merges the YAML config file with CLI flags. Flags
// win when both are set.
func loadRuntimeConfig(c *cli.Context) (*models.CrawlConfig, error) {
	config := &models.CrawlConfig{
		WorkerCount:    1,
		IframeName:     "cafe_main",
		UseBrowser:     true,
		SkipDuplicates: true,
	}
	if c.IsSet("config") {
		loaded, err := models.LoadConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if c.IsSet("urls") {
		var urls []string
		for _, u := range strings.Split(c.String("urls"), ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		config.URLs = urls
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("db") {
		config.DatabasePath = c.String("db")
	}
	if c.IsSet("output-dir") {
		config.ArtifactDir = c.String("output-dir")
	}
	if c.IsSet("cafe") {
		config.CafeName = c.String("cafe")
	}
	if c.IsSet("iframe") {
		config.IframeName = c.String("iframe")
	}
	if c.IsSet("no-browser") {
		config.UseBrowser = !c.Bool("no-browser")
	}
	if c.IsSet("user-agent") {
		config.UserAgent = c.String("user-agent")
	}
	if c.IsSet("recrawl") {
		config.SkipDuplicates = !c.Bool("recrawl")
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	return config, nil
}

func extractionConfigFromFlags(c *cli.Context) models.ExtractionConfig {
	cfg := models.DefaultExtractionConfig()
	if c.IsSet("timeout") {
		cfg.TimeoutSeconds = c.Int("timeout")
	}
	if c.IsSet("min-length") {
		cfg.MinContentLength = c.Int("min-length")
	}
	if c.IsSet("max-length") {
		cfg.MaxContentLength = c.Int("max-length")
	}
	if c.IsSet("no-screenshots") {
		cfg.EnableDebugScreenshot = !c.Bool("no-screenshots")
	}
	if c.IsSet("no-lazy-loading") {
		cfg.EnableLazyLoadingTrigger = !c.Bool("no-lazy-loading")
	}
	return cfg
}
