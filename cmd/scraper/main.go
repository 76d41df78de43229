package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/models"
	"github.com/aluiziolira/go-scrape-reviews/scraper"
)

func main() {
	defaults := config.DefaultConfig()

	outputDefault := defaults.OutputFile
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		outputDefault = value
	}
	metricsDefault := defaults.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	configFile := flag.String("config", "", "YAML configuration file")
	baseURL := flag.String("base-url", defaults.BaseURL, "Scraper identity base URL")
	urlList := flag.String("urls", "", "Comma-separated list of page URLs to scrape")
	urlFile := flag.String("url-file", "", "File with one page URL per line")
	delayMs := flag.Int("delay", int(defaults.Delay/time.Millisecond), "Delay between requests (milliseconds)")
	timeoutMs := flag.Int("timeout", int(defaults.Timeout/time.Millisecond), "Per-request timeout (milliseconds)")
	outputFile := flag.String("output", outputDefault, "Output file path")
	outputFormat := flag.String("format", defaults.OutputFormat, "Output format: csv, json, or dual")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg, err := buildConfig(*configFile, *baseURL, *delayMs, *timeoutMs, *outputFile, *outputFormat, *metricsAddr, *verbose)
	if err != nil {
		slog.Error("loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	pageURLs, err := collectURLs(*urlList, *urlFile, flag.Args())
	if err != nil {
		slog.Error("collecting page URLs", slog.Any("error", err))
		os.Exit(1)
	}
	if len(pageURLs) == 0 {
		fmt.Fprintln(os.Stderr, "no page URLs given; use -urls, -url-file, or positional arguments")
		os.Exit(1)
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.Int("pages", len(pageURLs)),
		slog.Duration("delay", cfg.Delay),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result := s.Run(ctx, pageURLs)

	exported := exportResult(s, cfg.OutputFormat, cfg.OutputFile)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, cfg.OutputFile, exported)

	if stats, ok := s.Statistics(); ok {
		fmt.Printf("  Scrape date:   %s\n", stats.ScrapeDate.Format(time.RFC3339))
	}
}

func buildConfig(configFile, baseURL string, delayMs, timeoutMs int, outputFile, outputFormat, metricsAddr string, verbose bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// A config file, when given, takes precedence over the scalar flags.
	if configFile == "" {
		cfg.BaseURL = baseURL
		cfg.Delay = time.Duration(delayMs) * time.Millisecond
		cfg.Timeout = time.Duration(timeoutMs) * time.Millisecond
		cfg.OutputFile = outputFile
		cfg.OutputFormat = strings.ToLower(outputFormat)
		cfg.MetricsAddr = metricsAddr
	}
	cfg.Verbose = verbose
	return cfg, nil
}

func collectURLs(urlList, urlFile string, args []string) ([]string, error) {
	var pageURLs []string

	if urlList != "" {
		for _, raw := range strings.Split(urlList, ",") {
			if trimmed := strings.TrimSpace(raw); trimmed != "" {
				pageURLs = append(pageURLs, trimmed)
			}
		}
	}

	if urlFile != "" {
		f, err := os.Open(urlFile)
		if err != nil {
			return nil, fmt.Errorf("open url file: %w", err)
		}
		defer f.Close()

		lines := bufio.NewScanner(f)
		for lines.Scan() {
			trimmed := strings.TrimSpace(lines.Text())
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			pageURLs = append(pageURLs, trimmed)
		}
		if err := lines.Err(); err != nil {
			return nil, fmt.Errorf("read url file: %w", err)
		}
	}

	pageURLs = append(pageURLs, args...)
	return pageURLs, nil
}

func exportResult(s *scraper.Scraper, format, filename string) bool {
	switch format {
	case "json":
		return s.ExportJSON(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".json"
		return s.ExportBoth(filename, jsonFilename)
	default:
		return s.ExportCSV(filename)
	}
}

func printSummary(result *models.ScrapeResult, outputFile string, exported bool) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	fmt.Printf("  Pages:         %d\n", result.PageCount)
	fmt.Printf("  Reviews:       %d\n", result.ReviewCount)
	fmt.Printf("  Errors:        %d\n", result.ErrorCount)
	fmt.Printf("  Failed URLs:   %d\n", len(result.FailedURLs))
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	if exported {
		fmt.Printf("  Output file:   %s\n", outputFile)
	} else {
		fmt.Println("  Output file:   (nothing exported)")
	}
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
