// Command ogm2sqlite builds a searchable SQLite catalog from a
// directory of harvested OpenGeoMetadata records.
//
// Usage:
//
//	ogm2sqlite -source ./edu.stanford -db stanford.db      # ingest
//	ogm2sqlite -config ogm.yaml                            # ingest with config file
//	ogm2sqlite -db stanford.db -search "water districts"   # full-text query and exit
//	ogm2sqlite -db stanford.db -facets dct_format_s        # facet counts and exit
//	ogm2sqlite -db stanford.db -within=-123,36,-121,39     # spatial query and exit
//	ogm2sqlite -db stanford.db -stats                      # counts and exit
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eliotjordan/ogm2sqlite"
)

type options struct {
	configPath  string
	source      string
	dbPath      string
	metricsAddr string
	search      string
	facets      string
	within      string
	overlaps    string
	stats       bool
	limit       int
	logLevel    string
}

func parseFlags() options {
	opts := options{}
	flag.StringVar(&opts.configPath, "config", "", "path to YAML config file")
	flag.StringVar(&opts.source, "source", "", "directory of harvested record files")
	flag.StringVar(&opts.dbPath, "db", "", "path to the SQLite catalog")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus listen address, e.g. :9090")
	flag.StringVar(&opts.search, "search", "", "full-text query (exit after results)")
	flag.StringVar(&opts.facets, "facets", "", "facet value counts for a field (exit after results)")
	flag.StringVar(&opts.within, "within", "", "bbox containment query as W,S,E,N (exit after results)")
	flag.StringVar(&opts.overlaps, "overlaps", "", "bbox overlap query as W,S,E,N (exit after results)")
	flag.BoolVar(&opts.stats, "stats", false, "show corpus stats and recent runs, then exit")
	flag.IntVar(&opts.limit, "limit", 20, "max search results")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	var level slog.Level
	switch opts.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("ogm2sqlite: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	c, err := ogm2sqlite.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer c.Close()

	// One-shot: full-text search.
	if opts.search != "" {
		results, err := c.Search(ctx, opts.search, opts.limit)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return printJSON(results)
	}

	// One-shot: facet counts.
	if opts.facets != "" {
		counts, err := c.FacetCounts(ctx, opts.facets)
		if err != nil {
			return fmt.Errorf("facets: %w", err)
		}
		return printJSON(counts)
	}

	// One-shot: spatial queries.
	if opts.within != "" {
		w, s, e, n, err := parseExtent(opts.within)
		if err != nil {
			return err
		}
		ids, err := c.Within(ctx, w, s, e, n)
		if err != nil {
			return fmt.Errorf("within: %w", err)
		}
		return printJSON(ids)
	}
	if opts.overlaps != "" {
		w, s, e, n, err := parseExtent(opts.overlaps)
		if err != nil {
			return err
		}
		ids, err := c.Overlaps(ctx, w, s, e, n)
		if err != nil {
			return fmt.Errorf("overlaps: %w", err)
		}
		return printJSON(ids)
	}

	// One-shot: stats.
	if opts.stats {
		stats, err := c.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		runs, err := c.RecentRuns(ctx, 10)
		if err != nil {
			return fmt.Errorf("recent runs: %w", err)
		}
		return printJSON(map[string]any{"corpus": stats, "runs": runs})
	}

	// Default: ingest.
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, c.MetricsHandler(), logger)
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutCtx)
		}()
	}

	report, err := c.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return printJSON(report)
}

func resolveConfig(opts options) (*ogm2sqlite.Config, error) {
	cfg := &ogm2sqlite.Config{}
	if opts.configPath != "" {
		loaded, err := ogm2sqlite.LoadConfigFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags win over the config file.
	if opts.source != "" {
		cfg.Source = opts.source
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	return cfg, nil
}

// parseExtent parses "W,S,E,N" into its four coordinates.
func parseExtent(s string) (w, south, e, n float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("extent %q: want W,S,E,N", s)
	}
	nums := make([]float64, 4)
	for i, p := range parts {
		nums[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("extent %q: %w", s, err)
		}
	}
	return nums[0], nums[1], nums[2], nums[3], nil
}

func serveMetrics(addr string, h http.Handler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("metrics: listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics: server", "error", err)
		}
	}()
	return srv
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
