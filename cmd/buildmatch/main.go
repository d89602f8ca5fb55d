// buildmatch CLI - construction product matching and project feasibility
//
// Usage:
//   buildmatch match --catalog catalog.csv --spec project.json [options]
//   buildmatch analyze --catalog catalog.csv --spec project.json
//   buildmatch serve [--clickhouse-host ...]
//   buildmatch catalog push --file catalog.csv
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"buildmatch/analysis"
	"buildmatch/api"
	"buildmatch/catalog"
	"buildmatch/db/clickhouse"
	"buildmatch/match"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// .env is optional; flags and real env vars win.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "buildmatch",
		Usage:   "Match construction product catalogs against project specifications",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"BUILDMATCH_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "weights",
				Usage:   "Path to score weights JSON (defaults built in)",
				EnvVars: []string{"BUILDMATCH_WEIGHTS"},
			},
			&cli.StringFlag{
				Name:    "regions",
				Usage:   "Path to region config JSON (defaults built in)",
				EnvVars: []string{"BUILDMATCH_REGIONS"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-host",
				Value:   "localhost",
				Usage:   "ClickHouse host",
				EnvVars: []string{"CLICKHOUSE_HOST"},
			},
			&cli.IntFlag{
				Name:    "clickhouse-port",
				Value:   9000,
				Usage:   "ClickHouse native port",
				EnvVars: []string{"CLICKHOUSE_PORT"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-database",
				Value:   "buildmatch",
				Usage:   "ClickHouse database",
				EnvVars: []string{"CLICKHOUSE_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-user",
				Value:   "default",
				Usage:   "ClickHouse user",
				EnvVars: []string{"CLICKHOUSE_USER"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-password",
				Value:   "",
				Usage:   "ClickHouse password",
				EnvVars: []string{"CLICKHOUSE_PASSWORD"},
			},
		},

		Before: func(c *cli.Context) error {
			configureLogging(c.String("log-level"))
			return nil
		},

		Commands: []*cli.Command{
			matchCommand(),
			analyzeCommand(),
			serveCommand(),
			catalogCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configureLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if os.Getenv("ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// =============================================================================
// MATCH COMMAND
// =============================================================================

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Rank catalog products against a project specification",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "Path to catalog CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "spec",
				Aliases:  []string{"s"},
				Usage:    "Path to project specification JSON",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json, markdown)",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: 0,
				Usage: "Limit output to the top N matches (0 = all)",
			},
		},
		Action: runMatch,
	}
}

func runMatch(c *cli.Context) error {
	products, spec, matcher, err := loadPipeline(c)
	if err != nil {
		return err
	}

	matches := matcher.FindMatches(products, spec)
	log.Info().
		Int("catalog", len(products)).
		Int("matches", len(matches)).
		Str("project", spec.Name).
		Msg("matching complete")

	if top := c.Int("top"); top > 0 && len(matches) > top {
		matches = matches[:top]
	}

	switch c.String("format") {
	case "json":
		return outputJSON(matches)
	case "markdown":
		return outputMatchesMarkdown(matches)
	default:
		return outputMatchesTable(matches)
	}
}

// =============================================================================
// ANALYZE COMMAND
// =============================================================================

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Run the full match and feasibility analysis for a project",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "Path to catalog CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "spec",
				Aliases:  []string{"s"},
				Usage:    "Path to project specification JSON",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json, markdown)",
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	products, spec, matcher, err := loadPipeline(c)
	if err != nil {
		return err
	}

	matches := matcher.FindMatches(products, spec)
	report := analysis.Analyze(matches, spec)

	switch c.String("format") {
	case "json":
		return outputJSON(report)
	case "markdown":
		return outputAnalysisMarkdown(report)
	default:
		return outputAnalysisTable(report)
	}
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the buildmatch API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "API server port",
				EnvVars: []string{"BUILDMATCH_PORT"},
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "Serve a catalog CSV instead of the ClickHouse store",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	matcher, err := buildMatcher(c)
	if err != nil {
		return err
	}

	cfg := api.DefaultConfig()
	cfg.Port = c.Int("port")

	if path := c.String("catalog"); path != "" {
		products, err := catalog.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		server := api.NewServer(nil, matcher, cfg, log.Logger)
		server.SetCatalog(products)
		return server.StartWithGracefulShutdown()
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	server := api.NewServer(store, matcher, cfg, log.Logger)
	if n, err := server.RefreshCatalog(context.Background()); err != nil {
		log.Warn().Err(err).Msg("could not load active catalog, serving empty")
	} else {
		log.Info().Int("products", n).Msg("catalog loaded")
	}
	return server.StartWithGracefulShutdown()
}

// =============================================================================
// CATALOG COMMAND
// =============================================================================

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Manage catalog snapshots",
		Subcommands: []*cli.Command{
			{
				Name:  "push",
				Usage: "Validate a catalog CSV and store it as the active snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to catalog CSV",
						Required: true,
					},
				},
				Action: runCatalogPush,
			},
			{
				Name:  "validate",
				Usage: "Validate a catalog CSV without storing it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to catalog CSV",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					products, err := catalog.LoadFile(c.String("file"))
					if err != nil {
						return err
					}
					fmt.Printf("OK: %d products\n", len(products))
					return nil
				},
			},
			{
				Name:   "snapshots",
				Usage:  "List stored catalog snapshots",
				Action: runCatalogSnapshots,
			},
		},
	}
}

func runCatalogPush(c *cli.Context) error {
	path := c.String("file")
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	products, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.PushCatalog(context.Background(), path, raw, products)
	if err != nil {
		return fmt.Errorf("failed to push catalog: %w", err)
	}
	log.Info().
		Str("snapshot", snap.ID.String()).
		Int("products", snap.ProductCount).
		Msg("catalog snapshot active")
	return nil
}

func runCatalogSnapshots(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.ListSnapshots(context.Background())
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("No catalog snapshots stored")
		return nil
	}
	fmt.Printf("%-38s %-8s %-10s %s\n", "ID", "ACTIVE", "PRODUCTS", "SOURCE")
	for _, snap := range snapshots {
		active := ""
		if snap.IsActive {
			active = "yes"
		}
		fmt.Printf("%-38s %-8s %-10d %s\n", snap.ID, active, snap.ProductCount, snap.Source)
	}
	return nil
}

// =============================================================================
// WIRING HELPERS
// =============================================================================

func buildMatcher(c *cli.Context) (*match.Matcher, error) {
	weights := match.DefaultWeights()
	if path := c.String("weights"); path != "" {
		w, err := match.LoadWeightsFromFile(path)
		if err != nil {
			return nil, err
		}
		weights = w
	}

	regions := match.DefaultRegionConfig()
	if path := c.String("regions"); path != "" {
		r, err := match.LoadRegionConfig(path)
		if err != nil {
			return nil, err
		}
		regions = r
	}

	return match.NewMatcher(weights, regions), nil
}

func loadPipeline(c *cli.Context) ([]catalog.Product, match.ProjectSpec, *match.Matcher, error) {
	var spec match.ProjectSpec

	products, err := catalog.LoadFile(c.String("catalog"))
	if err != nil {
		return nil, spec, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	b, err := os.ReadFile(c.String("spec"))
	if err != nil {
		return nil, spec, nil, fmt.Errorf("read spec: %w", err)
	}
	if err := json.Unmarshal(b, &spec); err != nil {
		return nil, spec, nil, fmt.Errorf("unmarshal spec: %w", err)
	}

	matcher, err := buildMatcher(c)
	if err != nil {
		return nil, spec, nil, err
	}
	return products, spec, matcher, nil
}

func openStore(c *cli.Context) (*clickhouse.Store, error) {
	store, err := clickhouse.NewStore(&clickhouse.Config{
		Host:     c.String("clickhouse-host"),
		Port:     c.Int("clickhouse-port"),
		Database: c.String("clickhouse-database"),
		Username: c.String("clickhouse-user"),
		Password: c.String("clickhouse-password"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return store, nil
}
