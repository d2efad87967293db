package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

// app carries what every subcommand needs once flags and env are resolved.
type app struct {
	cfg    *common.Config
	logger *slog.Logger

	envFile   string
	logLevel  string
	logFormat string
	input     string
	output    string
	rules     string
	workers   int
	sqlite    bool
	pgDSN     string
	version   string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog-extract",
		Short: "Turn scanned catalog pages into a product database",
		Long: `catalog-extract recognizes the text on every page image of a jewelry catalog,
extracts price, material, type and description, and writes productos.json,
search_index.json, catalogo-productos.js and web-sized page images.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	f.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	f.StringVar(&a.logFormat, "log-format", "", "json or text (LOG_FORMAT)")
	f.StringVarP(&a.input, "input", "i", "", "directory of page images (CATALOG_INPUT_DIR)")
	f.StringVarP(&a.output, "output", "o", "", "artifact directory (CATALOG_OUTPUT_DIR)")
	f.StringVar(&a.rules, "rules", "", "YAML file overriding the extraction rules (EXTRACT_RULES_FILE)")
	f.IntVarP(&a.workers, "workers", "w", 0, "pages processed at once (PIPELINE_WORKERS)")
	f.BoolVar(&a.sqlite, "sqlite", false, "also write productos.db (CATALOG_SQLITE)")
	f.StringVar(&a.pgDSN, "pg-dsn", "", "publish the catalog to Postgres (CATALOG_PG_DSN)")
	f.StringVar(&a.version, "catalog-version", "", "version tag stored in the database (CATALOG_VERSION)")

	root.AddCommand(newRunCmd(a), newWatchCmd(a), newOCRCmd(a))
	return root
}

// load resolves configuration: .env, then the environment, then explicitly set flags.
func (a *app) load(cmd *cobra.Command) error {
	if err := godotenv.Load(a.envFile); err != nil && !os.IsNotExist(err) {
		return common.NewAppError(common.CodeConfig, "load "+a.envFile, err)
	}

	cfg := common.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("input") {
		cfg.Paths.InputDir = a.input
	}
	if flags.Changed("output") {
		cfg.Paths.OutputDir = a.output
	}
	if flags.Changed("rules") {
		cfg.Extract.RulesFile = a.rules
	}
	if flags.Changed("workers") {
		cfg.Pipeline.Workers = a.workers
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLite = a.sqlite
	}
	if flags.Changed("pg-dsn") {
		cfg.Output.PostgresDSN = a.pgDSN
	}
	if flags.Changed("catalog-version") {
		cfg.Output.CatalogVersion = a.version
	}

	a.logger = common.NewLogger(os.Stderr, cfg.Log)
	slog.SetDefault(a.logger)

	if err := cfg.Validate(); err != nil {
		a.logger.Error("invalid configuration", "error", err)
		return err
	}
	a.cfg = cfg
	return nil
}
