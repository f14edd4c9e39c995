package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/redshirtrob/blb-extractor/internal/config"
	"github.com/redshirtrob/blb-extractor/internal/logging"
	"github.com/redshirtrob/blb-extractor/internal/observability"
	"github.com/redshirtrob/blb-extractor/internal/output"
	"github.com/redshirtrob/blb-extractor/internal/pipeline"
	"github.com/redshirtrob/blb-extractor/internal/registry"
)

// exitUnclassified is returned when a report has no recognized marker.
const exitUnclassified = 3

var parseReportCmd = &cobra.Command{
	Use:   "parse-report FILE",
	Short: "Classify, parse and route a league report",
	Long: `Classify a report, parse it with the league's name registry, normalize it into
boxscores (unless --skip-clean), and write it to exactly one destination:
--stash wins over --use-db, which wins over stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runParseReport,
}

var parseOpts config.Config
var parseConfigFile string

func init() {
	f := parseReportCmd.Flags()
	f.StringVar(&parseOpts.Stash, "stash", "", "Stash directory, or s3://bucket/prefix")
	f.BoolVar(&parseOpts.UseDB, "use-db", false, "Insert into the document store")
	f.StringVar(&parseOpts.DatabaseURL, "db-url", "", "Document store URL: postgres://... or a SQLite path (default $DATABASE_URL)")
	f.BoolVar(&parseOpts.SkipClean, "skip-clean", false, "Emit the raw tree instead of normalized boxscores")
	f.StringVar(&parseOpts.League, "league", "", "Name registry to parse with (default blb)")
	f.StringVar(&parseOpts.RegistryFile, "registry", "", "YAML file with additional league registries")
	f.StringVar(&parseOpts.OnCollision, "on-collision", "", "Stash name collision policy: overwrite, fail or suffix (default overwrite)")
	f.BoolVar(&parseOpts.AllowUnknown, "allow-unknown", false, "Exit 0 without output when the report kind is not recognized")
	f.BoolVarP(&parseOpts.Verbose, "verbose", "v", false, "Print summaries to stderr")
	f.StringVar(&parseOpts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.StringVar(&parseOpts.LogFormat, "log-format", "", "Log format: text or json")
	f.StringVar(&parseConfigFile, "config", "", "YAML or JSON config file; flags override it")

	rootCmd.AddCommand(parseReportCmd)
}

// resolveConfig layers flags over the config file, the environment and defaults.
func resolveConfig(flags config.Config, configFile string) (config.Config, error) {
	cfg := flags
	if configFile != "" {
		fileCfg, err := config.LoadConfig(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg.ApplyEnv(os.Getenv)
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runParseReport(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(parseOpts, parseConfigFile)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, cfg.LogFormat, cmd.ErrOrStderr())

	reg, err := lookupRegistry(cfg.League, cfg.RegistryFile)
	if err != nil {
		return err
	}

	sink, err := output.New(&cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		Path:         args[0],
		Registry:     reg,
		SkipClean:    cfg.SkipClean,
		AllowUnknown: cfg.AllowUnknown,
		Sink:         sink,
	}
	if cfg.Verbose {
		opts.Printer = observability.NewPrinter(cmd.ErrOrStderr())
	}

	outcome, err := pipeline.Run(context.Background(), opts)
	if err != nil {
		return err
	}
	if outcome.Status == pipeline.StatusUnclassified && !cfg.AllowUnknown {
		return &exitError{
			code: exitUnclassified,
			err:  fmt.Errorf("%s: no recognized report marker (use --allow-unknown to ignore)", args[0]),
		}
	}
	return nil
}

func lookupRegistry(league, registryFile string) (registry.Registry, error) {
	catalog, err := loadCatalog(registryFile)
	if err != nil {
		return registry.Registry{}, err
	}
	return catalog.Lookup(league)
}

// loadCatalog returns the built-in registries plus any defined in registryFile.
func loadCatalog(registryFile string) (*registry.Catalog, error) {
	catalog := registry.NewCatalog()
	if registryFile != "" {
		if err := catalog.LoadFile(registryFile); err != nil {
			return nil, fmt.Errorf("failed to load registries: %w", err)
		}
	}
	return catalog, nil
}
