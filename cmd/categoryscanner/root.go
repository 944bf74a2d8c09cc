package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"CategoryScanner/internal/app"
	"CategoryScanner/internal/config"
	"CategoryScanner/internal/logging"
)

// NewRootCmd creates the root command; running it performs one scan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categoryscanner",
		Short: "Tally repeated categories across pages linked from a seed page",
		Long: `categoryscanner fetches a seed page, collects its same-site article links,
fetches every linked page concurrently and reports the category labels that
occur more than once.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScan,
	}

	persistent := cmd.PersistentFlags()
	persistent.StringP("config", "c", "", "path to YAML config (defaults to $CATEGORY_SCANNER_CONFIG)")
	persistent.StringP("format", "f", "", "report format: table, json or markdown")
	persistent.String("log-level", "", "log level: debug, info, warn or error")

	flags := cmd.Flags()
	flags.String("seed", "", "seed page URL")
	flags.Int("limit", 0, "maximum number of anchors considered on the seed page (0 = all)")
	flags.Int("concurrency", 0, "maximum in-flight page fetches (0 = unbounded)")
	flags.String("failure-policy", "", "per-link failure handling: skip or abort")

	cmd.AddCommand(NewShowCmd(), NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("scan failed", "error", err)
		return err
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("seed") {
		v, err := flags.GetString("seed")
		if err != nil {
			return err
		}
		cfg.Crawl.SeedURL = v
	}
	if flags.Changed("limit") {
		v, err := flags.GetInt("limit")
		if err != nil {
			return err
		}
		cfg.Crawl.LinkLimit = v
	}
	if flags.Changed("concurrency") {
		v, err := flags.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Crawl.Concurrency = v
	}
	if flags.Changed("failure-policy") {
		v, err := flags.GetString("failure-policy")
		if err != nil {
			return err
		}
		cfg.Crawl.FailurePolicy = v
	}
	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return err
		}
		cfg.Report.Format = v
	}
	if flags.Changed("log-level") {
		v, err := flags.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.Logging.Level = v
	}

	return nil
}
