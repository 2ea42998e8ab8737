package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pricecharts/internal"
	"pricecharts/internal/config"
	"pricecharts/internal/container"
	"pricecharts/internal/errors"
	"pricecharts/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// flagOverrides holds CLI values that replace configuration when set
type flagOverrides struct {
	input    string
	out      string
	png      bool
	exporter string
	scale    float64
	currency string
	index    bool
	manifest bool
}

func newRootCmd() *cobra.Command {
	var f flagOverrides

	cmd := &cobra.Command{
		Use:   "pricecharts",
		Short: "Turn a product catalogue into six interactive charts",
		Long: `Read a product catalogue (CSV or XLSX), clean prices and ratings, and write six
standalone HTML charts, optionally with PNG copies, into an output directory.

Settings come from the environment (or a .env file); flags win.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			return runReport(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.input, "input", "", "Catalogue file (.csv or .xlsx)")
	flags.StringVar(&f.out, "out", "", "Output directory")
	flags.BoolVar(&f.png, "png", true, "Also write PNG copies of each chart")
	flags.StringVar(&f.exporter, "exporter", "", "PNG exporter: plot, browser or none")
	flags.Float64Var(&f.scale, "scale", 0, "PNG scale factor")
	flags.StringVar(&f.currency, "currency", "", "Currency symbol stripped from prices")
	flags.BoolVar(&f.index, "index", false, "Write index.html linking every chart")
	flags.BoolVar(&f.manifest, "manifest", false, "Write manifest.json describing the run")

	cmd.AddCommand(newServeCmd())
	return cmd
}

func loadConfig(cmd *cobra.Command, f *flagOverrides) (*config.Config, error) {
	cfg := config.FromEnv()

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Path = f.input
	}
	if flags.Changed("out") {
		cfg.Output.Dir = f.out
	}
	if flags.Changed("png") {
		cfg.Images.Enabled = f.png
	}
	if flags.Changed("exporter") {
		cfg.Images.Exporter = f.exporter
	}
	if flags.Changed("scale") {
		cfg.Images.Scale = f.scale
	}
	if flags.Changed("currency") {
		cfg.Input.CurrencySymbol = f.currency
	}
	if flags.Changed("index") {
		cfg.Output.WriteIndex = f.index
	}
	if flags.Changed("manifest") {
		cfg.Output.WriteManifest = f.manifest
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func runReport(cmd *cobra.Command, cfg *config.Config) error {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	defer logger.Sync()

	c, err := container.New(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	_, err = c.Report.Generate(cmd.Context(), c.ReportOptions())
	return err
}

func newServeCmd() *cobra.Command {
	var dir, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the output directory for preview in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// serve only needs the output dir and address; report settings are not checked
			cfg := config.FromEnv()
			if cmd.Flags().Changed("dir") {
				cfg.Output.Dir = dir
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			defer logger.Sync()

			server, err := ui.NewApp(ui.Config{Dir: cfg.Output.Dir, Addr: cfg.Server.Addr}, logger)
			if err != nil {
				return err
			}
			return server.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to serve (default OUTPUT_DIR or plots)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default SERVE_ADDR or :8080)")
	return cmd
}
