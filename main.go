package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jjscout/hellscore-merch-qr/api"
	"github.com/jjscout/hellscore-merch-qr/config"
	"github.com/jjscout/hellscore-merch-qr/generator"
	"github.com/jjscout/hellscore-merch-qr/output"
)

var version = "v0.1.0"

// runOptions are the flags shared by the batch commands.
type runOptions struct {
	configPath string
	outputDir  string
	catalog    string
	font       string
	types      []string
	quiet      bool
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "config.yaml", "Path to config file")
	cmd.Flags().StringVarP(&o.outputDir, "out", "o", "", "Output directory (wiped before the run)")
	cmd.Flags().StringVar(&o.catalog, "catalog", "", "Catalog file (YAML or JSON); built-in catalog when empty")
	cmd.Flags().StringVar(&o.font, "font", "", "TrueType/OpenType caption font")
	cmd.Flags().StringSliceVarP(&o.types, "type", "t", nil, "Only generate these item types")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "Suppress per-label progress lines")
}

func main() {
	root := &cobra.Command{
		Use:   "merch-qr",
		Short: "Generate printable QR labels for merch item variations",
	}

	// --- generate command ----------------------------------------------------
	var genOpts runOptions
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write one label PNG per variation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.OutOrStdout(), &genOpts, false, 0, 0)
		},
	}
	genOpts.register(generateCmd)
	root.AddCommand(generateCmd)

	// --- sheet command -------------------------------------------------------
	var (
		sheetOpts  runOptions
		rows, cols int
	)
	sheetCmd := &cobra.Command{
		Use:   "sheet",
		Short: "Write one rows x cols label sheet per variation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.OutOrStdout(), &sheetOpts, true, rows, cols)
		},
	}
	sheetOpts.register(sheetCmd)
	sheetCmd.Flags().IntVar(&rows, "rows", 0, "Sheet rows (config grid.rows when 0)")
	sheetCmd.Flags().IntVar(&cols, "cols", 0, "Sheet columns (config grid.cols when 0)")
	root.AddCommand(sheetCmd)

	// --- list command --------------------------------------------------------
	var listOpts runOptions
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the variations and their captions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), &listOpts)
		},
	}
	listOpts.register(listCmd)
	root.AddCommand(listCmd)

	// --- serve command -------------------------------------------------------
	var (
		serveOpts runOptions
		port      int
	)
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered label previews over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(&serveOpts, port)
		},
	}
	serveOpts.register(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (config port when 0)")
	root.AddCommand(serveCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("merch-qr %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config, applies flag overrides, installs the logger and builds
// the generator.
func setup(opts *runOptions) (*config.Config, *generator.Generator, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.catalog != "" {
		cfg.Catalog = opts.catalog
	}
	if opts.font != "" {
		cfg.Font.Path = opts.font
	}
	if opts.quiet {
		cfg.Verbose = false
	}

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	gen, err := generator.FromConfig(cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create generator: %w", err)
	}
	return cfg, gen, log, nil
}

// runGenerate resets the output directory and writes single labels, or one
// sheet per variation when sheets is set.
func runGenerate(out io.Writer, opts *runOptions, sheets bool, rows, cols int) error {
	cfg, gen, log, err := setup(opts)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		gen.Progress = out
	}

	sink, err := output.NewSink(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("reset output dir: %w", err)
	}

	if rows == 0 {
		rows = cfg.Grid.Rows
	}
	if cols == 0 {
		cols = cfg.Grid.Cols
	}

	var sum generator.Summary
	if sheets {
		sum, err = gen.RunSheets(sink, opts.types, rows, cols)
	} else {
		sum, err = gen.Run(sink, opts.types)
	}
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	log.Debug("run finished", "run_id", sum.RunID, "labels", sum.Labels)
	return nil
}

// runList prints every variation with its caption.
func runList(out io.Writer, opts *runOptions) error {
	_, gen, _, err := setup(opts)
	if err != nil {
		return err
	}
	vs, err := gen.Variations(opts.types)
	if err != nil {
		return err
	}
	for _, v := range vs {
		fmt.Fprintf(out, "%-40s %q\n", v.Key(), gen.Layout.Text(v))
	}
	fmt.Fprintf(out, "%d variations\n", len(vs))
	return nil
}

// runServe starts the preview server and blocks until SIGINT/SIGTERM.
func runServe(opts *runOptions, port int) error {
	cfg, gen, log, err := setup(opts)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Port
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", port),
		Handler: api.NewRouter(&api.Server{
			Generator: gen,
			Log:       log,
			Version:   version,
			StartTime: time.Now(),
			SheetRows: cfg.Grid.Rows,
			SheetCols: cfg.Grid.Cols,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	return nil
}
