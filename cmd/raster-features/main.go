package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/raster-features/internal/config"
	"github.com/ironsheep/raster-features/internal/ingest"
	"github.com/ironsheep/raster-features/internal/pipeline"
	"github.com/ironsheep/raster-features/internal/raster"
	"github.com/ironsheep/raster-features/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("raster-features - SAR and optical raster feature extraction")
	fmt.Println()
	fmt.Println("Usage: raster-features <command> [--config path]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run              Process every scene under data_root and print a summary")
	fmt.Println("  serve            Serve the extractors as MCP tools over stdin/stdout")
	fmt.Println("  version          Print version information")
	fmt.Println("  help             Print this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config path    YAML configuration file (defaults apply when omitted)")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Override log_level\n", config.EnvLogLevel)
}

func main() {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("raster-features %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage()
		return
	}
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v":
			fmt.Printf("raster-features %s\n", Version)
			return
		case "--help", "-h":
			usage()
			return
		}
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raster-features: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout carries the summary or the MCP protocol.
	log := cfg.NewLogger(os.Stderr)
	log.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
		"gdal":    raster.GDALAvailable(),
	}).Debug("raster-features starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	switch cmd {
	case "run":
		code := run(ctx, cfg, log)
		stop()
		os.Exit(code)
	case "serve":
		server.Version = Version
		srv := server.New(raster.NewGDALSource(), raster.NewGDALSink(), cfg, log)
		err := srv.Run(ctx)
		stop()
		if err != nil {
			log.WithError(err).Fatal("server error")
		}
	default:
		stop()
		fmt.Fprintf(os.Stderr, "raster-features: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

// run executes the batch pipeline and returns the process exit code: 0 when
// every file succeeded, 1 when any failed.
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) int {
	log.Info("=== Raster feature extraction pipeline ===")

	inv, err := ingest.Discover(cfg.DataRoot)
	if err != nil {
		log.WithError(err).Error("discovery failed")
		return 1
	}

	r := &pipeline.Runner{
		Source: raster.NewGDALSource(),
		Sink:   raster.NewGDALSink(),
		Config: cfg,
		Log:    log,
	}
	sum, err := r.Run(ctx, inv)
	if err != nil {
		log.WithError(err).Error("pipeline interrupted")
	}

	log.Info("=== Processing summary ===")
	if err := sum.Format(os.Stdout); err != nil {
		log.WithError(err).Error("failed to write summary")
		return 1
	}

	if err != nil || sum.Failed() > 0 {
		return 1
	}
	return 0
}
