// Package main converts a tree of legacy Sphere scripts into def files.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sphereconv/internal/config"
	"github.com/cory-johannsen/sphereconv/internal/importer"
	"github.com/cory-johannsen/sphereconv/internal/importer/sphere"
	"github.com/cory-johannsen/sphereconv/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "optional path to configuration file")
	sourceDir := flag.String("source", "", "path to the script source tree")
	outputDir := flag.String("output", "", "path to the output directory")
	rootRegion := flag.String("root-region", "", "name of the root region")
	verbose := flag.Bool("verbose", false, "log informational diagnostics")
	flag.Parse()

	v, err := config.New(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *sourceDir != "" {
		v.Set("convert.source_dir", *sourceDir)
	}
	if *outputDir != "" {
		v.Set("convert.output_dir", *outputDir)
	}
	if *rootRegion != "" {
		v.Set("convert.root_region", *rootRegion)
	}
	if *verbose {
		v.Set("logging.level", "debug")
	}

	cfg, err := config.LoadFromViper(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage: sphereconv [-config <file>] -source <dir> -output <dir> [-root-region <name>] [-verbose]")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	start := time.Now()
	src := sphere.NewSource(cfg.Convert.Extensions, logger)
	imp := importer.New(src, logger, importer.Options{
		OutputDir:       cfg.Convert.OutputDir,
		OutputExtension: cfg.Convert.OutputExtension,
		StripPrefixes:   cfg.Convert.StripPrefixes,
		RootRegion:      cfg.Convert.RootRegion,
		Report:          cfg.Convert.Report,
	})
	if _, err := imp.Run(cfg.Convert.SourceDir); err != nil {
		logger.Error("conversion aborted", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("conversion finished", zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}
