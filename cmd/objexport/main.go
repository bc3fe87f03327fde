// Package main provides the objexport binary: it converts legacy
// object-data files into portable object descriptors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leicestersquare/OpenGraphics/internal/config"
	"github.com/leicestersquare/OpenGraphics/internal/export"
	"github.com/leicestersquare/OpenGraphics/internal/legacy/datfile"
	"github.com/leicestersquare/OpenGraphics/internal/localization"
	"github.com/leicestersquare/OpenGraphics/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	input := flag.String("input", "", "legacy object file or directory of object files")
	output := flag.String("output", "", "output root directory")
	languageDir := flag.String("language", "", "directory of override-string language files")
	id := flag.String("id", "", "explicit descriptor id override")
	objectType := flag.String("type", "", "restrict directory runs to one object type")
	split := flag.Bool("split", false, "split footpath objects into surface/queue/railings")
	raw := flag.Bool("raw", false, "extract raw images instead of compiling or referencing them")
	zipOut := flag.Bool("zip", false, "package directory exports as .parkobj archives")
	workers := flag.Int("workers", 0, "parallel workers for directory runs; 0 = config default")
	compiler := flag.String("compiler", "", "image compiler binary; empty = config default")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: objexport -input <file|dir> -output <dir> [options]")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}
	applyFlagOverrides(&cfg, *languageDir, *objectType, *split, *raw, *zipOut, *workers, *compiler)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	base, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer base.Sync()
	logger := observability.NewRunLogger(base)

	var overrides localization.Overrides
	if cfg.Export.LanguageDir != "" {
		overrides, err = localization.Load(cfg.Export.LanguageDir)
		if err != nil {
			logger.Fatal("loading override strings", zap.Error(err))
		}
	}

	exporter := export.New(
		datfile.NewReader(),
		export.NewCommandCompiler(cfg.Export.CompilerPath),
		overrides,
		logger,
		export.Options{
			Split:      cfg.Export.Split,
			RawImages:  cfg.Export.RawImages,
			Zip:        cfg.Export.Zip,
			ObjectType: cfg.Export.ObjectType,
			ID:         *id,
			Workers:    cfg.Export.Workers,
		},
	)

	res, err := exporter.Run(*input, *output)
	switch {
	case errors.Is(err, export.ErrNotFound):
		fmt.Fprintf(os.Stderr, "error: input path %s does not exist\n", *input)
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("exported %d object(s) in %s\n",
		res.Processed, res.Elapsed.Round(time.Millisecond))
}

// applyFlagOverrides folds the command line into the loaded
// configuration; flags win where they were actually set.
func applyFlagOverrides(cfg *config.Config, languageDir, objectType string, split, raw, zipOut bool, workers int, compiler string) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["language"] {
		cfg.Export.LanguageDir = languageDir
	}
	if set["type"] {
		cfg.Export.ObjectType = strings.ToLower(objectType)
	}
	if set["split"] {
		cfg.Export.Split = split
	}
	if set["raw"] {
		cfg.Export.RawImages = raw
	}
	if set["zip"] {
		cfg.Export.Zip = zipOut
	}
	if set["workers"] && workers > 0 {
		cfg.Export.Workers = workers
	}
	if set["compiler"] && compiler != "" {
		cfg.Export.CompilerPath = compiler
	}
}
