package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
	"github.com/leicestersquare/OpenGraphics/internal/localization"
)

// ErrNotFound reports an input path that is neither an existing file
// nor a directory.
var ErrNotFound = errors.New("export: input path not found")

// ErrIDWithDirectory reports an explicit id override combined with a
// directory input. One id cannot name many objects: every object would
// resolve to the same output path and the exports would overwrite each
// other.
var ErrIDWithDirectory = errors.New("export: id override requires a single-file input")

// legacyExtension is the case-insensitive extension filter for
// directory inputs.
const legacyExtension = ".dat"

// Options configures one export run.
type Options struct {
	// Split decomposes footpath objects into surface, queue, and
	// railings sub-objects.
	Split bool
	// RawImages extracts image slices as loose files instead of
	// compiling them or referencing the source file.
	RawImages bool
	// Zip packages each directory-layout export into a .parkobj
	// archive.
	Zip bool
	// ObjectType, when non-empty, restricts a directory run to one
	// objectType tag.
	ObjectType string
	// ID overrides the built identifier; split variants append their
	// suffix to it literally. Only valid for single-file inputs.
	ID string
	// Authors overrides the provenance-default author list.
	Authors []string
	// Workers bounds directory-run parallelism. Values below 1 mean
	// serial processing.
	Workers int
}

// Result summarizes a batch run.
type Result struct {
	Processed int
	Skipped   int
	Elapsed   time.Duration
}

// Exporter drives the per-object pipeline over a file or directory
// input. The reader, image compiler, and override strings are injected
// so every external collaborator is substitutable.
type Exporter struct {
	reader    legacy.Reader
	compile   CompileFunc
	overrides localization.Overrides
	logger    *zap.Logger
	opts      Options
}

// New constructs an Exporter.
//
// Precondition: reader, compile, and logger must be non-nil; overrides
// may be nil when no localization source is configured.
func New(reader legacy.Reader, compile CompileFunc, overrides localization.Overrides, logger *zap.Logger, opts Options) *Exporter {
	return &Exporter{
		reader:    reader,
		compile:   compile,
		overrides: overrides,
		logger:    logger,
		opts:      opts,
	}
}

// Run exports the object file or object directory at inputPath into
// outputRoot.
//
// A missing input yields ErrNotFound, an id override on a directory
// input yields ErrIDWithDirectory, and an uncreatable output root
// yields an error; all are fatal for the run. Inside a directory run,
// per-object read or pipeline failures are logged and skipped without
// aborting sibling objects.
func (e *Exporter) Run(inputPath, outputRoot string) (Result, error) {
	start := time.Now()

	info, err := os.Stat(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, inputPath)
		}
		return Result{}, fmt.Errorf("inspecting input path %s: %w", inputPath, err)
	}
	if info.IsDir() && e.opts.ID != "" {
		return Result{}, fmt.Errorf("%w: %s", ErrIDWithDirectory, inputPath)
	}
	if err := os.MkdirAll(outputRoot, 0755); err != nil {
		return Result{}, fmt.Errorf("creating output root %s: %w", outputRoot, err)
	}

	var res Result
	if info.IsDir() {
		res, err = e.runDirectory(inputPath, outputRoot)
	} else {
		err = e.exportFile(inputPath, outputRoot, false)
		if err == nil {
			res.Processed = 1
		}
	}
	res.Elapsed = time.Since(start)
	if err != nil {
		return res, err
	}

	e.logger.Info("export run complete",
		zap.Int("processed", res.Processed),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", res.Elapsed.Round(time.Millisecond)))
	return res, nil
}

// runDirectory enumerates the legacy files under dir and exports them
// with a bounded worker pool. Each object writes to its own disjoint
// output subtree, so workers share nothing mutable; per-object results
// land in a per-index slot and are reduced after the join.
func (e *Exporter) runDirectory(dir, outputRoot string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), legacyExtension) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	workers := e.opts.Workers
	if workers < 1 {
		workers = 1
	}

	ok := make([]bool, len(paths))
	var group errgroup.Group
	group.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			err := e.exportFile(path, outputRoot, true)
			switch {
			case errors.Is(err, errFiltered):
				// Filtered objects are not failures; they simply do
				// not count as processed.
			case err != nil:
				e.logger.Warn("object skipped", zap.String("path", path), zap.Error(err))
			default:
				ok[i] = true
			}
			return nil
		})
	}
	// Per-object failures never surface here; the group exists for the
	// bounded-parallel join.
	_ = group.Wait()

	var res Result
	for _, succeeded := range ok {
		if succeeded {
			res.Processed++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

// errFiltered marks an object excluded by the category or type filter.
var errFiltered = errors.New("export: object filtered")

// exportFile reads one legacy file and runs the full pipeline on it.
// The category and type filters only apply to directory runs; an
// explicitly named single file is always attempted.
func (e *Exporter) exportFile(path string, outputRoot string, filter bool) error {
	obj, err := e.reader.Read(path)
	if err != nil {
		return fmt.Errorf("reading object: %w", err)
	}
	if filter {
		if obj.Category == legacy.CategoryOther {
			return fmt.Errorf("%w: non-exportable category %s", errFiltered, obj.Category)
		}
		if e.opts.ObjectType != "" && obj.Category.TypeTag() != e.opts.ObjectType {
			return fmt.Errorf("%w: type %s", errFiltered, obj.Category)
		}
	}
	return e.exportObject(obj, outputRoot)
}

// exportObject runs the pipeline for one decoded object: split
// decision, then per variant the slice plan, property mapping, string
// selection, assembly, and serialization.
func (e *Exporter) exportObject(obj *legacy.Object, outputRoot string) error {
	subs := Split(obj, e.opts.ID, e.opts.Split)
	strs := SelectStrings(obj, e.overrides)

	for _, sub := range subs {
		mode := e.imageMode(sub.Variant)
		dirLayout := len(subs) > 1 || mode != ImagesReference || e.opts.ID != ""

		var outPath, objDir string
		if dirLayout {
			objDir = filepath.Join(outputRoot, sub.ID)
			outPath = filepath.Join(objDir, "object.json")
		} else {
			outPath = filepath.Join(outputRoot,
				obj.Provenance.Tag(), obj.Category.TypeTag(), sub.ID+".json")
		}

		if dirLayout {
			if err := os.MkdirAll(objDir, 0755); err != nil {
				return fmt.Errorf("creating object directory %s: %w", objDir, err)
			}
		}

		images, err := materializeImages(obj, sub.Variant, mode, filepath.Dir(outPath), e.compile, e.logger)
		if err != nil {
			return fmt.Errorf("planning images for %s: %w", sub.ID, err)
		}

		props := MapProperties(obj, sub.Variant)
		desc := Assemble(sub, obj, props, images, strs, e.opts.Authors)
		if err := desc.Write(outPath); err != nil {
			return err
		}

		e.logger.Info("exported object",
			zap.String("source", strings.ToUpper(obj.FileName)),
			zap.String("id", sub.ID),
			zap.String("variant", sub.Variant.String()))

		if dirLayout && e.opts.Zip {
			archive := filepath.Join(outputRoot, sub.ID+".parkobj")
			if err := PackageDir(objDir, archive); err != nil {
				return err
			}
		}
	}
	return nil
}

// imageMode selects the materialization mode for a variant: split
// variants always materialize (raw or compiled); an unsplit export
// references the source file unless raw extraction was requested.
func (e *Exporter) imageMode(variant Variant) ImageMode {
	if variant == VariantNone {
		if e.opts.RawImages {
			return ImagesRaw
		}
		return ImagesReference
	}
	if e.opts.RawImages {
		return ImagesRaw
	}
	return ImagesCompiled
}
