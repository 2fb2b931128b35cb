// Package importer drives a conversion run: it loads a source tree, runs
// the conversion passes over every definition and writes the output files.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sphereconv/internal/convert"
	"github.com/cory-johannsen/sphereconv/internal/families"
)

// Options configures where and how output is written.
type Options struct {
	OutputDir       string
	OutputExtension string
	StripPrefixes   []string
	RootRegion      string
	// Report enables writing conversion-report.yaml.
	Report bool
}

// Importer orchestrates a conversion from a Source to an output directory.
type Importer struct {
	source Source
	logger *zap.Logger
	opts   Options
}

// New constructs an Importer backed by the given Source.
//
// Precondition: source must be non-nil.
// Postcondition: returns a non-nil Importer; a nil logger discards output.
func New(source Source, logger *zap.Logger, opts Options) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{source: source, logger: logger, opts: opts}
}

// Run loads every input file under sourceDir, converts the whole set as one
// batch and writes one output file per input file.
//
// Precondition: sourceDir must satisfy the source's layout requirements;
// OutputDir must exist or be creatable.
// Postcondition: on success every output file has been written and the
// report describes the run. When loading or conversion fails nothing is
// written.
func (imp *Importer) Run(sourceDir string) (*Report, error) {
	runID := uuid.NewString()
	logger := imp.logger.With(zap.String("run_id", runID))
	overall := time.Now()

	t0 := time.Now()
	files, err := imp.source.Load(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	logger.Info("loaded source",
		zap.Int("files", len(files)),
		zap.Duration("elapsed", time.Since(t0)),
	)

	diag := convert.NewDiagnostics(logger)
	batch := convert.NewBatch(families.NewCatalog(), diag, convert.Options{RootRegion: imp.opts.RootRegion})
	for _, f := range files {
		batch.Add(f)
	}

	t1 := time.Now()
	if err := batch.Run(); err != nil {
		return nil, fmt.Errorf("converting definitions: %w", err)
	}
	logger.Info("converted definitions",
		zap.Int("definitions", len(batch.Definitions())),
		zap.Duration("elapsed", time.Since(t1)),
	)

	if err := os.MkdirAll(imp.opts.OutputDir, 0755); err != nil {
		return nil, convert.Fatal("creating output directory "+imp.opts.OutputDir, err)
	}

	rep := &Report{RunID: runID, Started: overall}
	for _, u := range batch.Units() {
		path, err := imp.flush(u)
		if err != nil {
			return nil, err
		}
		converted, suppressed, failed := u.Counts()
		rep.Files = append(rep.Files, FileReport{
			Input:      u.Source.RelPath,
			Output:     path,
			Converted:  converted,
			Suppressed: suppressed,
			Failed:     failed,
		})
		logger.Debug("wrote output",
			zap.String("path", path),
			zap.Int("definitions", len(u.Definitions)),
		)
	}

	rep.Duration = time.Since(overall).Round(time.Millisecond).String()
	rep.Diagnostics = DiagnosticCounts{
		Info:     diag.Count(convert.SeverityInfo),
		Warnings: diag.Count(convert.SeverityWarning),
		Errors:   diag.Count(convert.SeverityError),
	}
	rep.Regions = regionReport(batch)

	if imp.opts.Report {
		if err := WriteReport(imp.opts.OutputDir, rep); err != nil {
			return nil, convert.Fatal("writing report", err)
		}
	}

	logger.Info("conversion complete",
		zap.Int("files", len(rep.Files)),
		zap.Int("warnings", rep.Diagnostics.Warnings),
		zap.Int("errors", rep.Diagnostics.Errors),
		zap.String("total", rep.Duration),
	)
	return rep, nil
}

func (imp *Importer) flush(u *convert.Unit) (string, error) {
	path := OutputPath(imp.opts.OutputDir, u.Source.RelPath, imp.opts.StripPrefixes, imp.opts.OutputExtension)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", convert.Fatal("creating directory for "+path, err)
	}
	if err := os.WriteFile(path, u.Render(), 0644); err != nil {
		return "", convert.Fatal("writing "+path, err)
	}
	return path, nil
}
