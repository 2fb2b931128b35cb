package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/sphereconv/internal/convert"
	"github.com/cory-johannsen/sphereconv/internal/region"
)

// ReportFileName is the name of the report written into the output directory.
const ReportFileName = "conversion-report.yaml"

// Report summarises one conversion run.
type Report struct {
	RunID       string           `yaml:"run_id"`
	Started     time.Time        `yaml:"started"`
	Duration    string           `yaml:"duration"`
	Files       []FileReport     `yaml:"files"`
	Diagnostics DiagnosticCounts `yaml:"diagnostics"`
	Regions     RegionReport     `yaml:"regions"`
}

// FileReport holds the per-file definition counts.
type FileReport struct {
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	Converted  int    `yaml:"converted"`
	Suppressed int    `yaml:"suppressed"`
	Failed     int    `yaml:"failed"`
}

// DiagnosticCounts holds the number of messages per severity.
type DiagnosticCounts struct {
	Info     int `yaml:"info"`
	Warnings int `yaml:"warnings"`
	Errors   int `yaml:"errors"`
}

// RegionReport describes the resolved region tree.
type RegionReport struct {
	Resolved   bool          `yaml:"resolved"`
	Tree       []RegionEntry `yaml:"tree,omitempty"`
	Unresolved []string      `yaml:"unresolved,omitempty"`
}

// RegionEntry is one region in the tree.
type RegionEntry struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`
	Depth  int    `yaml:"depth"`
	Plane  uint8  `yaml:"plane"`
}

func regionReport(b *convert.Batch) RegionReport {
	rep := RegionReport{Resolved: true}
	for _, r := range region.Regions(b) {
		if r.Depth == region.Unresolved {
			rep.Resolved = false
			rep.Unresolved = append(rep.Unresolved, r.Name())
			continue
		}
		e := RegionEntry{Name: r.Name(), Depth: r.Depth, Plane: r.Plane}
		if p := r.Parent(); p != nil {
			e.Parent = p.Name()
		}
		rep.Tree = append(rep.Tree, e)
	}
	if !rep.Resolved {
		rep.Tree = nil
	}
	return rep
}

// WriteReport serialises rep as YAML into outputDir.
//
// Postcondition: outputDir/conversion-report.yaml exists, or a non-nil error is returned.
func WriteReport(outputDir string, rep *Report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("serialising report: %w", err)
	}
	path := filepath.Join(outputDir, ReportFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}
