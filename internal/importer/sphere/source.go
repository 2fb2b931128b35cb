package sphere

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sphereconv/internal/convert"
	"github.com/cory-johannsen/sphereconv/internal/importer"
)

var _ importer.Source = (*Source)(nil)

// Source implements importer.Source for a Sphere script tree: every file
// whose extension is listed is parsed, at any depth below the root.
type Source struct {
	extensions []string
	logger     *zap.Logger
}

// NewSource constructs a Source matching extensions case-insensitively.
// A nil logger discards parser warnings.
func NewSource(extensions []string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &Source{extensions: exts, logger: logger}
}

// Load walks sourceDir in lexical order and parses every matching file.
// Parser warnings are logged and never abort the load.
//
// Precondition: sourceDir must be a readable directory.
// Postcondition: returns the parsed files with RelPath set relative to
// sourceDir, or a non-nil error.
func (s *Source) Load(sourceDir string) ([]*convert.SourceFile, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", sourceDir)
	}

	var files []*convert.SourceFile
	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(s.extensions, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		file, err := s.parseFile(path, rel)
		if err != nil {
			return err
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", sourceDir, err)
	}
	return files, nil
}

func (s *Source) parseFile(path, rel string) (*convert.SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script file %s: %w", path, err)
	}
	defer f.Close()

	file, warnings, err := Parse(f, rel)
	if err != nil {
		return nil, fmt.Errorf("parsing script file %s: %w", path, err)
	}
	file.Path = path
	for _, w := range warnings {
		s.logger.Warn(w)
	}
	return file, nil
}
