package importer

import (
	"path/filepath"
	"strings"
)

// OutputName converts an input base name to its output file name: the
// extension is replaced by ext, the name is lowercased and the first
// matching prefix in strip is removed.
//
// Postcondition: result is lowercase, ends with ext and never reduces to ext alone.
func OutputName(base string, strip []string, ext string) string {
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	for _, prefix := range strip {
		prefix = strings.ToLower(prefix)
		if prefix == "" || !strings.HasPrefix(stem, prefix) {
			continue
		}
		if trimmed := strings.TrimPrefix(stem, prefix); trimmed != "" {
			stem = trimmed
		}
		break
	}
	return stem + ext
}

// OutputPath returns the output file path for an input path relative to the
// source root, preserving its directory.
func OutputPath(outputDir, relPath string, strip []string, ext string) string {
	dir := filepath.Dir(relPath)
	return filepath.Join(outputDir, dir, OutputName(filepath.Base(relPath), strip, ext))
}
