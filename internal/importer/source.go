package importer

import "github.com/cory-johannsen/sphereconv/internal/convert"

// Source loads every input file of a format-specific source tree as parsed
// records.
//
// Precondition: sourceDir must exist.
// Postcondition: returns the parsed files in a deterministic order, or a
// non-nil error. An empty slice is not an error.
type Source interface {
	Load(sourceDir string) ([]*convert.SourceFile, error)
}
