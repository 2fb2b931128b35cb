// Package convert implements the multi-pass definition conversion engine:
// claimable field stores, output definitions, cross-reference registries,
// the per-family stage tables and the batch driver that runs them.
package convert

// RawField is one `name = value // comment` line of a source record.
type RawField struct {
	// Name is the field name as spelled in the source.
	Name string
	// Value is the trimmed text after the '='.
	Value string
	// Comment is the trailing `//` comment without its marker.
	Comment string
	// Line is the 1-based source line.
	Line int
}

// TriggerBlock is a named block of raw script text attached to a record.
type TriggerBlock struct {
	Name  string
	Line  int
	Lines []string
}

// RawRecord is one parsed `[TYPE name]` section.
type RawRecord struct {
	HeaderType string
	HeaderName string
	HeaderLine int
	Fields     []RawField
	Triggers   []TriggerBlock
}

// SourceFile is the parsed content of one input file.
type SourceFile struct {
	// Path is the absolute or working-directory-relative input path.
	Path string
	// RelPath is Path relative to the scanned source root.
	RelPath string
	Records []RawRecord
}

// Position locates a diagnostic in the source tree.
type Position struct {
	File string
	Line int
}
