package convert

import (
	"fmt"
	"strings"
)

// CommentMarker prefixes disabled lines and suppressed definitions.
const CommentMarker = "//"

// VerbatimPrefix marks fields passed through unchanged by the remainder sweep.
const VerbatimPrefix = "tag."

// Definition accumulates the output of one converted record.
//
// A suppressed definition stays resolvable by reference but is rendered
// commented out; it is never dropped from its file.
type Definition struct {
	// Family is the handler table this definition runs through.
	Family *Family
	// HeaderType is the output header type; families may reclassify it.
	HeaderType string
	// SourceType and SourceName are the record header as read.
	SourceType string
	SourceName string
	// Name is the registered name, empty when the definition is known by model only.
	Name string
	// AltName is the alternate-name field value (defname), if any.
	AltName string
	// Model is the numeric model id; valid when HasModel.
	Model    int
	HasModel bool
	// Pos is the header position of the record.
	Pos Position
	// Store holds the unclaimed fields.
	Store    *FieldStore
	Triggers []TriggerBlock
	// State carries family-specific data, such as region geometry.
	State any

	Suppressed bool

	flags  map[string]bool
	lines  []string
	failed bool
}

// NewDefinition builds an unconverted definition from rec.
func NewDefinition(family *Family, file string, rec RawRecord) *Definition {
	headerType := family.OutputType
	if headerType == "" {
		headerType = rec.HeaderType
	}
	return &Definition{
		Family:     family,
		HeaderType: headerType,
		SourceType: rec.HeaderType,
		SourceName: rec.HeaderName,
		Pos:        Position{File: file, Line: rec.HeaderLine},
		Store:      NewFieldStore(rec.Fields),
		Triggers:   rec.Triggers,
		flags:      make(map[string]bool),
	}
}

// Emit appends a raw output line.
func (d *Definition) Emit(line string) {
	d.lines = append(d.lines, line)
}

// EmitField appends a `name=value` line, keeping comment when non-empty.
func (d *Definition) EmitField(name, value, comment string) {
	d.Emit(FormatField(name, value, comment))
}

// EmitDisabled appends f as a commented-out line under its original name.
func (d *Definition) EmitDisabled(f RawField) {
	d.Emit(CommentMarker + FormatField(f.Name, f.Value, f.Comment))
}

// Lines returns the emitted output lines.
func (d *Definition) Lines() []string { return d.lines }

// Failed reports whether conversion of this definition errored.
func (d *Definition) Failed() bool { return d.failed }

// SetFlag records a classification flag such as "equippable".
func (d *Definition) SetFlag(name string) { d.flags[name] = true }

// Flag reports whether a classification flag is set.
func (d *Definition) Flag(name string) bool { return d.flags[name] }

// DisplayName is the name used in the rendered header.
func (d *Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.SourceName
}

// Ref renders this definition as the target of a reference: its name when
// it has one, otherwise its model id in hex.
func (d *Definition) Ref() string {
	switch {
	case d.Name != "":
		return d.Name
	case d.HasModel:
		return fmt.Sprintf("0x%x", d.Model)
	default:
		return d.SourceName
	}
}

// Header renders the `[Type Name]` line.
func (d *Definition) Header() string {
	return fmt.Sprintf("[%s %s]", d.HeaderType, d.DisplayName())
}

// FormatField renders a field line in output syntax.
func FormatField(name, value, comment string) string {
	line := name + "=" + value
	if comment = strings.TrimSpace(comment); comment != "" {
		line += " " + CommentMarker + " " + comment
	}
	return line
}
