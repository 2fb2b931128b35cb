package convert

import (
	"slices"
	"strings"
)

// Stage is one of the three ordered conversion passes.
type Stage int

const (
	// StageFirst claims generic fields and registers definitions.
	StageFirst Stage = iota
	// StageSecond resolves references through the registries.
	StageSecond
	// StageThird emits leftovers and family trailing logic.
	StageThird

	stageCount
)

// String returns the pass name used in logs.
func (s Stage) String() string {
	switch s {
	case StageFirst:
		return "first"
	case StageSecond:
		return "second"
	case StageThird:
		return "third"
	default:
		return "unknown"
	}
}

// Handler converts one claimed field. It emits output through d and
// returns the resolved or transformed value for callers that need it.
type Handler func(b *Batch, d *Definition, f RawField) (string, error)

// StepFunc runs once per definition after a stage's field handlers.
type StepFunc func(b *Batch, d *Definition) error

// HookFunc runs once per batch after a pass has finished over every definition.
type HookFunc func(b *Batch) error

// FieldHandler binds a field base name to its Handler.
type FieldHandler struct {
	Field  string
	Handle Handler
}

// Family is the handler table for one definition family (items,
// characters, regions, ...). Tables are built once at startup.
type Family struct {
	// Name identifies the family in logs.
	Name string
	// OutputType is the output header type; empty keeps the source type.
	OutputType string
	// Generic enables the shared first-pass fields (category, name, ...).
	Generic bool

	handlers    [stageCount][]FieldHandler
	steps       [stageCount]StepFunc
	firstHooks  []HookFunc
	secondHooks []HookFunc
}

// NewFamily returns an empty family table.
func NewFamily(name, outputType string, generic bool) *Family {
	return &Family{Name: name, OutputType: outputType, Generic: generic}
}

// Handle appends a field handler to stage. Handlers run in registration order.
func (f *Family) Handle(stage Stage, field string, h Handler) *Family {
	f.handlers[stage] = append(f.handlers[stage], FieldHandler{Field: strings.ToLower(field), Handle: h})
	return f
}

// Step sets the per-definition step run after stage's handlers.
func (f *Family) Step(stage Stage, fn StepFunc) *Family {
	f.steps[stage] = fn
	return f
}

// OnFirstPassFinished registers a hook that needs complete registries.
func (f *Family) OnFirstPassFinished(h HookFunc) *Family {
	f.firstHooks = append(f.firstHooks, h)
	return f
}

// OnSecondPassFinished registers a hook that needs the whole definition graph.
func (f *Family) OnSecondPassFinished(h HookFunc) *Family {
	f.secondHooks = append(f.secondHooks, h)
	return f
}

// Handlers returns the handlers registered for stage.
func (f *Family) Handlers(stage Stage) []FieldHandler {
	return f.handlers[stage]
}

// Catalog classifies record header types into families.
type Catalog struct {
	families []*Family
	byType   map[string]*Family
	fallback *Family
}

// NewCatalog returns a catalog whose unknown header types fall back to a
// generic family that only runs the remainder sweep.
func NewCatalog() *Catalog {
	fallback := NewFamily("generic", "", false)
	return &Catalog{
		families: []*Family{fallback},
		byType:   make(map[string]*Family),
		fallback: fallback,
	}
}

// Register binds headerTypes (case-insensitive) to f. Hooks of families run
// in registration order.
func (c *Catalog) Register(f *Family, headerTypes ...string) {
	if !slices.Contains(c.families, f) {
		c.families = append(c.families, f)
	}
	for _, t := range headerTypes {
		c.byType[strings.ToLower(t)] = f
	}
}

// Lookup returns the family for headerType.
//
// Postcondition: never returns nil.
func (c *Catalog) Lookup(headerType string) *Family {
	if f, ok := c.byType[strings.ToLower(headerType)]; ok {
		return f
	}
	return c.fallback
}

// Families returns every registered family, fallback first.
func (c *Catalog) Families() []*Family { return c.families }

var genericFields = []FieldHandler{
	{Field: "category", Handle: EmitAs("category")},
	{Field: "subsection", Handle: EmitAs("subsection")},
	{Field: "description", Handle: EmitAs("description")},
	{Field: "name", Handle: EmitAs("name")},
}

// EmitAs returns a handler that re-emits a field value unchanged under name.
func EmitAs(name string) Handler {
	return func(_ *Batch, d *Definition, f RawField) (string, error) {
		d.EmitField(name, f.Value, f.Comment)
		return f.Value, nil
	}
}
