package convert

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options holds batch-wide conversion settings.
type Options struct {
	// RootRegion names the region every other region descends from.
	RootRegion string
}

// Unit groups the definitions converted from one source file; it renders to
// one output file.
type Unit struct {
	Source      *SourceFile
	Definitions []*Definition
}

// Batch is the context of one conversion run. It owns the registries and
// every definition, and drives the passes over them in strict order. A Batch
// must not be used from more than one goroutine.
type Batch struct {
	// Items and Characters are the per-family cross-reference registries.
	Items      *Registry
	Characters *Registry
	// Diag receives every diagnostic of the run.
	Diag *Diagnostics

	opts    Options
	catalog *Catalog
	units   []*Unit
	defs    []*Definition
}

// NewBatch returns an empty batch classifying records through catalog.
//
// Precondition: catalog and diag must be non-nil.
func NewBatch(catalog *Catalog, diag *Diagnostics, opts Options) *Batch {
	return &Batch{
		Items:      NewRegistry(),
		Characters: NewRegistry(),
		Diag:       diag,
		opts:       opts,
		catalog:    catalog,
	}
}

// Options returns the batch settings.
func (b *Batch) Options() Options { return b.opts }

// Add classifies every record of file into a definition.
//
// Postcondition: returns the unit holding one definition per record, in file order.
func (b *Batch) Add(file *SourceFile) *Unit {
	u := &Unit{Source: file}
	for _, rec := range file.Records {
		d := NewDefinition(b.catalog.Lookup(rec.HeaderType), file.RelPath, rec)
		u.Definitions = append(u.Definitions, d)
		b.defs = append(b.defs, d)
	}
	b.units = append(b.units, u)
	return u
}

// Units returns the per-file units in the order they were added.
func (b *Batch) Units() []*Unit { return b.units }

// Definitions returns every definition, failed ones included, in file order.
func (b *Batch) Definitions() []*Definition { return b.defs }

// Live returns the non-failed definitions of family, or of every family
// when family is nil.
func (b *Batch) Live(family *Family) []*Definition {
	var out []*Definition
	for _, d := range b.defs {
		if d.failed {
			continue
		}
		if family != nil && d.Family != family {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Run executes the first pass, the first-pass-finished hooks, the second
// pass, the second-pass-finished hooks and the third pass.
//
// Postcondition: returns nil when the run completed, possibly with
// per-definition failures logged; returns a fatal error otherwise.
func (b *Batch) Run() error {
	if err := b.RunStage(StageFirst); err != nil {
		return err
	}
	if err := b.runHooks("first-pass-finished", func(f *Family) []HookFunc { return f.firstHooks }); err != nil {
		return err
	}
	if err := b.RunStage(StageSecond); err != nil {
		return err
	}
	if err := b.runHooks("second-pass-finished", func(f *Family) []HookFunc { return f.secondHooks }); err != nil {
		return err
	}
	return b.RunStage(StageThird)
}

// RunStage runs one pass over every live definition in file order.
// A non-fatal error fails only the definition that raised it.
func (b *Batch) RunStage(stage Stage) error {
	start := time.Now()
	for _, d := range b.defs {
		if d.failed {
			continue
		}
		if err := b.convert(d, stage); err != nil {
			if IsFatal(err) {
				return err
			}
			d.failed = true
			b.Diag.Error(d.Pos, "definition conversion failed",
				zap.String("definition", d.SourceName),
				zap.Stringer("stage", stage),
				zap.Error(err),
			)
		}
	}
	b.Diag.Logger().Debug("pass finished",
		zap.Stringer("stage", stage),
		zap.Int("definitions", len(b.defs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (b *Batch) runHooks(name string, hooks func(*Family) []HookFunc) error {
	for _, f := range b.catalog.Families() {
		for _, h := range hooks(f) {
			if err := h(b); err != nil {
				return fmt.Errorf("%s hook of family %s: %w", name, f.Name, err)
			}
		}
	}
	return nil
}

func (b *Batch) convert(d *Definition, stage Stage) error {
	if stage == StageFirst && d.Family.Generic {
		if err := b.dispatch(d, genericFields); err != nil {
			return err
		}
	}
	if err := b.dispatch(d, d.Family.handlers[stage]); err != nil {
		return err
	}
	if step := d.Family.steps[stage]; step != nil {
		if err := step(b, d); err != nil {
			return err
		}
	}
	if stage == StageThird {
		b.sweep(d)
	}
	return nil
}

func (b *Batch) dispatch(d *Definition, handlers []FieldHandler) error {
	for _, fh := range handlers {
		if _, err := b.Invoke(d, fh); err != nil {
			return err
		}
	}
	return nil
}

// Invoke claims the whole series of fh.Field from d and runs fh.Handle on
// each claimed field.
//
// Postcondition: returns the value of the last handled field, or "" when
// the field was absent.
func (b *Batch) Invoke(d *Definition, fh FieldHandler) (string, error) {
	var last string
	for _, f := range d.Store.ClaimSeries(fh.Field) {
		v, err := fh.Handle(b, d, f)
		if err != nil {
			return "", fmt.Errorf("field %s (line %d): %w", f.Name, f.Line, err)
		}
		last = v
	}
	return last, nil
}

// sweep emits every unclaimed field, verbatim when tagged, disabled
// otherwise, then the trigger blocks.
func (b *Batch) sweep(d *Definition) {
	for _, f := range d.Store.Remainder() {
		if strings.HasPrefix(strings.ToLower(f.Name), VerbatimPrefix) {
			d.EmitField(f.Name, f.Value, f.Comment)
			continue
		}
		d.EmitDisabled(f)
	}
	for _, t := range d.Triggers {
		d.Emit("ON=@" + t.Name)
		for _, line := range t.Lines {
			d.Emit(line)
		}
	}
}

// ResolveReference resolves f's value through reg. On a miss the literal
// value is kept and a warning is logged.
func (b *Batch) ResolveReference(reg *Registry, d *Definition, f RawField) string {
	if target, ok := reg.Resolve(f.Value); ok {
		return target.Ref()
	}
	b.Diag.Warn(Position{File: d.Pos.File, Line: f.Line}, "unresolved reference kept as literal",
		zap.String("definition", d.SourceName),
		zap.String("field", f.Name),
		zap.String("value", f.Value),
	)
	return strings.TrimSpace(f.Value)
}
