// Package families holds the per-family handler tables that drive the
// conversion engine for items, characters, templates and constants.
package families

import (
	"strings"

	"github.com/cory-johannsen/sphereconv/internal/convert"
)

// FlagEquippable marks items that can be worn or wielded.
const FlagEquippable = "equippable"

// Output header types for items.
const (
	ItemType       = "ItemDef"
	EquippableType = "EquippableDef"
)

var equippableTypes = []string{"t_weapon", "t_armor", "t_clothing", "t_shield", "t_light"}

// NewItemFamily returns the item family table.
func NewItemFamily() *convert.Family {
	f := convert.NewFamily("item", ItemType, true)
	f.Handle(convert.StageFirst, "defname", handleDefname).
		Handle(convert.StageFirst, "type", handleItemType).
		Handle(convert.StageFirst, "layer", handleLayer).
		Handle(convert.StageFirst, "value", convert.EmitAs("value")).
		Handle(convert.StageFirst, "weight", convert.EmitAs("weight")).
		Step(convert.StageFirst, func(b *convert.Batch, d *convert.Definition) error {
			b.RegisterIdentity(b.Items, d, "item")
			return nil
		}).
		Handle(convert.StageSecond, "id", referenceTo("id", itemRegistry)).
		Handle(convert.StageSecond, "dupeitem", referenceTo("dupeitem", itemRegistry)).
		Handle(convert.StageSecond, "mountid", referenceTo("mountid", characterRegistry)).
		Handle(convert.StageSecond, "dupelist", handleDupeList).
		Step(convert.StageThird, reclassifyItem)
	f.OnFirstPassFinished(func(b *convert.Batch) error {
		propagateEquippable(b, f)
		return nil
	})
	return f
}

func handleDefname(_ *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
	d.AltName = strings.TrimSpace(f.Value)
	d.EmitField("defname", d.AltName, f.Comment)
	return d.AltName, nil
}

func handleItemType(_ *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
	t := strings.ToLower(strings.TrimSpace(f.Value))
	for _, prefix := range equippableTypes {
		if strings.HasPrefix(t, prefix) {
			d.SetFlag(FlagEquippable)
			break
		}
	}
	d.EmitField("type", f.Value, f.Comment)
	return t, nil
}

func handleLayer(_ *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
	d.SetFlag(FlagEquippable)
	d.EmitField("layer", f.Value, f.Comment)
	return f.Value, nil
}

// propagateEquippable makes every dupe of an equippable base equippable too.
// It repeats until stable so that dupes of dupes inherit as well.
func propagateEquippable(b *convert.Batch, family *convert.Family) {
	items := b.Live(family)
	for changed := true; changed; {
		changed = false
		for _, d := range items {
			if d.Flag(FlagEquippable) {
				continue
			}
			base := baseOf(b, d)
			if base != nil && base != d && base.Flag(FlagEquippable) {
				d.SetFlag(FlagEquippable)
				changed = true
			}
		}
	}
}

func baseOf(b *convert.Batch, d *convert.Definition) *convert.Definition {
	for _, field := range []string{"dupeitem", convert.IDField} {
		f, ok := d.Store.Peek(field)
		if !ok {
			continue
		}
		if base, found := b.Items.Resolve(f.Value); found {
			return base
		}
	}
	return nil
}

func handleDupeList(b *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
	parts := strings.Split(f.Value, ",")
	refs := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		refs = append(refs, b.ResolveReference(b.Items, d, convert.RawField{
			Name: f.Name, Value: p, Comment: f.Comment, Line: f.Line,
		}))
	}
	v := strings.Join(refs, ",")
	d.EmitField("dupelist", v, f.Comment)
	return v, nil
}

func reclassifyItem(_ *convert.Batch, d *convert.Definition) error {
	if d.Flag(FlagEquippable) {
		d.HeaderType = EquippableType
	}
	return nil
}

func itemRegistry(b *convert.Batch) *convert.Registry      { return b.Items }
func characterRegistry(b *convert.Batch) *convert.Registry { return b.Characters }

// referenceTo resolves a field through a registry and emits it under name.
func referenceTo(name string, registry func(*convert.Batch) *convert.Registry) convert.Handler {
	return func(b *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
		v := b.ResolveReference(registry(b), d, f)
		d.EmitField(name, v, f.Comment)
		return v, nil
	}
}
