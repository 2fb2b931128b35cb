package region

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sphereconv/internal/convert"
)

// Unresolved is the hierarchy depth of a region without a parent yet.
const Unresolved = -1

// OutputType is the header type of every converted region.
const OutputType = "RegionDef"

// HeaderTypes lists the source header types classified as regions.
var HeaderTypes = []string{"AREADEF", "AREA", "ROOMDEF", "ROOM"}

// Region is the geometry and hierarchy state attached to a region definition.
type Region struct {
	Def   *convert.Definition
	Rects []Rect
	Plane uint8
	// Parents holds the candidate parents until resolution, then exactly
	// one parent (none for the root).
	Parents []*Region
	// Depth is the distance from the root; Unresolved until assigned.
	Depth int
	Root  bool

	rectComments []string
	planeSet     bool
	pointPlane   uint8
	synthetic    bool
}

// Of returns the region state of d, if d is a region definition.
func Of(d *convert.Definition) (*Region, bool) {
	r, ok := d.State.(*Region)
	return r, ok
}

// Name returns the region's display name.
func (r *Region) Name() string { return r.Def.DisplayName() }

// Parent returns the resolved parent, or nil for the root or an unresolved region.
func (r *Region) Parent() *Region {
	if r.Depth <= 0 || len(r.Parents) != 1 {
		return nil
	}
	return r.Parents[0]
}

// Synthetic reports whether r is a pre-seeded root with no source record.
func (r *Region) Synthetic() bool { return r.synthetic }

func state(d *convert.Definition) *Region {
	if r, ok := Of(d); ok {
		return r
	}
	r := &Region{Def: d, Depth: Unresolved}
	d.State = r
	return r
}

// NewFamily returns the region family table. The hierarchy is resolved
// once every definition has finished its second pass.
func NewFamily() *convert.Family {
	f := convert.NewFamily("region", OutputType, true)
	f.Handle(convert.StageFirst, "defname", handleDefname).
		Handle(convert.StageFirst, "p", handlePoint).
		Handle(convert.StageFirst, "rect", handleRect).
		Handle(convert.StageFirst, "flags", convert.EmitAs("flags")).
		Handle(convert.StageFirst, "group", convert.EmitAs("group")).
		Step(convert.StageFirst, finishFirst).
		Step(convert.StageThird, finishThird).
		OnSecondPassFinished(resolveHook)
	return f
}

func handleDefname(_ *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
	state(d)
	d.AltName = strings.TrimSpace(f.Value)
	d.EmitField("defname", d.AltName, f.Comment)
	return d.AltName, nil
}

func handlePoint(b *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
	r := state(d)
	_, plane, hasPlane, err := ParsePoint(f.Value)
	if err != nil {
		b.Diag.Warn(convert.Position{File: d.Pos.File, Line: f.Line}, "unparsable region point",
			zap.String("region", d.SourceName), zap.Error(err))
		d.EmitDisabled(f)
		return f.Value, nil
	}
	if hasPlane {
		r.pointPlane = plane
	}
	d.EmitField("p", strings.TrimSpace(f.Value), f.Comment)
	return f.Value, nil
}

func handleRect(b *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
	r := state(d)
	rect, plane, hasPlane, err := ParseRect(f.Value)
	if err != nil {
		b.Diag.Warn(convert.Position{File: d.Pos.File, Line: f.Line}, "unparsable region rectangle",
			zap.String("region", d.SourceName), zap.Error(err))
		d.EmitDisabled(f)
		return f.Value, nil
	}
	if hasPlane && r.planeSet && plane != r.Plane {
		b.Diag.Warn(convert.Position{File: d.Pos.File, Line: f.Line}, "region rectangle on a different map plane; line disabled",
			zap.String("region", d.SourceName),
			zap.Uint8("region_plane", r.Plane),
			zap.Uint8("rect_plane", plane),
		)
		d.EmitDisabled(f)
		return f.Value, nil
	}
	if hasPlane && !r.planeSet {
		r.Plane, r.planeSet = plane, true
	}
	r.Rects = append(r.Rects, rect)
	r.rectComments = append(r.rectComments, f.Comment)
	return rect.String(), nil
}

func finishFirst(b *convert.Batch, d *convert.Definition) error {
	r := state(d)
	if d.AltName != "" {
		d.Name = d.AltName
	}
	if !r.planeSet {
		r.Plane = r.pointPlane
	}
	root := b.Options().RootRegion
	r.Root = root != "" && (strings.EqualFold(d.SourceName, root) || strings.EqualFold(d.AltName, root))
	return nil
}

func finishThird(_ *convert.Batch, d *convert.Definition) error {
	r := state(d)
	if p := r.Parent(); p != nil {
		d.EmitField("parent", p.Name(), "")
	}
	for i, rect := range r.Rects {
		d.EmitField("rect", rect.String()+","+strconv.Itoa(int(r.Plane)), r.rectComments[i])
	}
	return nil
}

// Regions returns the live regions of b in file order.
func Regions(b *convert.Batch) []*Region {
	var out []*Region
	for _, d := range b.Live(nil) {
		if r, ok := Of(d); ok {
			out = append(out, r)
		}
	}
	return out
}

func resolveHook(b *convert.Batch) error {
	regions := Regions(b)
	if len(regions) == 0 {
		return nil
	}
	root := findRoot(regions)
	if root == nil {
		root = syntheticRoot(regions[0].Def.Family, b.Options().RootRegion)
		b.Diag.Info(convert.Position{}, "no root region defined; using synthetic root",
			zap.String("root", root.Name()))
	}
	NewResolver(b.Diag).Resolve(regions, root)
	return nil
}

// findRoot returns the first region flagged as root and clears the flag on
// any later duplicates.
func findRoot(regions []*Region) *Region {
	var root *Region
	for _, r := range regions {
		if !r.Root {
			continue
		}
		if root == nil {
			root = r
			continue
		}
		r.Root = false
	}
	return root
}

func syntheticRoot(family *convert.Family, name string) *Region {
	d := convert.NewDefinition(family, "", convert.RawRecord{HeaderType: "AREADEF", HeaderName: name})
	d.Name = name
	r := state(d)
	r.Root = true
	r.synthetic = true
	return r
}
