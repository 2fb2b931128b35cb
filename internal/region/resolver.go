package region

import (
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sphereconv/internal/convert"
)

// Result summarises one hierarchy resolution.
type Result struct {
	// Resolved is true when every region received a depth.
	Resolved bool
	// Sweeps is the number of fixpoint sweeps performed.
	Sweeps int
	// Unresolved lists the regions stuck when resolution failed.
	Unresolved []*Region
}

// Resolver infers the region tree from rectangle containment.
type Resolver struct {
	diag *convert.Diagnostics
}

// NewResolver returns a Resolver logging through diag.
func NewResolver(diag *convert.Diagnostics) *Resolver {
	return &Resolver{diag: diag}
}

// Resolve assigns every region a parent and a depth.
//
// Each region's candidate parents are the plane-compatible regions whose
// rectangles contain the most of its corners. A region is placed once all of
// its candidates are placed, under the deepest one (the first found on a
// tie); a region with no candidates goes under root. When a sweep places
// nothing while regions remain, the candidate graph is cyclic or ambiguous
// and every region is suppressed instead.
//
// Precondition: root is non-nil; it may or may not be an element of regions.
// Postcondition: either every region has Depth >= 0, or every region is suppressed.
func (rv *Resolver) Resolve(regions []*Region, root *Region) Result {
	all := regions
	if !slices.Contains(regions, root) {
		all = append([]*Region{root}, regions...)
	}

	for _, r := range all {
		r.Depth = Unresolved
		r.Parents = nil
	}
	root.Root = true
	root.Depth = 0

	for _, r := range all {
		if r == root {
			continue
		}
		r.Parents = rv.candidates(r, all)
	}

	res := Result{}
	for {
		res.Sweeps++
		placed, pending := 0, 0
		for _, r := range all {
			if r.Depth != Unresolved {
				continue
			}
			parent, ok := place(r, root)
			if !ok {
				pending++
				continue
			}
			r.Parents = []*Region{parent}
			r.Depth = parent.Depth + 1
			placed++
		}
		if pending == 0 {
			res.Resolved = true
			return res
		}
		if placed == 0 {
			res.Unresolved = rv.fail(regions, all)
			return res
		}
	}
}

// candidates returns the plane-compatible regions that score highest against r.
func (rv *Resolver) candidates(r *Region, all []*Region) []*Region {
	best := 0
	var out []*Region
	for _, o := range all {
		if o == r || !Compatible(r, o) {
			continue
		}
		s := Score(r, o)
		switch {
		case s == 0:
		case s > best:
			best = s
			out = []*Region{o}
		case s == best:
			out = append(out, o)
		}
	}
	if best == 0 {
		rv.diag.Warn(r.Def.Pos, "region has no parents",
			zap.String("region", r.Name()),
			zap.Uint8("plane", r.Plane),
		)
	}
	return out
}

// place returns r's parent when every candidate already has a depth.
func place(r *Region, root *Region) (*Region, bool) {
	if len(r.Parents) == 0 {
		return root, true
	}
	var parent *Region
	for _, c := range r.Parents {
		if c.Depth == Unresolved {
			return nil, false
		}
		if parent == nil || c.Depth > parent.Depth {
			parent = c
		}
	}
	return parent, true
}

// fail suppresses every region of the run and logs the stuck ones with
// their candidates.
func (rv *Resolver) fail(regions, all []*Region) []*Region {
	var stuck []*Region
	for _, r := range all {
		if r.Depth != Unresolved {
			continue
		}
		stuck = append(stuck, r)
		names := make([]string, 0, len(r.Parents))
		for _, c := range r.Parents {
			names = append(names, c.Name())
		}
		rv.diag.Warn(r.Def.Pos, "region hierarchy unresolved",
			zap.String("region", r.Name()),
			zap.Strings("candidates", names),
		)
	}
	for _, r := range regions {
		r.Def.Suppressed = true
	}
	rv.diag.Error(convert.Position{}, "region hierarchy is cyclic or ambiguous; all regions suppressed",
		zap.Int("unresolved", len(stuck)),
		zap.Int("regions", len(regions)),
	)
	return stuck
}
