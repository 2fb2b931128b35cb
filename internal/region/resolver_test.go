package region_test

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/sphereconv/internal/convert"
	"github.com/cory-johannsen/sphereconv/internal/region"
)

var family = region.NewFamily()

func newRegion(name string, line int, plane uint8, rects ...region.Rect) *region.Region {
	d := convert.NewDefinition(family, "map.scp", convert.RawRecord{HeaderType: "AREADEF", HeaderName: name, HeaderLine: line})
	r := &region.Region{Def: d, Rects: rects, Plane: plane, Depth: region.Unresolved}
	d.State = r
	return r
}

func newRoot() *region.Region {
	r := newRegion("World", 0, 0)
	r.Root = true
	return r
}

func newObservedResolver() (*region.Resolver, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return region.NewResolver(convert.NewDiagnostics(zap.New(core))), logs
}

// hierarchy dumps the placement of regions for assertion messages.
func hierarchy(regions []*region.Region) string {
	type node struct {
		Name, Parent string
		Depth        int
		Suppressed   bool
	}
	var out []node
	for _, r := range regions {
		n := node{Name: r.Name(), Depth: r.Depth, Suppressed: r.Def.Suppressed}
		if p := r.Parent(); p != nil {
			n.Parent = p.Name()
		}
		out = append(out, n)
	}
	return spew.Sdump(out)
}

func TestResolve_NestedRegion(t *testing.T) {
	rv, _ := newObservedResolver()
	root := newRoot()
	town := newRegion("Town", 1, 0, region.NewRect(0, 0, 99, 99))
	shop := newRegion("Shop", 5, 0, region.NewRect(10, 10, 19, 19))
	regions := []*region.Region{town, shop}

	res := rv.Resolve(regions, root)

	require.True(t, res.Resolved, hierarchy(regions))
	assert.Same(t, town, shop.Parent(), hierarchy(regions))
	assert.Equal(t, town.Depth+1, shop.Depth)
	assert.Same(t, root, town.Parent())
	assert.Equal(t, 1, town.Depth)
	assert.Equal(t, 0, root.Depth)
}

func TestResolve_OrphanFallsBackToRoot(t *testing.T) {
	rv, logs := newObservedResolver()
	root := newRoot()
	island := newRegion("Island", 3, 0, region.NewRect(200, 200, 210, 210))
	town := newRegion("Town", 1, 0, region.NewRect(0, 0, 99, 99))

	res := rv.Resolve([]*region.Region{town, island}, root)

	require.True(t, res.Resolved)
	assert.Same(t, root, island.Parent())
	assert.Equal(t, 1, island.Depth)

	var warned []string
	for _, e := range logs.FilterMessage("region has no parents").All() {
		warned = append(warned, e.ContextMap()["region"].(string))
	}
	assert.Contains(t, warned, "Island")
}

func TestResolve_TwoCycleSuppressesEveryRegion(t *testing.T) {
	rv, logs := newObservedResolver()
	root := newRoot()
	a := newRegion("A", 1, 0, region.NewRect(0, 0, 50, 50))
	b := newRegion("B", 4, 0, region.NewRect(0, 0, 50, 50))
	bystander := newRegion("Far", 8, 0, region.NewRect(900, 900, 950, 950))
	regions := []*region.Region{a, b, bystander}

	res := rv.Resolve(regions, root)

	require.False(t, res.Resolved)
	assert.ElementsMatch(t, []*region.Region{a, b}, res.Unresolved)
	for _, r := range regions {
		assert.True(t, r.Def.Suppressed, "%s must be suppressed\n%s", r.Name(), hierarchy(regions))
	}
	assert.Equal(t, 2, logs.FilterMessage("region hierarchy unresolved").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestResolve_PlanesSeparateRegions(t *testing.T) {
	rv, _ := newObservedResolver()
	root := newRoot()
	town := newRegion("Town", 1, 0, region.NewRect(0, 0, 99, 99))
	dungeon := newRegion("Dungeon", 5, 1, region.NewRect(10, 10, 19, 19))

	res := rv.Resolve([]*region.Region{town, dungeon}, root)

	require.True(t, res.Resolved)
	assert.Same(t, root, dungeon.Parent(), "regions on different planes are never related")
}

func TestResolve_DeepestCandidateWins(t *testing.T) {
	rv, _ := newObservedResolver()
	root := newRoot()
	outer := newRegion("Outer", 1, 0, region.NewRect(0, 0, 100, 100))
	inner := newRegion("Inner", 2, 0, region.NewRect(20, 20, 80, 80))
	// Both Outer and Inner hold all four corners of Mid.
	mid := newRegion("Mid", 3, 0, region.NewRect(45, 45, 55, 55))
	regions := []*region.Region{mid, inner, outer}

	res := rv.Resolve(regions, root)

	require.True(t, res.Resolved, hierarchy(regions))
	assert.Same(t, outer, inner.Parent(), hierarchy(regions))
	assert.Same(t, inner, mid.Parent(), hierarchy(regions))
	assert.Equal(t, 3, mid.Depth)
	assert.Greater(t, res.Sweeps, 1)
}

func TestResolve_RootWithRectanglesIsACandidate(t *testing.T) {
	rv, _ := newObservedResolver()
	root := newRegion("World", 0, 0, region.NewRect(0, 0, 6143, 4095))
	root.Root = true
	town := newRegion("Town", 1, 0, region.NewRect(0, 0, 99, 99))
	regions := []*region.Region{root, town}

	res := rv.Resolve(regions, root)

	require.True(t, res.Resolved)
	assert.Same(t, root, town.Parent())
	assert.Equal(t, 0, root.Depth)
	assert.Nil(t, root.Parent())
}

// TestResolve_TotalAndDeterministic is a property-based test verifying that
// resolution either places every region under a shallower parent or
// suppresses every region, and that resolving the same input twice yields
// the same tree.
func TestResolve_TotalAndDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "regions")
		type shape struct {
			rect  region.Rect
			plane uint8
		}
		shapes := make([]shape, n)
		coord := rapid.IntRange(0, 200)
		for i := range shapes {
			shapes[i] = shape{
				rect:  region.NewRect(coord.Draw(t, "x1"), coord.Draw(t, "y1"), coord.Draw(t, "x2"), coord.Draw(t, "y2")),
				plane: uint8(rapid.IntRange(0, 1).Draw(t, "plane")),
			}
		}
		build := func() ([]*region.Region, *region.Region) {
			var rs []*region.Region
			for i, s := range shapes {
				rs = append(rs, newRegion(fmt.Sprintf("r%d", i), i+1, s.plane, s.rect))
			}
			return rs, newRoot()
		}

		rv, _ := newObservedResolver()
		first, root := build()
		res := rv.Resolve(first, root)
		if res.Resolved {
			for _, r := range first {
				p := r.Parent()
				if p == nil || r.Depth != p.Depth+1 || r.Def.Suppressed {
					t.Fatalf("region %s badly placed\n%s", r.Name(), hierarchy(first))
				}
			}
		} else {
			for _, r := range first {
				if !r.Def.Suppressed {
					t.Fatalf("failed resolution left %s unsuppressed\n%s", r.Name(), hierarchy(first))
				}
			}
		}
		if root.Depth != 0 {
			t.Fatalf("root depth %d", root.Depth)
		}

		second, root2 := build()
		rv.Resolve(second, root2)
		if a, b := hierarchy(first), hierarchy(second); a != b {
			t.Fatalf("non-deterministic resolution:\n%s\nvs\n%s", a, b)
		}
	})
}
