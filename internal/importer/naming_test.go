package importer_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/sphereconv/internal/importer"
)

var defaultStrip = []string{"sphere_", "sphere"}

func TestOutputName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"sphere_items.scp", "items.def"},
		{"SPHERE_Map.SCP", "map.def"},
		{"spheremap.scp", "map.def"},
		{"sphere.scp", "sphere.def"},
		{"sphere_.scp", "sphere_.def"},
		{"weapons.scp", "weapons.def"},
		{"noext", "noext.def"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, importer.OutputName(tc.input, defaultStrip, ".def"))
		})
	}
}

func TestOutputPath_PreservesDirectories(t *testing.T) {
	got := importer.OutputPath("/out", filepath.Join("items", "weapons", "sphere_swords.scp"), defaultStrip, ".def")
	assert.Equal(t, filepath.Join("/out", "items", "weapons", "swords.def"), got)

	got = importer.OutputPath("/out", "sphere_defs.scp", defaultStrip, ".def")
	assert.Equal(t, filepath.Join("/out", "defs.def"), got)
}

// TestOutputName_Properties is a property-based test verifying that output
// names are lowercase, carry the output extension and never reduce to the
// extension alone.
func TestOutputName_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		stem := rapid.StringMatching(`[A-Za-z_]{1,12}`).Draw(rt, "stem")
		got := importer.OutputName(stem+".scp", defaultStrip, ".def")
		if got != strings.ToLower(got) {
			rt.Fatalf("OutputName(%q) = %q is not lowercase", stem, got)
		}
		if !strings.HasSuffix(got, ".def") || got == ".def" {
			rt.Fatalf("OutputName(%q) = %q has a bad extension", stem, got)
		}
	})
}
