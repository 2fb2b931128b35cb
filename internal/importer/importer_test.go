package importer_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/sphereconv/internal/convert"
	"github.com/cory-johannsen/sphereconv/internal/importer"
	"github.com/cory-johannsen/sphereconv/internal/importer/sphere"
)

const itemsScript = `[ITEMDEF 0x1f3]
DEFNAME=i_anvil
NAME=Anvil
LAYER=1

[ITEMDEF 0x1f4]
DUPEITEM=i_anvil
COLOR=0481
`

const mapScript = `[AREADEF a_world]
DEFNAME=world
RECT=0,0,6143,4095

[AREADEF a_town]
NAME=Town
RECT=0,0,99,99

[ROOMDEF r_shop]
RECT=10,10,19,19
`

func options(outDir string) importer.Options {
	return importer.Options{
		OutputDir:       outDir,
		OutputExtension: ".def",
		StripPrefixes:   []string{"sphere_", "sphere"},
		RootRegion:      "world",
		Report:          true,
	}
}

func writeSource(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestImporter_Run_WritesDefFiles(t *testing.T) {
	srcRoot := writeSource(t, map[string]string{
		"items/sphere_items.scp": itemsScript,
		"sphere_map.scp":         mapScript,
	})
	outDir := t.TempDir()

	rep, err := importer.New(sphere.NewSource([]string{".scp"}, nil), nil, options(outDir)).Run(srcRoot)
	require.NoError(t, err)

	items, err := os.ReadFile(filepath.Join(outDir, "items", "items.def"))
	require.NoError(t, err)
	assert.Equal(t,
		"\n[EquippableDef i_anvil]\nname=Anvil\ndefname=i_anvil\nlayer=1\n"+
			"\n[EquippableDef 0x1f4]\ndupeitem=i_anvil\n//COLOR=0481\n",
		string(items))

	regions, err := os.ReadFile(filepath.Join(outDir, "map.def"))
	require.NoError(t, err)
	assert.Contains(t, string(regions), "[RegionDef a_town]\nname=Town\nparent=world\nrect=0,0,99,99,0\n")
	assert.Contains(t, string(regions), "[RegionDef r_shop]\nparent=a_town\nrect=10,10,19,19,0\n")

	require.Len(t, rep.Files, 2)
	assert.NotEmpty(t, rep.RunID)
	assert.True(t, rep.Regions.Resolved)
	assert.Len(t, rep.Regions.Tree, 3)
	assert.Zero(t, rep.Diagnostics.Errors)
}

func TestImporter_Run_WritesReport(t *testing.T) {
	srcRoot := writeSource(t, map[string]string{"map.scp": mapScript})
	outDir := t.TempDir()

	rep, err := importer.New(sphere.NewSource([]string{".scp"}, nil), nil, options(outDir)).Run(srcRoot)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, importer.ReportFileName))
	require.NoError(t, err)
	var got importer.Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, rep.RunID, got.RunID)
	assert.Equal(t, rep.Files, got.Files)
	assert.Equal(t, rep.Regions, got.Regions)
}

func TestImporter_Run_NoReportWhenDisabled(t *testing.T) {
	srcRoot := writeSource(t, map[string]string{"map.scp": mapScript})
	outDir := t.TempDir()
	opts := options(outDir)
	opts.Report = false

	_, err := importer.New(sphere.NewSource([]string{".scp"}, nil), nil, opts).Run(srcRoot)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(outDir, importer.ReportFileName))
}

func TestImporter_Run_LogsWithRunID(t *testing.T) {
	srcRoot := writeSource(t, map[string]string{"items.scp": "[ITEMDEF i_x]\nDUPEITEM=i_missing\n"})
	core, logs := observer.New(zapcore.DebugLevel)

	rep, err := importer.New(sphere.NewSource([]string{".scp"}, nil), zap.New(core), options(t.TempDir())).Run(srcRoot)
	require.NoError(t, err)

	warn := logs.FilterMessage("unresolved reference kept as literal").All()
	require.Len(t, warn, 1)
	ctx := warn[0].ContextMap()
	assert.Equal(t, rep.RunID, ctx["run_id"])
	assert.Equal(t, "items.scp", ctx["file"])
	assert.Equal(t, 1, rep.Diagnostics.Warnings)
}

func TestImporter_Run_InvalidSourceDir(t *testing.T) {
	imp := importer.New(sphere.NewSource([]string{".scp"}, nil), nil, options(t.TempDir()))
	_, err := imp.Run("/nonexistent/dir")
	require.Error(t, err)
}

type failingSource struct{}

func (failingSource) Load(string) ([]*convert.SourceFile, error) {
	return nil, errors.New("boom")
}

func TestImporter_Run_SourceErrorWritesNothing(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	_, err := importer.New(failingSource{}, nil, options(outDir)).Run("ignored")
	require.Error(t, err)
	assert.NoDirExists(t, outDir)
}

func TestImporter_Run_UnwritableOutputIsFatal(t *testing.T) {
	srcRoot := writeSource(t, map[string]string{"map.scp": mapScript})
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := importer.New(sphere.NewSource([]string{".scp"}, nil), nil, options(blocker)).Run(srcRoot)
	require.Error(t, err)
	assert.True(t, convert.IsFatal(err))
}

// TestImporter_Run_NScriptsProducesNFiles is a property-based test verifying
// that Run with N script files in the source produces exactly N output files
// plus the report.
func TestImporter_Run_NScriptsProducesNFiles(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(rt, "numScripts")

		srcRoot := t.TempDir()
		for i := 0; i < n; i++ {
			content := fmt.Sprintf("[ITEMDEF 0%x]\nNAME=Item %d\n", 0x100+i, i)
			if err := os.WriteFile(filepath.Join(srcRoot, fmt.Sprintf("script_%d.scp", i)), []byte(content), 0644); err != nil {
				rt.Fatal(err)
			}
		}

		outDir := t.TempDir()
		imp := importer.New(sphere.NewSource([]string{".scp"}, nil), nil, options(outDir))
		if _, err := imp.Run(srcRoot); err != nil {
			rt.Fatal(err)
		}

		entries, err := os.ReadDir(outDir)
		if err != nil {
			rt.Fatal(err)
		}
		assert.Equal(rt, n+1, len(entries),
			"Run with %d script file(s) must produce exactly %d output file(s) and the report", n, n)
	})
}
