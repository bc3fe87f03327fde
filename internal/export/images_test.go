package export_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/leicestersquare/OpenGraphics/internal/export"
	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

func footpathObject(poleSupports, supportImages bool, imageCount int) *legacy.Object {
	images := make([]legacy.Image, imageCount)
	for i := range images {
		images[i] = legacy.Image{Data: []byte{byte(i)}, XOffset: int16(i)}
	}
	return &legacy.Object{
		Provenance: legacy.ProvenanceRCT2,
		Category:   legacy.CategoryFootpath,
		FileName:   "PATHASP",
		ImageCount: imageCount,
		Images:     images,
		Footpath: &legacy.FootpathData{
			HasPoleSupports:  poleSupports,
			HasSupportImages: supportImages,
		},
	}
}

func TestPlanSlices_None(t *testing.T) {
	obj := &legacy.Object{ImageCount: 4}
	assert.Equal(t, []int{0, 1, 2, 3}, export.PlanSlices(obj, export.VariantNone))
}

func TestPlanSlices_Surface(t *testing.T) {
	got := export.PlanSlices(footpathObject(false, false, 168), export.VariantFootpathSurface)
	require.Len(t, got, 52)
	assert.Equal(t, 71, got[0])
	assert.Equal(t, 0, got[1])
	assert.Equal(t, 50, got[51])
}

func TestPlanSlices_Queue(t *testing.T) {
	got := export.PlanSlices(footpathObject(false, false, 168), export.VariantFootpathQueue)
	want := []int{72}
	for i := 51; i <= 70; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, 21)
}

func TestPlanSlices_RailingsFlagCombinations(t *testing.T) {
	cases := []struct {
		name                        string
		poleSupports, supportImages bool
		wantLast, wantLen           int
	}{
		{"pole and support images", true, true, 164, 93},
		{"pole supports only", true, false, 145, 74},
		{"no pole supports", false, false, 167, 96},
		{"no pole supports ignores support images", false, true, 167, 96},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := export.PlanSlices(footpathObject(tc.poleSupports, tc.supportImages, 168), export.VariantFootpathRailings)
			require.Len(t, got, tc.wantLen)
			assert.Equal(t, 71, got[0])
			assert.Equal(t, 73, got[1])
			assert.Equal(t, tc.wantLast, got[len(got)-1])
		})
	}
}

// TestPlanSlices_IndicesInRange verifies the planner's index invariant
// for arbitrary image counts in the unsplit case.
func TestPlanSlices_IndicesInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 300).Draw(rt, "imageCount")
		obj := &legacy.Object{ImageCount: count}
		got := export.PlanSlices(obj, export.VariantNone)
		assert.Len(rt, got, count)
		for i, idx := range got {
			assert.Equal(rt, i, idx)
		}
	})
}

func TestExportObject_ReferenceMode(t *testing.T) {
	obj := &legacy.Object{
		Provenance: legacy.ProvenanceRCT2,
		Category:   legacy.CategorySmallScenery,
		FileName:   "TreeA",
		ImageCount: 12,
	}
	// Reference mode needs no compiler and no extraction; exercised
	// through the exporter in exporter_test.go. Here only the
	// reference string contract matters.
	desc := exportSingle(t, obj, export.Options{})
	require.Len(t, desc.Images, 1)
	assert.Equal(t, "$RCT2:TREEA[0..11]", desc.Images[0])
}

func TestExportObject_WaterHasNoImages(t *testing.T) {
	obj := &legacy.Object{
		Provenance: legacy.ProvenanceRCT2,
		Category:   legacy.CategoryWater,
		FileName:   "WTRCYAN",
		ImageCount: 6,
	}
	desc := exportSingle(t, obj, export.Options{})
	assert.Nil(t, desc.Images)
}

func TestCompilerFailureFailsOpen(t *testing.T) {
	obj := footpathObject(true, false, 168)
	outDir := t.TempDir()

	failing := func(blobPath, manifestPath string) error {
		return errors.New("tool not found")
	}
	exp := export.New(stubReader{obj: obj}, failing, nil, testLogger(t), export.Options{Split: true})

	src := writeStubFile(t, obj.FileName)
	_, err := exp.Run(src, outDir)
	require.NoError(t, err, "compiler failure must not abort the export")

	// The raw artifacts survive when compilation fails.
	surfaceDir := filepath.Join(outDir, "rct2.footpath_surface.pathasp")
	entries, err := os.ReadDir(filepath.Join(surfaceDir, "images"))
	require.NoError(t, err)
	assert.Len(t, entries, 52)
}
