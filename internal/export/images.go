package export

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

// Variant identifies which sub-object of a split export an artifact
// belongs to. VariantNone marks an unsplit export.
type Variant int

const (
	VariantNone Variant = iota
	VariantFootpathSurface
	VariantFootpathQueue
	VariantFootpathRailings
)

func (v Variant) String() string {
	switch v {
	case VariantFootpathSurface:
		return "surface"
	case VariantFootpathQueue:
		return "queue"
	case VariantFootpathRailings:
		return "railings"
	default:
		return "none"
	}
}

// PlanSlices returns the ordered image indices belonging to the given
// variant. The footpath ranges are fixed positional contracts of the
// legacy image layout and are reproduced exactly, including the shared
// index 71 between surface and railings.
func PlanSlices(obj *legacy.Object, variant Variant) []int {
	switch variant {
	case VariantFootpathSurface:
		return prepend(71, seq(0, 50))
	case VariantFootpathQueue:
		return prepend(72, seq(51, 70))
	case VariantFootpathRailings:
		fp := obj.Footpath
		switch {
		case fp.HasPoleSupports && fp.HasSupportImages:
			return prepend(71, seq(73, 164))
		case fp.HasPoleSupports:
			return prepend(71, seq(73, 145))
		default:
			// Without pole supports the support-images flag is
			// irrelevant.
			return prepend(71, seq(73, 167))
		}
	default:
		return seq(0, obj.ImageCount-1)
	}
}

func seq(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func prepend(first int, rest []int) []int {
	return append([]int{first}, rest...)
}

// ImageMode selects how a descriptor's images are materialized.
type ImageMode int

const (
	// ImagesReference emits a "$RCT2:" reference into the original
	// legacy file; nothing is extracted.
	ImagesReference ImageMode = iota
	// ImagesRaw extracts the sliced images next to the descriptor and
	// emits manifest entries.
	ImagesRaw
	// ImagesCompiled extracts the slice, runs the external image
	// compiler over the manifest, and emits a "$LGX:" reference to the
	// compiled blob.
	ImagesCompiled
)

// ManifestEntry is one image-manifest record: a raw image artifact and
// its draw offsets.
type ManifestEntry struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// CompileFunc packs the image manifest at manifestPath into the blob
// at blobPath. It abstracts the external image-compiler process so
// tests can substitute a stub.
type CompileFunc func(blobPath, manifestPath string) error

// NewCommandCompiler returns a CompileFunc that invokes the named
// image-compiler binary as "tool build <blob> <manifest>".
func NewCommandCompiler(tool string) CompileFunc {
	return func(blobPath, manifestPath string) error {
		cmd := exec.Command(tool, "build", blobPath, manifestPath)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("running %s: %w (%s)", tool, err, strings.TrimSpace(string(out)))
		}
		return nil
	}
}

// blobName is the compiled image container written next to a
// descriptor.
const blobName = "images.lgx"

// materializeImages produces the descriptor images value for one
// variant and writes any image artifacts under dir.
//
// ImagesReference needs no filesystem work: the water category yields
// nil (no image reference at all) and every other category yields a
// single "$RCT2:<FILE>[0..N-1]" reference. ImagesRaw extracts the
// planned slice into dir/images and returns manifest entries.
// ImagesCompiled additionally invokes compile and, on success, replaces
// the manifest with a "$LGX:" reference and deletes the intermediate
// artifacts; a compiler failure is logged as a warning and the raw
// artifacts are kept, so the export fails open.
func materializeImages(obj *legacy.Object, variant Variant, mode ImageMode, dir string, compile CompileFunc, logger *zap.Logger) ([]any, error) {
	if mode == ImagesReference {
		if obj.Category == legacy.CategoryWater {
			return nil, nil
		}
		return []any{referenceString(obj)}, nil
	}

	indices := PlanSlices(obj, variant)
	entries, err := extractImages(obj, indices, dir)
	if err != nil {
		return nil, err
	}
	if mode == ImagesRaw {
		return toAny(entries), nil
	}

	manifestPath := filepath.Join(dir, "manifest.json")
	if err := writeManifest(manifestPath, entries); err != nil {
		return nil, err
	}
	blobPath := filepath.Join(dir, blobName)
	if err := compile(blobPath, manifestPath); err != nil {
		logger.Warn("image compiler unavailable, keeping raw images",
			zap.String("object", strings.ToUpper(obj.FileName)),
			zap.Error(err),
			zap.String("remedy", "pass -raw to skip image compilation"))
		return toAny(entries), nil
	}
	// The manifest and raw images are redundant once the blob exists.
	if err := os.Remove(manifestPath); err != nil {
		return nil, fmt.Errorf("removing manifest: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(dir, "images")); err != nil {
		return nil, fmt.Errorf("removing raw images: %w", err)
	}
	ref := fmt.Sprintf("$LGX:%s[%d..%d]", blobName, 0, len(indices)-1)
	return []any{ref}, nil
}

// referenceString builds the no-extraction image reference into the
// original legacy file. File names are upper-cased in references.
func referenceString(obj *legacy.Object) string {
	return fmt.Sprintf("$RCT2:%s[%d..%d]", strings.ToUpper(obj.FileName), 0, obj.ImageCount-1)
}

// extractImages writes the images selected by indices to dir/images as
// sequentially numbered files and returns their manifest entries.
func extractImages(obj *legacy.Object, indices []int, dir string) ([]ManifestEntry, error) {
	imagesDir := filepath.Join(dir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("creating images directory: %w", err)
	}
	entries := make([]ManifestEntry, 0, len(indices))
	for n, idx := range indices {
		if idx < 0 || idx >= len(obj.Images) {
			return nil, fmt.Errorf("image index %d out of range [0, %d)", idx, len(obj.Images))
		}
		img := obj.Images[idx]
		rel := filepath.Join("images", fmt.Sprintf("%d.png", n))
		if err := os.WriteFile(filepath.Join(dir, rel), img.Data, 0644); err != nil {
			return nil, fmt.Errorf("writing image %d: %w", n, err)
		}
		entries = append(entries, ManifestEntry{
			Path: filepath.ToSlash(rel),
			X:    int(img.XOffset),
			Y:    int(img.YOffset),
		})
	}
	return entries, nil
}

// writeManifest serializes the image manifest consumed by the external
// image compiler.
func writeManifest(path string, entries []ManifestEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing image manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing image manifest: %w", err)
	}
	return nil
}

func toAny(entries []ManifestEntry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}
