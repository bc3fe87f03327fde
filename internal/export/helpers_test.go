package export_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leicestersquare/OpenGraphics/internal/export"
	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

// stubReader returns a fixed object for any path, or a fixed error.
type stubReader struct {
	obj *legacy.Object
	err error
}

func (s stubReader) Read(path string) (*legacy.Object, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.obj, nil
}

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}

// stubCompiler pretends to compile by writing an empty blob.
func stubCompiler(blobPath, manifestPath string) error {
	return os.WriteFile(blobPath, []byte("lgx"), 0644)
}

// writeStubFile creates a placeholder input file; its content is
// irrelevant when a stubReader supplies the object.
func writeStubFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".DAT")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0644))
	return path
}

// findDescriptors returns every serialized descriptor under root.
func findDescriptors(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") && entry.Name() != "manifest.json" {
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(t, err)
	return paths
}

// exportSingle runs a single-object export through the pipeline and
// parses the one descriptor it produces.
func exportSingle(t *testing.T, obj *legacy.Object, opts export.Options) *export.Descriptor {
	t.Helper()
	outDir := t.TempDir()
	exp := export.New(stubReader{obj: obj}, stubCompiler, nil, testLogger(t), opts)

	_, err := exp.Run(writeStubFile(t, obj.FileName), outDir)
	require.NoError(t, err)

	paths := findDescriptors(t, outDir)
	require.Len(t, paths, 1)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	desc, err := export.Parse(data)
	require.NoError(t, err)
	return desc
}
