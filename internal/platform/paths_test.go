package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirmirror/pkg/models"
)

func TestNormalizePath(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := NormalizePath(dir + string(filepath.Separator) + "." + string(filepath.Separator))
	require.NoError(t, err)
	assert.Equal(t, resolved, got)

	_, err = NormalizePath("  ")
	require.Error(t, err)
	assert.True(t, models.PathError.Has(err))
}

func TestNormalizePathResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	a, err := NormalizePath(real)
	require.NoError(t, err)
	b, err := NormalizePath(link)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidateRoots(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "inner"), 0o755))
	require.NoError(t, os.MkdirAll(dst, 0o755))

	tests := []struct {
		name   string
		source string
		target string
		ok     bool
	}{
		{"siblings", src, dst, true},
		{"sibling with shared prefix", src, src + "-copy", true},
		{"identical", src, src, false},
		{"identical after cleaning", src, filepath.Join(src, "inner", ".."), false},
		{"target inside source", src, filepath.Join(src, "inner"), false},
		{"source inside target", filepath.Join(src, "inner"), src, false},
		{"empty source", "", dst, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoots(tt.source, tt.target)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, models.PathError.Has(err))
		})
	}
}

func TestWithin(t *testing.T) {
	sep := string(filepath.Separator)
	root := sep + "data"

	assert.True(t, within(root+sep+"a", root))
	assert.True(t, within(root+sep+"a"+sep+"b", root))
	assert.False(t, within(root, root))
	assert.False(t, within(root+"2", root))
	assert.False(t, within(sep+"other", root))
}
