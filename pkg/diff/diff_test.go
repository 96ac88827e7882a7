package diff

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirmirror/pkg/compare"
	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// memTree builds an in-memory tree. Keys ending in "/" are directories.
func memTree(t *testing.T, root string, layout map[string]string) *storage.Tree {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(".", 0o755))
	for name, content := range layout {
		if strings.HasSuffix(name, "/") {
			require.NoError(t, fs.MkdirAll(strings.TrimSuffix(name, "/"), 0o755))
			continue
		}
		if dir := path.Dir(name); dir != "." {
			require.NoError(t, fs.MkdirAll(dir, 0o755))
		}
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return storage.NewTree(root, fs)
}

func paths(entries []models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RelativePath())
	}
	return out
}

func newDiffer(source, target *storage.Tree, excludes ...string) *Differ {
	return NewDiffer(source, target, compare.NewBinaryComparator(4096), excludes, nil)
}

func TestDifferClassification(t *testing.T) {
	source := memTree(t, "/src", map[string]string{
		"a.txt":             "1",
		"same.txt":          "x",
		"mod.txt":           "1",
		"newdir/x.txt":      "x",
		"newdir/deep/y.txt": "y",
		"common/inner.txt":  "a",
		"common/new.txt":    "n",
		"common/fresh/":     "",
	})
	target := memTree(t, "/dst", map[string]string{
		"same.txt":         "x",
		"mod.txt":          "2",
		"stale.txt":        "s",
		"olddir/y.txt":     "y",
		"common/inner.txt": "b",
		"common/old.txt":   "o",
		"common/gone/":     "",
	})

	result, err := newDiffer(source, target).Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"mod.txt", "common/inner.txt"}, paths(result.Modified))
	assert.Equal(t, []string{"a.txt", "common/new.txt"}, paths(result.SourceOnlyFiles))
	assert.Equal(t, []string{"newdir", "common/fresh"}, paths(result.SourceOnlyDirs))
	assert.Equal(t, []string{"stale.txt", "common/old.txt"}, paths(result.TargetOnlyFiles))
	assert.Equal(t, []string{"olddir", "common/gone"}, paths(result.TargetOnlyDirs))
	assert.Empty(t, result.TypeConflicts)
	assert.Empty(t, result.Skipped)

	t.Run("ParentPaths", func(t *testing.T) {
		e := result.Modified[1]
		assert.Equal(t, "inner.txt", e.Name)
		assert.Equal(t, "common", e.Dir)
		assert.Equal(t, filepath.Join("/src", "common"), e.SourceParent)
		assert.Equal(t, filepath.Join("/dst", "common"), e.TargetParent)
	})

	t.Run("Disjoint", func(t *testing.T) {
		seen := make(map[string]models.Category)
		for _, c := range models.Categories() {
			for _, p := range paths(result.Set(c)) {
				prev, dup := seen[p]
				assert.False(t, dup, "%s in both %s and %s", p, prev, c)
				seen[p] = c
			}
		}
	})
}

func TestDifferIdenticalTrees(t *testing.T) {
	layout := map[string]string{"a.txt": "1", "sub/b.txt": "2", "empty/": ""}
	result, err := newDiffer(memTree(t, "/src", layout), memTree(t, "/dst", layout)).Compare(context.Background())
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestDifferTypeConflicts(t *testing.T) {
	source := memTree(t, "/src", map[string]string{
		"thing":       "file in source",
		"other/x.txt": "x",
	})
	target := memTree(t, "/dst", map[string]string{
		"thing/y.txt": "y",
		"other":       "file in target",
	})

	result, err := newDiffer(source, target).Compare(context.Background())
	require.NoError(t, err)

	require.Len(t, result.TypeConflicts, 2)
	assert.Equal(t, "other", result.TypeConflicts[0].Entry.Name)
	assert.Equal(t, models.ConflictDirOverFile, result.TypeConflicts[0].Type)
	assert.True(t, result.TypeConflicts[0].SourceIsDir())
	assert.Equal(t, "thing", result.TypeConflicts[1].Entry.Name)
	assert.Equal(t, models.ConflictFileOverDir, result.TypeConflicts[1].Type)

	// Conflicting names never land in the five sets and are not descended into
	for _, c := range models.Categories() {
		assert.Empty(t, result.Set(c), "category %s", c)
	}
}

func TestDifferExcludes(t *testing.T) {
	source := memTree(t, "/src", map[string]string{
		"keep.txt":      "k",
		"scratch.tmp":   "t",
		"build/out.bin": "o",
		"sub/cache.tmp": "c",
	})
	target := memTree(t, "/dst", map[string]string{
		"old.tmp": "o",
	})

	result, err := newDiffer(source, target, "*.tmp", "build/", " ").Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.txt"}, paths(result.SourceOnlyFiles))
	assert.Equal(t, []string{"sub"}, paths(result.SourceOnlyDirs))
	assert.Empty(t, result.TargetOnlyFiles, "excluded names are ignored on the target side too")
}

func TestDifferRoots(t *testing.T) {
	t.Run("MissingSource", func(t *testing.T) {
		target, err := storage.NewLocal(t.TempDir())
		require.NoError(t, err)
		missing := filepath.Join(t.TempDir(), "missing")
		source := storage.NewTree(missing, memfs.New())

		_, err = newDiffer(source, target).Compare(context.Background())
		require.Error(t, err)
		assert.True(t, models.PathError.Has(err))
	})

	t.Run("TargetRemovedAfterStartup", func(t *testing.T) {
		dir := t.TempDir()
		source, err := storage.NewLocal(t.TempDir())
		require.NoError(t, err)
		target, err := storage.NewLocal(dir)
		require.NoError(t, err)
		require.NoError(t, os.Remove(dir))

		_, err = newDiffer(source, target).Compare(context.Background())
		assert.True(t, models.PathError.Has(err))
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newDiffer(memTree(t, "/src", nil), memTree(t, "/dst", nil)).Compare(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDifferSkipsSymlinks(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "real.txt"), []byte("r"), 0o644))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(srcDir, "link")))
	require.NoError(t, os.Symlink("nowhere", filepath.Join(dstDir, "dangling")))

	source, err := storage.NewLocal(srcDir)
	require.NoError(t, err)
	target, err := storage.NewLocal(dstDir)
	require.NoError(t, err)

	result, err := newDiffer(source, target).Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"real.txt"}, paths(result.SourceOnlyFiles))
	assert.Empty(t, result.TargetOnlyFiles)
	require.Len(t, result.Skipped, 2)
	for _, s := range result.Skipped {
		assert.Equal(t, models.SkipUnsupportedType, s.Reason)
		assert.NoError(t, s.Err)
	}
	assert.Equal(t, "dangling", result.Skipped[0].Entry.Name)
	assert.Equal(t, "link", result.Skipped[1].Entry.Name)
}

func TestDifferUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	srcDir, dstDir := t.TempDir(), t.TempDir()
	locked := filepath.Join(srcDir, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dstDir, "locked"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "ok.txt"), []byte("ok"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	source, err := storage.NewLocal(srcDir)
	require.NoError(t, err)
	target, err := storage.NewLocal(dstDir)
	require.NoError(t, err)

	result, err := newDiffer(source, target).Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ok.txt"}, paths(result.SourceOnlyFiles))
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "locked", result.Skipped[0].Entry.RelativePath())
	assert.Equal(t, models.SkipUnreadable, result.Skipped[0].Reason)
	assert.True(t, models.AccessError.Has(result.Skipped[0].Err))
}

func TestPair(t *testing.T) {
	src := []storage.FileInfo{{Name: "a"}, {Name: "c"}, {Name: "d"}}
	dst := []storage.FileInfo{{Name: "b"}, {Name: "c"}, {Name: "e"}}

	pairs := pair(src, dst)
	var names []string
	for _, p := range pairs {
		names = append(names, p.name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
	assert.NotNil(t, pairs[2].source)
	assert.NotNil(t, pairs[2].target)
	assert.Nil(t, pairs[0].target)
	assert.Nil(t, pairs[1].source)
}
