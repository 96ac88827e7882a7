package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// Tree is a directory tree accessed through a go-billy filesystem rooted at
// the tree root. All paths taken by Tree methods are slash-separated and
// relative to the root; "" is the root itself.
type Tree struct {
	root  string
	fs    billy.Filesystem
	local bool
}

// NewLocal opens a tree on the local filesystem. The root must exist and be
// a readable directory, otherwise a PathError is returned.
func NewLocal(rootPath string) (*Tree, error) {
	if rootPath == "" {
		return nil, models.PathError.New("path is empty")
	}

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, models.PathError.New("failed to resolve %q: %v", rootPath, err)
	}

	t := NewTree(absPath, osfs.New(absPath))
	t.local = true
	if err := t.CheckRoot(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTree wraps an existing billy filesystem. root is only used to build
// display paths.
func NewTree(root string, fs billy.Filesystem) *Tree {
	return &Tree{root: root, fs: fs}
}

// Root returns the display root of the tree
func (t *Tree) Root() string {
	return t.root
}

// Filesystem returns the underlying billy filesystem
func (t *Tree) Filesystem() billy.Filesystem {
	return t.fs
}

// DisplayPath joins a relative path onto the display root
func (t *Tree) DisplayPath(rel string) string {
	if rel == "" {
		return t.root
	}
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

// CheckRoot verifies the root exists and is a readable directory
func (t *Tree) CheckRoot() error {
	info, err := t.fs.Stat(fsPath(""))
	if err != nil {
		return models.PathError.New("failed to access %s: %v", t.root, err)
	}
	if !info.IsDir() {
		return models.PathError.New("path is not a directory: %s", t.root)
	}
	if _, err := t.fs.ReadDir(fsPath("")); err != nil {
		return models.PathError.New("directory is not readable: %s: %v", t.root, err)
	}
	return nil
}

// ReadDir lists a directory sorted by name without following symlinks
func (t *Tree) ReadDir(ctx context.Context, dir string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list, err := t.fs.ReadDir(fsPath(dir))
	if err != nil {
		return nil, models.ClassifyIOError(err)
	}

	entries := make([]FileInfo, 0, len(list))
	for _, info := range list {
		entries = append(entries, infoFrom(info))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Lstat returns metadata for a path without following symlinks
func (t *Tree) Lstat(rel string) (FileInfo, error) {
	info, err := t.fs.Lstat(fsPath(rel))
	if err != nil {
		return FileInfo{}, models.ClassifyIOError(err)
	}
	return infoFrom(info), nil
}

// Open opens a file for reading
func (t *Tree) Open(rel string) (billy.File, error) {
	f, err := t.fs.Open(fsPath(rel))
	if err != nil {
		return nil, models.ClassifyIOError(err)
	}
	return f, nil
}

// Remove deletes a single file or an empty directory
func (t *Tree) Remove(rel string) error {
	if err := t.fs.Remove(fsPath(rel)); err != nil {
		return models.ClassifyIOError(err)
	}
	return nil
}

// RemoveAll deletes a path and everything below it
func (t *Tree) RemoveAll(rel string) error {
	if rel == "" {
		return models.PathError.New("refusing to remove the root of %s", t.root)
	}
	if err := util.RemoveAll(t.fs, fsPath(rel)); err != nil {
		return models.ClassifyIOError(err)
	}
	return nil
}

// MkdirAll creates a directory and all necessary parents
func (t *Tree) MkdirAll(rel string, perm os.FileMode) error {
	if err := t.fs.MkdirAll(fsPath(rel), perm); err != nil {
		return models.ClassifyIOError(err)
	}
	return nil
}

// SetMetadata applies permissions and modification time to a path
func (t *Tree) SetMetadata(rel string, perm os.FileMode, modTime time.Time) error {
	if change, ok := t.fs.(billy.Change); ok {
		if err := change.Chmod(fsPath(rel), perm); err != nil {
			return models.ClassifyIOError(err)
		}
		if err := change.Chtimes(fsPath(rel), modTime, modTime); err != nil {
			return models.ClassifyIOError(err)
		}
		return nil
	}
	if !t.local {
		return nil
	}

	// The chroot wrapper of osfs hides billy.Change, go through the OS directly
	full := t.DisplayPath(rel)
	if err := os.Chmod(full, perm); err != nil {
		return models.ClassifyIOError(err)
	}
	if err := os.Chtimes(full, modTime, modTime); err != nil {
		return models.ClassifyIOError(err)
	}
	return nil
}

// Join builds a relative child path
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}

func fsPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
