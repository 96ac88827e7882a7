package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5/util"
	"github.com/zeebo/errs"

	"github.com/sdejongh/dirmirror/pkg/models"
)

const tempPrefix = ".dirmirror-"

// ReaderWrapper wraps the source reader of a copy (e.g., for rate limiting)
type ReaderWrapper func(ctx context.Context, r io.Reader) io.Reader

// PathFilter reports whether a relative path must be left out of a copy
type PathFilter func(rel string, isDir bool) bool

// Copier copies files and subtrees between two trees. Files are written to a
// temporary file in the destination directory and renamed into place, so
// readers of the destination never observe a partially written file.
type Copier struct {
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper
	filter        PathFilter
}

// NewCopier creates a copier using buffers of bufferSize bytes
func NewCopier(bufferSize int) *Copier {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Copier{
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetReaderWrapper sets a function to wrap source readers
func (c *Copier) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// SetFilter sets the filter applied to the nested entries of CopyTree
func (c *Copier) SetFilter(filter PathFilter) {
	c.filter = filter
}

// CopyFile copies the regular file at rel from src to the same relative path
// in dst, replacing any existing file. The parent directory must exist in dst.
func (c *Copier) CopyFile(ctx context.Context, src, dst *Tree, rel string) (int64, error) {
	info, err := src.Lstat(rel)
	if err != nil {
		return 0, err
	}
	if info.Kind() != KindFile {
		return 0, models.AccessError.New("%s is not a regular file", src.DisplayPath(rel))
	}
	return c.copyFile(ctx, src, dst, rel, info)
}

func (c *Copier) copyFile(ctx context.Context, src, dst *Tree, rel string, info FileInfo) (written int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	in, err := src.Open(rel)
	if err != nil {
		return 0, err
	}
	defer func() { err = errs.Combine(err, closeErr(in)) }()

	out, err := dst.fs.TempFile(fsPath(path.Dir(rel)), tempPrefix)
	if err != nil {
		return 0, models.ClassifyIOError(err)
	}
	tempName := out.Name()
	defer func() {
		if tempName != "" {
			_ = out.Close()
			_ = dst.fs.Remove(tempName)
		}
	}()

	var reader io.Reader = in
	if c.readerWrapper != nil {
		reader = c.readerWrapper(ctx, in)
	}

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)

	written, err = io.CopyBuffer(out, reader, *bufPtr)
	if err != nil {
		return written, models.ClassifyIOError(err)
	}
	if err := out.Close(); err != nil {
		return written, models.ClassifyIOError(err)
	}

	// Metadata goes on the temp file so the renamed file is complete
	if err := dst.SetMetadata(filepath.ToSlash(tempName), info.Mode.Perm()|0o200, info.ModTime); err != nil {
		return written, err
	}

	if err := dst.fs.Rename(tempName, fsPath(rel)); err != nil {
		return written, models.ClassifyIOError(err)
	}
	tempName = ""

	return written, nil
}

// CopyTree recursively copies the directory at rel from src into dst.
// Failures of nested entries are collected and returned together; the
// remaining entries are still copied. Entries that are neither regular
// files nor directories, and nested entries rejected by the filter, are not
// copied.
func (c *Copier) CopyTree(ctx context.Context, src, dst *Tree, rel string) (int64, error) {
	var (
		total int64
		group errs.Group
	)

	walkErr := util.Walk(src.fs, fsPath(rel), func(p string, fi os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		child := filepath.ToSlash(p)
		if err != nil {
			group.Add(models.ClassifyIOError(err))
			if fi != nil && fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info := infoFrom(fi)
		if c.filter != nil && child != rel && c.filter(child, info.Kind() == KindDir) {
			if info.Kind() == KindDir {
				return filepath.SkipDir
			}
			return nil
		}

		switch info.Kind() {
		case KindDir:
			if err := dst.MkdirAll(child, info.Mode.Perm()|0o700); err != nil {
				group.Add(err)
				return filepath.SkipDir
			}
		case KindFile:
			n, err := c.copyFile(ctx, src, dst, child, info)
			total += n
			group.Add(err)
		}
		return nil
	})
	group.Add(walkErr)

	return total, group.Err()
}

func closeErr(f io.Closer) error {
	return models.ClassifyIOError(f.Close())
}
