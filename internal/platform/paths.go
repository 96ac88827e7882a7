package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// NormalizePath returns the cleaned absolute form of path. Symlinks are
// resolved when the path exists so that two spellings of the same directory
// compare equal.
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", models.PathError.New("path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", models.PathError.New("failed to resolve %q: %v", path, err)
	}
	normalized := filepath.Clean(abs)

	// On Windows, ensure UNC paths are preserved
	if IsUNCPath(path) && !strings.HasPrefix(normalized, `\\`) {
		normalized = `\\` + strings.TrimLeft(normalized, `\`)
	}

	if resolved, err := filepath.EvalSymlinks(normalized); err == nil {
		normalized = resolved
	}
	return normalized, nil
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// ValidateRoots rejects a source and target that are the same directory or
// nested inside one another. Mirroring into a subdirectory of the source
// would copy the mirror into itself on the next cycle.
func ValidateRoots(source, target string) error {
	src, err := NormalizePath(source)
	if err != nil {
		return err
	}
	dst, err := NormalizePath(target)
	if err != nil {
		return err
	}

	if samePath(src, dst) {
		return models.PathError.New("source and target cannot be the same: %s", src)
	}
	if within(dst, src) {
		return models.PathError.New("target %s cannot be inside source %s", dst, src)
	}
	if within(src, dst) {
		return models.PathError.New("source %s cannot be inside target %s", src, dst)
	}

	if srcInfo, err := os.Stat(src); err == nil {
		if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
			return models.PathError.New("source and target cannot be the same: %s", src)
		}
	}
	return nil
}

func samePath(a, b string) bool {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// within reports whether child lies strictly below parent
func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
