package compare

import (
	"context"

	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// NameSizeComparator treats two files with the same relative path as equal
// when their sizes match. Content is never read, so an edit that keeps the
// size goes unnoticed.
type NameSizeComparator struct{}

// NewNameSizeComparator creates a new name/size comparator
func NewNameSizeComparator() *NameSizeComparator {
	return &NameSizeComparator{}
}

// Compare compares two files by size
func (c *NameSizeComparator) Compare(_ context.Context, _, _ *storage.Tree, rel string, sourceInfo, targetInfo storage.FileInfo) (*Comparison, error) {
	if sourceInfo.Size != targetInfo.Size {
		return different(rel, "file sizes differ"), nil
	}
	return same(rel, "name and size match"), nil
}

// Name returns the comparator name
func (c *NameSizeComparator) Name() string {
	return string(models.CompareNameSize)
}
