package compare

import (
	"context"

	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// ShallowComparator performs a multi-stage comparison:
// Stage 1: different sizes means different files
// Stage 2: equal size and modification time means the same file
// Stage 3: otherwise the content is compared byte-by-byte
type ShallowComparator struct {
	binary *BinaryComparator
}

// NewShallowComparator creates the default comparator
func NewShallowComparator(bufferSize int) *ShallowComparator {
	return &ShallowComparator{binary: NewBinaryComparator(bufferSize)}
}

// SetReaderWrapper sets a function to wrap readers of the content stage
func (c *ShallowComparator) SetReaderWrapper(wrapper storage.ReaderWrapper) {
	c.binary.SetReaderWrapper(wrapper)
}

// Compare compares metadata first and content only when needed
func (c *ShallowComparator) Compare(ctx context.Context, source, target *storage.Tree, rel string, sourceInfo, targetInfo storage.FileInfo) (*Comparison, error) {
	if sourceInfo.Size != targetInfo.Size {
		return different(rel, "file sizes differ"), nil
	}
	if sourceInfo.ModTime.Equal(targetInfo.ModTime) {
		return same(rel, "size and modification time match"), nil
	}
	return c.binary.Compare(ctx, source, target, rel, sourceInfo, targetInfo)
}

// Name returns the comparator name
func (c *ShallowComparator) Name() string {
	return string(models.CompareShallow)
}
