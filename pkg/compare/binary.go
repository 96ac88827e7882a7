package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/zeebo/errs"

	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// BinaryComparator compares files byte-by-byte.
// This is the most thorough comparison but also the slowest.
type BinaryComparator struct {
	bufferPool    *sync.Pool
	readerWrapper storage.ReaderWrapper
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	return &BinaryComparator{bufferPool: newBufferPool(bufferSize)}
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *BinaryComparator) SetReaderWrapper(wrapper storage.ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares two files byte-by-byte
func (c *BinaryComparator) Compare(ctx context.Context, source, target *storage.Tree, rel string, sourceInfo, targetInfo storage.FileInfo) (_ *Comparison, err error) {
	if sourceInfo.Size != targetInfo.Size {
		return different(rel, fmt.Sprintf("size mismatch: source=%d, target=%d", sourceInfo.Size, targetInfo.Size)), nil
	}

	sourceFile, sourceReader, err := open(ctx, source, rel, c.readerWrapper)
	if err != nil {
		return nil, err
	}
	defer func() { err = errs.Combine(err, models.ClassifyIOError(sourceFile.Close())) }()

	targetFile, targetReader, err := open(ctx, target, rel, c.readerWrapper)
	if err != nil {
		return nil, err
	}
	defer func() { err = errs.Combine(err, models.ClassifyIOError(targetFile.Close())) }()

	sourceBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(sourceBufPtr)
	targetBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(targetBufPtr)
	sourceBuf, targetBuf := *sourceBufPtr, *targetBufPtr

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sourceN, sourceErr := io.ReadFull(sourceReader, sourceBuf)
		targetN, targetErr := io.ReadFull(targetReader, targetBuf)
		if sourceErr != nil && !isEOF(sourceErr) {
			return nil, models.ClassifyIOError(sourceErr)
		}
		if targetErr != nil && !isEOF(targetErr) {
			return nil, models.ClassifyIOError(targetErr)
		}

		if !bytes.Equal(sourceBuf[:sourceN], targetBuf[:targetN]) {
			return different(rel, fmt.Sprintf("content differs at byte offset %d", offset+firstDiff(sourceBuf[:sourceN], targetBuf[:targetN]))), nil
		}
		offset += int64(sourceN)

		if sourceErr != nil || targetErr != nil {
			break
		}
	}

	return same(rel, fmt.Sprintf("binary content matches (%d bytes)", offset)), nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return string(models.CompareBinary)
}

func open(ctx context.Context, tree *storage.Tree, rel string, wrapper storage.ReaderWrapper) (io.Closer, io.Reader, error) {
	f, err := tree.Open(rel)
	if err != nil {
		return nil, nil, err
	}
	var r io.Reader = f
	if wrapper != nil {
		r = wrapper(ctx, f)
	}
	return f, r, nil
}

func newBufferPool(bufferSize int) *sync.Pool {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, bufferSize)
			return &buf
		},
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func firstDiff(a, b []byte) int64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int64(i)
		}
	}
	return int64(n)
}
