package compare

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"sync"

	"github.com/zeebo/errs"

	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// Partial hashing configuration
const (
	// Minimum file size to enable partial hashing (1MB)
	partialHashThreshold = 1 * 1024 * 1024
	// Size of partial hash to compute (256KB)
	partialHashSize = 256 * 1024
)

// HashComparator compares files by digest. The source file is hashed
// before the target file. Large files are first compared on a digest of their leading
// bytes so that most differing files are rejected without a full read.
type HashComparator struct {
	name              string
	newHash           func() hash.Hash
	bufferPool        *sync.Pool
	enablePartialHash bool
	readerWrapper     storage.ReaderWrapper
}

// NewHashComparator creates a SHA-256 comparator
func NewHashComparator(bufferSize int) *HashComparator {
	return newDigestComparator(string(models.CompareHash), sha256.New, bufferSize)
}

func newDigestComparator(name string, newHash func() hash.Hash, bufferSize int) *HashComparator {
	return &HashComparator{
		name:              name,
		newHash:           newHash,
		bufferPool:        newBufferPool(bufferSize),
		enablePartialHash: true,
	}
}

// SetPartialHashEnabled enables or disables partial hashing optimization
func (c *HashComparator) SetPartialHashEnabled(enabled bool) {
	c.enablePartialHash = enabled
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *HashComparator) SetReaderWrapper(wrapper storage.ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares two files by digest
func (c *HashComparator) Compare(ctx context.Context, source, target *storage.Tree, rel string, sourceInfo, targetInfo storage.FileInfo) (*Comparison, error) {
	if sourceInfo.Size != targetInfo.Size {
		return different(rel, "file sizes differ"), nil
	}

	if c.enablePartialHash && sourceInfo.Size >= partialHashThreshold {
		sourceSum, targetSum, err := c.digestBoth(ctx, source, target, rel, partialHashSize)
		// A failed partial hash falls through to the full hash
		if err == nil && sourceSum != targetSum {
			return different(rel, "file partial hashes differ"), nil
		}
	}

	sourceSum, targetSum, err := c.digestBoth(ctx, source, target, rel, -1)
	if err != nil {
		return nil, err
	}
	if sourceSum != targetSum {
		return different(rel, "file hashes differ"), nil
	}
	return same(rel, "file hashes match"), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return c.name
}

func (c *HashComparator) digestBoth(ctx context.Context, source, target *storage.Tree, rel string, limit int64) (string, string, error) {
	sourceSum, err := c.digest(ctx, source, rel, limit)
	if err != nil {
		return "", "", err
	}
	targetSum, err := c.digest(ctx, target, rel, limit)
	if err != nil {
		return "", "", err
	}
	return sourceSum, targetSum, nil
}

// digest hashes the first limit bytes of a file, or all of it if limit is negative
func (c *HashComparator) digest(ctx context.Context, tree *storage.Tree, rel string, limit int64) (sum string, err error) {
	f, reader, err := open(ctx, tree, rel, c.readerWrapper)
	if err != nil {
		return "", err
	}
	defer func() { err = errs.Combine(err, models.ClassifyIOError(f.Close())) }()

	if limit >= 0 {
		reader = io.LimitReader(reader, limit)
	}
	reader = &contextReader{ctx: ctx, r: reader}

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)

	h := c.newHash()
	if _, err := io.CopyBuffer(h, reader, *bufPtr); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", models.ClassifyIOError(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
