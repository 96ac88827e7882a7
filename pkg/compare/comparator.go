package compare

import (
	"context"

	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
)

// Comparison holds the result of comparing a file present in both trees
type Comparison struct {
	Path   string
	Result Result
	Reason string
}

// Comparator defines the interface for file comparison algorithms.
// Both infos come from the directory listing that found the file, so
// implementations that only need metadata never touch the disk again.
type Comparator interface {
	Compare(ctx context.Context, source, target *storage.Tree, rel string, sourceInfo, targetInfo storage.FileInfo) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// ReaderWrappable is implemented by comparators that read file content
type ReaderWrappable interface {
	SetReaderWrapper(wrapper storage.ReaderWrapper)
}

// New returns the comparator for a comparison method
func New(method models.ComparisonMethod, bufferSize int) (Comparator, error) {
	switch method {
	case models.CompareShallow, "":
		return NewShallowComparator(bufferSize), nil
	case models.CompareBinary:
		return NewBinaryComparator(bufferSize), nil
	case models.CompareHash:
		return NewHashComparator(bufferSize), nil
	case models.CompareMD5:
		return NewMD5Comparator(bufferSize), nil
	case models.CompareNameSize:
		return NewNameSizeComparator(), nil
	default:
		return nil, models.ConfigError.New("unknown comparison method %q", method)
	}
}

func same(rel, reason string) *Comparison {
	return &Comparison{Path: rel, Result: Same, Reason: reason}
}

func different(rel, reason string) *Comparison {
	return &Comparison{Path: rel, Result: Different, Reason: reason}
}
