package compare

import (
	"crypto/md5"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// NewMD5Comparator creates an MD5 comparator.
// MD5 is faster than SHA-256 and is only used to detect changes, not tampering.
func NewMD5Comparator(bufferSize int) *HashComparator {
	return newDigestComparator(string(models.CompareMD5), md5.New, bufferSize)
}
