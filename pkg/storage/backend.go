package storage

import (
	"os"
	"time"
)

// Kind classifies a directory entry
type Kind int

const (
	// KindOther covers symlinks, devices, sockets and named pipes
	KindOther Kind = iota
	// KindFile is a regular file
	KindFile
	// KindDir is a directory
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "other"
	}
}

// FileInfo represents metadata about a directory entry. Symlinks are not
// followed.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	Mode    os.FileMode
}

// Kind returns the entry kind derived from the mode bits
func (fi FileInfo) Kind() Kind {
	switch {
	case fi.Mode.IsRegular():
		return KindFile
	case fi.Mode.IsDir():
		return KindDir
	default:
		return KindOther
	}
}

func infoFrom(info os.FileInfo) FileInfo {
	return FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}
}
