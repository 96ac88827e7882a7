package models

// ConflictType tells which side holds the directory in a type conflict
type ConflictType string

const (
	// ConflictFileOverDir is a file in source and a directory in target
	ConflictFileOverDir ConflictType = "file-over-dir"
	// ConflictDirOverFile is a directory in source and a file in target
	ConflictDirOverFile ConflictType = "dir-over-file"
)

// TypeConflict records a name that is a regular file on one side and a
// directory on the other. It belongs to none of the five difference sets.
type TypeConflict struct {
	Entry Entry
	Type  ConflictType
}

// SourceIsDir reports whether the source side holds the directory
func (c TypeConflict) SourceIsDir() bool {
	return c.Type == ConflictDirOverFile
}

// SkipReason explains why an entry was left out of the comparison
type SkipReason string

const (
	// SkipUnsupportedType covers symlinks, devices, sockets and pipes
	SkipUnsupportedType SkipReason = "unsupported file type"
	// SkipUnreadable covers entries that could not be listed or read
	SkipUnreadable SkipReason = "unreadable"
)

// SkippedEntry is an entry reported but not classified into any set
type SkippedEntry struct {
	Entry  Entry
	Reason SkipReason
	Err    error
}
