package models

import (
	"path"
	"time"
)

// Entry is a lightweight reference to a filesystem object found during a
// tree comparison. It does not own any content.
type Entry struct {
	// Name is the base name, unique within its parent directory
	Name string

	// Dir is the slash-separated parent path relative to both roots ("" for the root)
	Dir string

	// SourceParent is the parent directory on the source side
	SourceParent string

	// TargetParent is the parent directory on the target side
	TargetParent string

	// Size in bytes of the side the entry was classified from (0 for directories)
	Size int64

	// ModTime of the side the entry was classified from
	ModTime time.Time
}

// RelativePath returns the slash-separated path relative to the roots
func (e Entry) RelativePath() string {
	if e.Dir == "" {
		return e.Name
	}
	return path.Join(e.Dir, e.Name)
}

// Category names one of the five disjoint difference sets
type Category string

const (
	// CategoryModified is a file present on both sides with different content
	CategoryModified Category = "modified"
	// CategorySourceOnlyFile is a file present only under source
	CategorySourceOnlyFile Category = "source_only_file"
	// CategorySourceOnlyDir is a directory present only under source
	CategorySourceOnlyDir Category = "source_only_dir"
	// CategoryTargetOnlyFile is a file present only under target
	CategoryTargetOnlyFile Category = "target_only_file"
	// CategoryTargetOnlyDir is a directory present only under target
	CategoryTargetOnlyDir Category = "target_only_dir"
	// CategoryTypeConflict is a name that is a file on one side and a directory on the other
	CategoryTypeConflict Category = "type_conflict"
)

// Action represents what the reconciler did with an entry
type Action string

const (
	// ActionOverwrite replaces a modified target file with the source file
	ActionOverwrite Action = "overwrite"
	// ActionCopy copies a new file from source to target
	ActionCopy Action = "copy"
	// ActionCopyTree copies a new directory subtree from source to target
	ActionCopyTree Action = "copy_tree"
	// ActionDelete deletes a file from target
	ActionDelete Action = "delete"
	// ActionDeleteTree deletes a directory subtree from target
	ActionDeleteTree Action = "delete_tree"
	// ActionReplace swaps a target object for a source object of the other type
	ActionReplace Action = "replace"
)

// ActionFor returns the reconcile action applied to entries of a category
func ActionFor(category Category) Action {
	switch category {
	case CategoryModified:
		return ActionOverwrite
	case CategorySourceOnlyFile:
		return ActionCopy
	case CategorySourceOnlyDir:
		return ActionCopyTree
	case CategoryTargetOnlyFile:
		return ActionDelete
	case CategoryTargetOnlyDir:
		return ActionDeleteTree
	default:
		return ActionReplace
	}
}
