package models

// DiffResult is the outcome of one full comparison pass. The five sets are
// pairwise disjoint by relative path. Order is traversal order.
type DiffResult struct {
	Modified        []Entry
	SourceOnlyFiles []Entry
	SourceOnlyDirs  []Entry
	TargetOnlyFiles []Entry
	TargetOnlyDirs  []Entry

	// TypeConflicts and Skipped are reported alongside the five sets
	TypeConflicts []TypeConflict
	Skipped       []SkippedEntry
}

// Set returns the entries of one of the five categories
func (d *DiffResult) Set(category Category) []Entry {
	switch category {
	case CategoryModified:
		return d.Modified
	case CategorySourceOnlyFile:
		return d.SourceOnlyFiles
	case CategorySourceOnlyDir:
		return d.SourceOnlyDirs
	case CategoryTargetOnlyFile:
		return d.TargetOnlyFiles
	case CategoryTargetOnlyDir:
		return d.TargetOnlyDirs
	default:
		return nil
	}
}

// Clear consumes one category after it has been processed
func (d *DiffResult) Clear(category Category) {
	switch category {
	case CategoryModified:
		d.Modified = nil
	case CategorySourceOnlyFile:
		d.SourceOnlyFiles = nil
	case CategorySourceOnlyDir:
		d.SourceOnlyDirs = nil
	case CategoryTargetOnlyFile:
		d.TargetOnlyFiles = nil
	case CategoryTargetOnlyDir:
		d.TargetOnlyDirs = nil
	case CategoryTypeConflict:
		d.TypeConflicts = nil
	}
}

// Categories lists the five sets in reconcile order
func Categories() []Category {
	return []Category{
		CategoryModified,
		CategorySourceOnlyFile,
		CategorySourceOnlyDir,
		CategoryTargetOnlyFile,
		CategoryTargetOnlyDir,
	}
}

// Count returns the number of entries that need an action
func (d *DiffResult) Count() int {
	n := len(d.TypeConflicts)
	for _, c := range Categories() {
		n += len(d.Set(c))
	}
	return n
}

// IsEmpty reports whether target already mirrors source
func (d *DiffResult) IsEmpty() bool {
	return d.Count() == 0
}
