// Package diff compares a source and a target tree and classifies every
// difference into the disjoint sets of a models.DiffResult.
package diff

import (
	"context"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/sdejongh/dirmirror/pkg/compare"
	"github.com/sdejongh/dirmirror/pkg/logging"
	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// Differ walks two trees in lock-step, one directory pair at a time
type Differ struct {
	source     *storage.Tree
	target     *storage.Tree
	comparator compare.Comparator
	excludes   *ignore.GitIgnore
	logger     logging.Logger
}

// NewDiffer creates a differ. Paths matching one of the gitignore-style
// exclude patterns are ignored on both sides.
func NewDiffer(source, target *storage.Tree, comparator compare.Comparator, excludes []string, logger logging.Logger) *Differ {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	d := &Differ{
		source:     source,
		target:     target,
		comparator: comparator,
		logger:     logger,
	}
	if patterns := cleanPatterns(excludes); len(patterns) > 0 {
		d.excludes = ignore.CompileIgnoreLines(patterns...)
	}
	return d
}

// Compare performs a full comparison of both trees. Both roots must be
// readable directories, otherwise a PathError is returned. Per-entry
// failures never abort the pass; they are recorded in DiffResult.Skipped.
func (d *Differ) Compare(ctx context.Context) (*models.DiffResult, error) {
	if err := d.source.CheckRoot(); err != nil {
		return nil, err
	}
	if err := d.target.CheckRoot(); err != nil {
		return nil, err
	}

	result := &models.DiffResult{}
	if err := d.walk(ctx, "", result); err != nil {
		return nil, err
	}
	return result, nil
}

// walk classifies the entries of one directory pair, then descends into the
// directories present on both sides
func (d *Differ) walk(ctx context.Context, dir string, result *models.DiffResult) error {
	sourceList, targetList, ok, err := d.list(ctx, dir, result)
	if err != nil || !ok {
		return err
	}

	var common []string
	for _, p := range pair(sourceList, targetList) {
		rel := storage.Join(dir, p.name)
		if d.excluded(rel, p) {
			d.logger.Debug(ctx, "Excluded", logging.Fields{"path": rel})
			continue
		}

		entry := d.entry(dir, p)
		switch {
		case p.source == nil:
			d.classifyOneSided(ctx, entry, p.target.Kind(), false, result)
		case p.target == nil:
			d.classifyOneSided(ctx, entry, p.source.Kind(), true, result)
		default:
			recurse, err := d.classifyCommon(ctx, entry, *p.source, *p.target, result)
			if err != nil {
				return err
			}
			if recurse {
				common = append(common, rel)
			}
		}
	}

	for _, sub := range common {
		if err := d.walk(ctx, sub, result); err != nil {
			return err
		}
	}
	return nil
}

// list reads both sides of a directory pair. A failure below the roots is
// recorded as a skipped entry and reported with ok set to false.
func (d *Differ) list(ctx context.Context, dir string, result *models.DiffResult) (src, dst []storage.FileInfo, ok bool, err error) {
	src, err = d.source.ReadDir(ctx, dir)
	if err == nil {
		dst, err = d.target.ReadDir(ctx, dir)
	}
	if err == nil {
		return src, dst, true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, false, ctxErr
	}
	if dir == "" {
		return nil, nil, false, models.PathError.Wrap(err)
	}

	d.skip(ctx, models.Entry{
		Name:         baseName(dir),
		Dir:          parentDir(dir),
		SourceParent: d.source.DisplayPath(parentDir(dir)),
		TargetParent: d.target.DisplayPath(parentDir(dir)),
	}, models.SkipUnreadable, models.ClassifyIOError(err), result)
	return nil, nil, false, nil
}

func (d *Differ) classifyOneSided(ctx context.Context, entry models.Entry, kind storage.Kind, inSource bool, result *models.DiffResult) {
	switch {
	case kind == storage.KindOther:
		d.skip(ctx, entry, models.SkipUnsupportedType, nil, result)
	case inSource && kind == storage.KindFile:
		result.SourceOnlyFiles = append(result.SourceOnlyFiles, entry)
	case inSource:
		entry.Size = 0
		result.SourceOnlyDirs = append(result.SourceOnlyDirs, entry)
	case kind == storage.KindFile:
		result.TargetOnlyFiles = append(result.TargetOnlyFiles, entry)
	default:
		entry.Size = 0
		result.TargetOnlyDirs = append(result.TargetOnlyDirs, entry)
	}
}

// classifyCommon handles a name present on both sides and reports whether
// it is a directory pair to descend into
func (d *Differ) classifyCommon(ctx context.Context, entry models.Entry, src, dst storage.FileInfo, result *models.DiffResult) (bool, error) {
	sk, tk := src.Kind(), dst.Kind()
	switch {
	case sk == storage.KindOther || tk == storage.KindOther:
		d.skip(ctx, entry, models.SkipUnsupportedType, nil, result)
	case sk == storage.KindDir && tk == storage.KindDir:
		return true, nil
	case sk == storage.KindFile && tk == storage.KindDir:
		result.TypeConflicts = append(result.TypeConflicts, models.TypeConflict{Entry: entry, Type: models.ConflictFileOverDir})
	case sk == storage.KindDir && tk == storage.KindFile:
		entry.Size = 0
		result.TypeConflicts = append(result.TypeConflicts, models.TypeConflict{Entry: entry, Type: models.ConflictDirOverFile})
	default:
		cmp, err := d.comparator.Compare(ctx, d.source, d.target, entry.RelativePath(), src, dst)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			d.skip(ctx, entry, models.SkipUnreadable, models.ClassifyIOError(err), result)
			return false, nil
		}
		if cmp.Result == compare.Different {
			d.logger.Debug(ctx, "Modified", logging.Fields{"path": cmp.Path, "reason": cmp.Reason})
			result.Modified = append(result.Modified, entry)
		}
	}
	return false, nil
}

func (d *Differ) skip(ctx context.Context, entry models.Entry, reason models.SkipReason, err error, result *models.DiffResult) {
	fields := logging.Fields{"path": entry.RelativePath(), "reason": string(reason)}
	if err != nil {
		d.logger.Warn(ctx, "Skipping entry: "+err.Error(), fields)
	} else {
		d.logger.Debug(ctx, "Skipping entry", fields)
	}
	result.Skipped = append(result.Skipped, models.SkippedEntry{Entry: entry, Reason: reason, Err: err})
}

func (d *Differ) entry(dir string, p namePair) models.Entry {
	info := p.source
	if info == nil {
		info = p.target
	}
	return models.Entry{
		Name:         p.name,
		Dir:          dir,
		SourceParent: d.source.DisplayPath(dir),
		TargetParent: d.target.DisplayPath(dir),
		Size:         info.Size,
		ModTime:      info.ModTime,
	}
}

func (d *Differ) excluded(rel string, p namePair) bool {
	isDir := (p.source != nil && p.source.Kind() == storage.KindDir) ||
		(p.target != nil && p.target.Kind() == storage.KindDir)
	return d.Excluded(rel, isDir)
}

// Excluded reports whether a relative path matches an exclude pattern. It
// satisfies storage.PathFilter so that subtree copies honour the same rules.
func (d *Differ) Excluded(rel string, isDir bool) bool {
	if d.excludes == nil {
		return false
	}
	if d.excludes.MatchesPath(rel) {
		return true
	}
	// Directory-only patterns ("build/") need the trailing slash to match
	return isDir && d.excludes.MatchesPath(rel+"/")
}

func cleanPatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func baseName(rel string) string {
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[i+1:]
	}
	return rel
}

func parentDir(rel string) string {
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[:i]
	}
	return ""
}
