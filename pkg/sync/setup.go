package sync

import (
	"github.com/sdejongh/dirmirror/internal/platform"
	"github.com/sdejongh/dirmirror/pkg/compare"
	"github.com/sdejongh/dirmirror/pkg/diff"
	"github.com/sdejongh/dirmirror/pkg/logging"
	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/output"
	"github.com/sdejongh/dirmirror/pkg/ratelimit"
	"github.com/sdejongh/dirmirror/pkg/reconcile"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// New opens both trees of op and wires the comparison and reconcile layers
// into a cycle. Missing, identical or nested roots return a PathError and an
// unknown comparison method a ConfigError.
func New(op models.SyncOperation, reporter output.Reporter, logger logging.Logger) (*Cycle, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	if err := platform.ValidateRoots(op.SourcePath, op.TargetPath); err != nil {
		return nil, err
	}

	source, err := storage.NewLocal(op.SourcePath)
	if err != nil {
		return nil, err
	}
	target, err := storage.NewLocal(op.TargetPath)
	if err != nil {
		return nil, err
	}

	comparator, err := compare.New(op.ComparisonMethod, op.BufferSize)
	if err != nil {
		return nil, err
	}

	copier := storage.NewCopier(op.BufferSize)
	if limiter := ratelimit.NewLimiter(op.BandwidthLimit); limiter != nil {
		copier.SetReaderWrapper(limiter.Wrap)
		if w, ok := comparator.(compare.ReaderWrappable); ok {
			w.SetReaderWrapper(limiter.Wrap)
		}
	}

	differ := diff.NewDiffer(source, target, comparator, op.ExcludePatterns, logger)
	copier.SetFilter(differ.Excluded)
	reconciler := reconcile.NewReconciler(source, target, copier, logger)

	return NewCycle(op, differ, reconciler, reporter, logger), nil
}
