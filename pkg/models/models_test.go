package models

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============== Entry Tests ==============

func TestEntryRelativePath(t *testing.T) {
	t.Run("RootLevel", func(t *testing.T) {
		e := Entry{Name: "a.txt"}
		assert.Equal(t, "a.txt", e.RelativePath())
	})

	t.Run("Nested", func(t *testing.T) {
		e := Entry{Name: "x.txt", Dir: "sub/deeper"}
		assert.Equal(t, "sub/deeper/x.txt", e.RelativePath())
	})
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		category Category
		expected Action
	}{
		{CategoryModified, ActionOverwrite},
		{CategorySourceOnlyFile, ActionCopy},
		{CategorySourceOnlyDir, ActionCopyTree},
		{CategoryTargetOnlyFile, ActionDelete},
		{CategoryTargetOnlyDir, ActionDeleteTree},
		{CategoryTypeConflict, ActionReplace},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, ActionFor(tt.category))
		})
	}
}

// ============== DiffResult Tests ==============

func TestDiffResultSetAndClear(t *testing.T) {
	d := &DiffResult{
		Modified:        []Entry{{Name: "m"}},
		SourceOnlyFiles: []Entry{{Name: "sf"}},
		SourceOnlyDirs:  []Entry{{Name: "sd"}},
		TargetOnlyFiles: []Entry{{Name: "tf"}},
		TargetOnlyDirs:  []Entry{{Name: "td"}},
		TypeConflicts:   []TypeConflict{{Entry: Entry{Name: "c"}, Type: ConflictFileOverDir}},
	}

	require.Equal(t, 6, d.Count())
	require.False(t, d.IsEmpty())

	for _, c := range Categories() {
		require.Len(t, d.Set(c), 1, "category %s", c)
		d.Clear(c)
		assert.Empty(t, d.Set(c), "category %s", c)
	}

	assert.False(t, d.IsEmpty(), "type conflicts still pending")
	d.Clear(CategoryTypeConflict)
	assert.True(t, d.IsEmpty())
}

func TestDiffResultSkippedDoesNotCount(t *testing.T) {
	d := &DiffResult{
		Skipped: []SkippedEntry{{Entry: Entry{Name: "link"}, Reason: SkipUnsupportedType}},
	}
	assert.True(t, d.IsEmpty())
}

func TestCategoriesOrder(t *testing.T) {
	assert.Equal(t, []Category{
		CategoryModified,
		CategorySourceOnlyFile,
		CategorySourceOnlyDir,
		CategoryTargetOnlyFile,
		CategoryTargetOnlyDir,
	}, Categories())
}

func TestTypeConflictSourceIsDir(t *testing.T) {
	assert.True(t, TypeConflict{Type: ConflictDirOverFile}.SourceIsDir())
	assert.False(t, TypeConflict{Type: ConflictFileOverDir}.SourceIsDir())
}

// ============== Interval Tests ==============

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		unit    string
		want    time.Duration
		wantErr bool
	}{
		{"DefaultUnitMinutes", "5", "", 5 * time.Minute, false},
		{"Minutes", "1.5", "m", 90 * time.Second, false},
		{"Hours", "2", "h", 2 * time.Hour, false},
		{"Days", "1", "d", 24 * time.Hour, false},
		{"InvalidUnit", "1", "w", 0, true},
		{"MalformedValue", "abc", "m", 0, true},
		{"Zero", "0", "m", 0, true},
		{"Negative", "-3", "h", 0, true},
		{"TooShort", "0.001", "m", 0, true},
		{"TooLarge", "1e300", "m", 0, true},
		{"Infinite", "Inf", "d", 0, true},
		{"NaN", "NaN", "m", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.value, tt.unit)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ConfigError.Has(err), "want ConfigError, got %v", err)
				assert.True(t, IsStartupError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntervalTooLargeMessage(t *testing.T) {
	_, err := ParseInterval("1e300", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
	assert.NotContains(t, err.Error(), "shorter")
}

// ============== SyncOperation Tests ==============

func validOperation() *SyncOperation {
	return &SyncOperation{
		SourcePath:       "/source",
		TargetPath:       "/target",
		Interval:         time.Minute,
		LogName:          "Logfile",
		ComparisonMethod: CompareShallow,
		BufferSize:       65536,
	}
}

func TestSyncOperationValidate(t *testing.T) {
	t.Run("ValidOperation", func(t *testing.T) {
		assert.NoError(t, validOperation().Validate())
	})

	tests := []struct {
		field  string
		mutate func(op *SyncOperation)
	}{
		{"SourcePath", func(op *SyncOperation) { op.SourcePath = "" }},
		{"TargetPath", func(op *SyncOperation) { op.TargetPath = "" }},
		{"Interval", func(op *SyncOperation) { op.Interval = time.Millisecond }},
		{"LogName", func(op *SyncOperation) { op.LogName = "" }},
		{"ComparisonMethod", func(op *SyncOperation) { op.ComparisonMethod = "fuzzy" }},
		{"MaxCycles", func(op *SyncOperation) { op.MaxCycles = -1 }},
		{"BandwidthLimit", func(op *SyncOperation) { op.BandwidthLimit = -1 }},
		{"BufferSize", func(op *SyncOperation) { op.BufferSize = 512 }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			op := validOperation()
			tt.mutate(op)

			err := op.Validate()
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSyncOperationLogFile(t *testing.T) {
	op := validOperation()
	assert.Equal(t, "Logfile.txt", op.LogFile())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "TestField", Message: "test message"}
	assert.Equal(t, "TestField: test message", err.Error())
}

// ============== Report Tests ==============

func TestReconcileReportStatus(t *testing.T) {
	start := time.Now()

	t.Run("EmptyIsSuccess", func(t *testing.T) {
		r := &ReconcileReport{StartTime: start}
		r.Finish(start.Add(time.Second))
		assert.Equal(t, StatusSuccess, r.Status)
		assert.Equal(t, time.Second, r.Duration)
	})

	t.Run("Partial", func(t *testing.T) {
		r := &ReconcileReport{StartTime: start}
		r.Record(ActionResult{Action: ActionCopy, Bytes: 10})
		r.Record(ActionResult{Action: ActionDelete, Err: errors.New("denied")})
		r.Finish(start)

		assert.Equal(t, StatusPartial, r.Status)
		assert.Equal(t, 1, r.Stats.FilesCopied)
		assert.Equal(t, 1, r.Stats.Failed)
		assert.Equal(t, int64(10), r.Stats.BytesTransferred)
		assert.Len(t, r.Failures(), 1)
	})

	t.Run("AllFailed", func(t *testing.T) {
		r := &ReconcileReport{StartTime: start}
		r.Record(ActionResult{Action: ActionOverwrite, Err: errors.New("disk full")})
		r.Finish(start)
		assert.Equal(t, StatusFailed, r.Status)
	})
}

func TestReconcileReportCounters(t *testing.T) {
	r := &ReconcileReport{}
	for _, a := range []Action{ActionOverwrite, ActionCopy, ActionCopyTree, ActionDelete, ActionDeleteTree, ActionReplace} {
		r.Record(ActionResult{Action: a})
	}

	assert.Equal(t, Statistics{
		FilesOverwritten: 1,
		FilesCopied:      1,
		DirsCopied:       1,
		FilesDeleted:     1,
		DirsDeleted:      1,
		Replaced:         1,
	}, r.Stats)
}

func TestSyncStatusExitCode(t *testing.T) {
	tests := []struct {
		status SyncStatus
		code   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{StatusCancelled, 3},
		{SyncStatus("weird"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.status.ExitCode())
		})
	}
}

// ============== Error Tests ==============

func TestClassifyIOError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, ClassifyIOError(nil))
	})

	t.Run("Permission", func(t *testing.T) {
		err := ClassifyIOError(fmt.Errorf("remove x: %w", fs.ErrPermission))
		assert.True(t, AccessError.Has(err))
		assert.ErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("Vanished", func(t *testing.T) {
		err := ClassifyIOError(fmt.Errorf("open x: %w", fs.ErrNotExist))
		assert.True(t, TransientIOError.Has(err))
		assert.False(t, IsStartupError(err))
	})

	t.Run("AlreadyClassified", func(t *testing.T) {
		orig := AccessError.New("cannot list")
		assert.Same(t, orig, ClassifyIOError(orig))
	})
}
