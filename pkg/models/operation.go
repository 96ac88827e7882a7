package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ComparisonMethod defines how two regular files with the same name are compared
type ComparisonMethod string

const (
	// CompareShallow treats equal size and modification time as identical and
	// falls back to a byte-by-byte comparison otherwise
	CompareShallow ComparisonMethod = "shallow"
	// CompareBinary always compares byte-by-byte
	CompareBinary ComparisonMethod = "binary"
	// CompareHash compares SHA-256 hashes
	CompareHash ComparisonMethod = "hash"
	// CompareMD5 compares MD5 hashes (faster than SHA-256, less secure)
	CompareMD5 ComparisonMethod = "md5"
	// CompareNameSize compares by name and size only
	CompareNameSize ComparisonMethod = "namesize"
)

// ComparisonMethods lists every supported method
func ComparisonMethods() []ComparisonMethod {
	return []ComparisonMethod{CompareShallow, CompareBinary, CompareHash, CompareMD5, CompareNameSize}
}

// IntervalUnit is the unit of the sync interval
type IntervalUnit string

const (
	// UnitMinutes is the default unit
	UnitMinutes IntervalUnit = "m"
	// UnitHours multiplies the interval value by one hour
	UnitHours IntervalUnit = "h"
	// UnitDays multiplies the interval value by one day
	UnitDays IntervalUnit = "d"
)

// Duration returns the length of one unit
func (u IntervalUnit) Duration() (time.Duration, bool) {
	switch u {
	case UnitMinutes:
		return time.Minute, true
	case UnitHours:
		return time.Hour, true
	case UnitDays:
		return 24 * time.Hour, true
	default:
		return 0, false
	}
}

// ParseInterval resolves an interval value and unit into a duration.
// An empty unit means minutes.
func ParseInterval(value string, unit string) (time.Duration, error) {
	u := IntervalUnit(strings.TrimSpace(unit))
	if u == "" {
		u = UnitMinutes
	}
	base, ok := u.Duration()
	if !ok {
		return 0, ConfigError.New("invalid interval unit %q (valid: m, h, d)", unit)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) {
		return 0, ConfigError.New("malformed interval value %q", value)
	}
	if n <= 0 {
		return 0, ConfigError.New("interval must be positive, got %s", value)
	}

	if n*float64(base) > math.MaxInt64 {
		return 0, ConfigError.New("interval %s%s is too large", value, u)
	}
	d := time.Duration(n * float64(base))
	if d < time.Second {
		return 0, ConfigError.New("interval %s%s is shorter than one second", value, u)
	}
	return d, nil
}

// SyncOperation is the immutable configuration record handed to the sync
// cycle and the scheduler at construction time
type SyncOperation struct {
	ID               string
	SourcePath       string
	TargetPath       string
	Interval         time.Duration
	LogName          string
	ComparisonMethod ComparisonMethod
	ExcludePatterns  []string
	DryRun           bool
	MaxCycles        int   // 0 = run until the process is stopped
	BandwidthLimit   int64 // bytes per second, 0 = unlimited
	BufferSize       int
	CreatedAt        time.Time
}

// Validate checks if the operation configuration is valid
func (op *SyncOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if op.TargetPath == "" {
		return &ValidationError{Field: "TargetPath", Message: "target path is required"}
	}
	if op.Interval < time.Second {
		return &ValidationError{Field: "Interval", Message: "interval must be at least one second"}
	}
	if op.LogName == "" {
		return &ValidationError{Field: "LogName", Message: "log file name is required"}
	}
	if !validComparison(op.ComparisonMethod) {
		return &ValidationError{Field: "ComparisonMethod", Message: "unsupported comparison method: " + string(op.ComparisonMethod)}
	}
	if op.MaxCycles < 0 {
		return &ValidationError{Field: "MaxCycles", Message: "must not be negative"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "must not be negative"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	return nil
}

// LogFile returns the audit log file path for the configured base name
func (op *SyncOperation) LogFile() string {
	return op.LogName + ".txt"
}

func validComparison(m ComparisonMethod) bool {
	for _, known := range ComparisonMethods() {
		if m == known {
			return true
		}
	}
	return false
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
