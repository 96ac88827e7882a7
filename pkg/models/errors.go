package models

import (
	"errors"
	"io/fs"

	"github.com/zeebo/errs"
)

var (
	// PathError is a configured root that is missing, not a directory or unreadable
	PathError = errs.Class("path")

	// ConfigError is an invalid configuration value
	ConfigError = errs.Class("config")

	// AccessError is a per-entry permission or readability failure
	AccessError = errs.Class("access")

	// TransientIOError is a per-entry filesystem failure such as a vanished file or a full disk
	TransientIOError = errs.Class("transient io")
)

// ClassifyIOError tags a per-entry filesystem error as AccessError or
// TransientIOError. Errors that already carry one of the two classes are
// returned unchanged.
func ClassifyIOError(err error) error {
	if err == nil {
		return nil
	}
	if AccessError.Has(err) || TransientIOError.Has(err) {
		return err
	}
	if errors.Is(err, fs.ErrPermission) {
		return AccessError.Wrap(err)
	}
	return TransientIOError.Wrap(err)
}

// IsStartupError reports whether err must stop the process before any cycle runs
func IsStartupError(err error) bool {
	return PathError.Has(err) || ConfigError.Has(err)
}
