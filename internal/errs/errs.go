// Package errs holds the error taxonomy shared by the coupon pipeline.
package errs

import "errors"

var (
	// ErrInvalidConfiguration aborts a run before any item is generated:
	// unknown paper size, no usable area after margins, negative item count.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument is a contract violation between components,
	// e.g. a page capacity below one reaching the paginator.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCodeGeneration marks a failed code image for a single item.
	// It is logged and never aborts the run.
	ErrCodeGeneration = errors.New("code generation failed")

	// ErrExport is returned when capturing or assembling the document fails.
	ErrExport = errors.New("export failed")

	// ErrStaleRun is returned when a run finished after a newer one started.
	ErrStaleRun = errors.New("stale generation run")
)
