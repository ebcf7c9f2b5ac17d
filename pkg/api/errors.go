package api

import "github.com/kuponqurban/kupon/internal/errs"

// Errors returned by the generator and session; test with errors.Is.
var (
	ErrInvalidConfiguration = errs.ErrInvalidConfiguration
	ErrInvalidArgument      = errs.ErrInvalidArgument
	ErrCodeGeneration       = errs.ErrCodeGeneration
	ErrExport               = errs.ErrExport
	ErrStaleRun             = errs.ErrStaleRun
)
