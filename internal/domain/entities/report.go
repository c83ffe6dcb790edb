package entities

import (
	"errors"
	"time"
)

// FileStatus is the outcome of converting one file.
type FileStatus string

const (
	StatusConverted FileStatus = "converted"
	StatusSkipped   FileStatus = "skipped"   // output existed and on_existing is skip
	StatusPlanned   FileStatus = "planned"   // dry run
	StatusFailed    FileStatus = "failed"
	StatusCancelled FileStatus = "cancelled" // not attempted after a fail-fast abort
)

// FileResult records what happened to one source file.
type FileResult struct {
	File   SourceFile
	Output string
	Status FileStatus
	Err    error
}

// RunReport aggregates the per-file results of a batch, in scan order.
type RunReport struct {
	Results  []FileResult
	Duration time.Duration
}

// Count returns the number of results with the given status.
func (r *RunReport) Count(status FileStatus) int {
	count := 0
	for _, result := range r.Results {
		if result.Status == status {
			count++
		}
	}
	return count
}

// Errors returns the per-file errors in scan order.
func (r *RunReport) Errors() []error {
	var errs []error
	for _, result := range r.Results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return errs
}

// Err joins every per-file error, or returns nil when all files succeeded.
func (r *RunReport) Err() error {
	return errors.Join(r.Errors()...)
}
