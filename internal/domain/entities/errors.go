package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistryFrozen is returned when a format is registered after startup.
	ErrRegistryFrozen = errors.New("format registry is frozen")

	// ErrUnrepresentable is wrapped by serializers when a value shape has no
	// encoding in the target format.
	ErrUnrepresentable = errors.New("value cannot be represented in target format")
)

// Role tells whether a format is looked up for reading or for writing.
type Role string

const (
	SourceRole Role = "source"
	TargetRole Role = "target"
)

// UnsupportedFormatError is returned when no parser or serializer is
// registered for a format identifier.
type UnsupportedFormatError struct {
	Format string
	Role   Role
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported %s format: %q", e.Role, e.Format)
}

// ParseError reports malformed source text. Line and Column are 1-based and
// zero when unknown.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnresolvedParameterError is returned when a ${name} placeholder has no binding.
type UnresolvedParameterError struct {
	File    string
	Name    string
	Context string
}

func (e *UnresolvedParameterError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s: unresolved parameter ${%s}", e.File, e.Name)
	}
	return fmt.Sprintf("%s: unresolved parameter ${%s} in %s", e.File, e.Name, e.Context)
}

// Stage names the pipeline step a conversion failed in.
type Stage string

const (
	StageRead       Stage = "read"
	StageParse      Stage = "parse"
	StageParameters Stage = "parameters"
	StageSerialize  Stage = "serialize"
	StageWrite      Stage = "write"
)

// ConversionError attributes a failure to one file and one stage.
type ConversionError struct {
	File  string
	Stage Stage
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Stage == StageParameters {
		return fmt.Sprintf("failed to expand parameters of %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Stage, e.File, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
