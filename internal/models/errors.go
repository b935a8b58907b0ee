package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat        = errors.New("unsupported file type")
	ErrExtractionFailure        = errors.New("text extraction failed")
	ErrMalformedJobRequirements = errors.New("malformed job requirements")
	ErrFileTooLarge             = errors.New("file exceeds maximum upload size")
	ErrPersistence              = errors.New("failed to persist record")
)

// UnsupportedFormatError carries the offending filename.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Filename)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

const (
	ErrorKindUnsupportedFormat     = "unsupported_format"
	ErrorKindFileTooLarge          = "file_too_large"
	ErrorKindPersistence           = "persistence_failure"
	ErrorKindProcessing            = "processing_failure"
	ErrorKindMalformedRequirements = "malformed_job_requirements"
)

// ErrorKind classifies an error for API and CLI output.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrorKindUnsupportedFormat
	case errors.Is(err, ErrFileTooLarge):
		return ErrorKindFileTooLarge
	case errors.Is(err, ErrPersistence):
		return ErrorKindPersistence
	case errors.Is(err, ErrMalformedJobRequirements):
		return ErrorKindMalformedRequirements
	default:
		return ErrorKindProcessing
	}
}
