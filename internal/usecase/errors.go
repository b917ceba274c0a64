package usecase

import (
	"errors"
	"fmt"

	"smartdash/internal/resumeparser"
)

var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNoSkills            = errors.New("candidate has no skills listed")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidParser       = errors.New("invalid parser")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrParseFailed         = errors.New("resume parsing failed")
	ErrHistoryDisabled     = errors.New("application history not configured")
	ErrInternal            = errors.New("internal error")
)

// ParseError carries the backend that failed so the caller can report it.
type ParseError struct {
	Kind resumeparser.Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Error parsing resume with %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrParseFailed }

func (e *ParseError) Unwrap() error { return e.Err }

type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("Error processing resume upload: %v", e.Err)
}

func (e *UploadError) Is(target error) bool { return target == ErrInternal }

func (e *UploadError) Unwrap() error { return e.Err }
