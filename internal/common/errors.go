// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Input errors.
	ErrDataFormat = errors.New("malformed claim table")

	// Filter errors.
	ErrInvalidCriteria = errors.New("incomplete filter selection")

	// Rendering errors.
	ErrAssetNotFound      = errors.New("no image available")
	ErrExportUnavailable  = errors.New("chart export unavailable")
	ErrNothingToPublish   = errors.New("no claims to publish")
	ErrPublishUnavailable = errors.New("spreadsheet publishing unavailable")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DataFormatError describes why the claim table could not be loaded.
type DataFormatError struct {
	Source  string
	Column  string
	Value   string
	Reason  string
	Missing []string
	Line    int
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	b.WriteString(ErrDataFormat.Error())
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing columns %s", strings.Join(e.Missing, ", "))
		return b.String()
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %s", e.Column)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	return b.String()
}

func (e *DataFormatError) Unwrap() error {
	return ErrDataFormat
}

// InvalidCriteriaError names the filter the user still has to choose.
type InvalidCriteriaError struct {
	Field string
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("%s: select a %s to continue", ErrInvalidCriteria, e.Field)
}

func (e *InvalidCriteriaError) Unwrap() error {
	return ErrInvalidCriteria
}

// AssetNotFoundError reports a missing reference image.
type AssetNotFoundError struct {
	Err  error
	Key  string
	Path string
}

func (e *AssetNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s for %s: %v", ErrAssetNotFound, e.Key, e.Err)
	}
	return fmt.Sprintf("%s for %s", ErrAssetNotFound, e.Key)
}

func (e *AssetNotFoundError) Is(target error) bool {
	return target == ErrAssetNotFound
}

func (e *AssetNotFoundError) Unwrap() error {
	return e.Err
}

// ExportUnavailableError reports that the chart cannot be written as an image.
type ExportUnavailableError struct {
	Err    error
	Reason string
}

func (e *ExportUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrExportUnavailable, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrExportUnavailable, e.Reason)
}

func (e *ExportUnavailableError) Is(target error) bool {
	return target == ErrExportUnavailable
}

func (e *ExportUnavailableError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Notice returns the message shown in place of a recoverable error.
// Fatal and unknown errors return an empty string.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCriteria):
		var ice *InvalidCriteriaError
		if errors.As(err, &ice) {
			return fmt.Sprintf("Select a %s to continue.", ice.Field)
		}
		return "Complete the filter selection to continue."
	case errors.Is(err, ErrAssetNotFound):
		return "No image available for selected filters."
	case errors.Is(err, ErrExportUnavailable):
		return "Image export is not available in this environment."
	case errors.Is(err, ErrPublishUnavailable):
		return "Spreadsheet publishing is not configured."
	default:
		return ""
	}
}

// IsRecoverable reports whether an error should be rendered as a notice
// instead of aborting.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidCriteria) ||
		errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrExportUnavailable) ||
		errors.Is(err, ErrPublishUnavailable)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
