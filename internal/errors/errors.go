// Package errors provides standardized error types for sitectl.
//
// The engine's propagation policy distinguishes conditions that are
// absorbed (a malformed server block, a missing fragment directory)
// from conditions that would leave disk state inconsistent (a failed
// backup, a failed fragment write mid-batch). Only the latter surface
// as errors from this package; everything else is logged and degraded.
//
// SiteError carries an error code for programmatic handling, the site
// name involved when there is one, and the wrapped underlying error.
// Use errors.Is with the exported sentinels for category checks.
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes errors for programmatic handling.
type Code string

// Error codes for different error categories.
const (
	CodeNotFound      Code = "NOT_FOUND"      // site or fragment not found
	CodeAlreadyExists Code = "ALREADY_EXISTS" // duplicate site name
	CodeValidation    Code = "VALIDATION"     // input validation failed
	CodeParse         Code = "PARSE"          // configuration text unusable
	CodeBackup        Code = "BACKUP"         // backup failed before a destructive write
	CodeIO            Code = "IO"             // file system operation failed
	CodeNginx         Code = "NGINX"          // external nginx invocation failed
	CodeConfig        Code = "CONFIG"         // settings error
	CodeInternal      Code = "INTERNAL"       // unexpected condition
)

// SiteError is a structured error with context about the operation.
type SiteError struct {
	Code    Code   // error category
	Message string // human-readable message
	Site    string // site name, if applicable
	Err     error  // underlying error, if any
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	switch {
	case e.Site != "" && e.Err != nil:
		return fmt.Sprintf("site %s: %s: %v", e.Site, e.Message, e.Err)
	case e.Site != "":
		return fmt.Sprintf("site %s: %s", e.Site, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

// Unwrap returns the underlying error for error chain traversal.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error, compared by code.
func (e *SiteError) Is(target error) bool {
	t, ok := target.(*SiteError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common scenarios. Use with errors.Is.
var (
	// ErrSiteNotFound indicates the requested site does not exist.
	ErrSiteNotFound = &SiteError{Code: CodeNotFound, Message: "site not found"}

	// ErrSiteExists indicates a site with the same name already exists.
	ErrSiteExists = &SiteError{Code: CodeAlreadyExists, Message: "site already exists"}

	// ErrBackupFailed indicates a backup could not be taken before a
	// destructive write; the write was aborted.
	ErrBackupFailed = &SiteError{Code: CodeBackup, Message: "backup failed"}

	// ErrNginxFailed indicates the external nginx invocation failed.
	ErrNginxFailed = &SiteError{Code: CodeNginx, Message: "nginx command failed"}
)

// NotFound creates an error for a site that doesn't exist.
func NotFound(name string) error {
	return &SiteError{Code: CodeNotFound, Message: "site not found", Site: name}
}

// AlreadyExists creates an error for a duplicate site name.
func AlreadyExists(name string) error {
	return &SiteError{Code: CodeAlreadyExists, Message: "site already exists", Site: name}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &SiteError{Code: CodeValidation, Message: msg}
}

// Wrap creates an error with the specified code, message, and
// underlying error.
func Wrap(code Code, msg string, err error) error {
	return &SiteError{Code: code, Message: msg, Err: err}
}

// WrapSite creates an error with site context and underlying error.
func WrapSite(code Code, name, msg string, err error) error {
	return &SiteError{Code: code, Message: msg, Site: name, Err: err}
}

// Is reports whether any error in err's chain matches target.
// Re-exported from the standard library for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// Re-exported from the standard library for convenience.
var As = errors.As
