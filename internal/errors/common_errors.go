package errors

import (
	"fmt"
	"strings"
)

// Context keys attached by the constructors below.
const (
	CtxStatusCode = "status_code"
	CtxMethod     = "method"
	CtxPath       = "path"
	CtxMissing    = "missing"
	CtxFile       = "file"
)

// NewHTTPTransportError creates an error for a failed request or a non-2xx
// response. statusCode is 0 when no response was received.
func NewHTTPTransportError(message string, statusCode int, cause error) *AppError {
	err := NewAppError(ErrTypeHTTPTransport, message, cause)
	if statusCode != 0 {
		err.Message = fmt.Sprintf("%s (HTTP %d)", message, statusCode)
		err.WithContext(CtxStatusCode, statusCode)
	}
	return err
}

// NewAPIStatusError creates an error for an API envelope whose status is not
// OK. The server supplied comment is kept verbatim.
func NewAPIStatusError(method, comment string) *AppError {
	return NewAppError(ErrTypeAPIStatus, fmt.Sprintf("API error on %s: %s", method, comment), nil).
		WithContext(CtxMethod, method)
}

// NewMissingDataError creates an error for an expected response field that is
// absent, typically because the profile is private or does not exist.
func NewMissingDataError(path string, cause error) *AppError {
	return NewAppError(ErrTypeMissingData, fmt.Sprintf("response is missing %s", path), cause).
		WithContext(CtxPath, path)
}

// NewLookupMismatchError creates an error for difficulty buckets that have no
// counterpart in the totals.
func NewLookupMismatchError(missing []string) *AppError {
	return NewAppError(ErrTypeLookupMismatch,
		fmt.Sprintf("no total submission bucket for difficulty %s", strings.Join(missing, ", ")), nil).
		WithContext(CtxMissing, missing)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewCacheError creates a metadata cache error
func NewCacheError(message string, cause error) *AppError {
	return NewAppError(ErrTypeCache, message, cause)
}
