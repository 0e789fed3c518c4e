package catalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrResourceNotFound indicates a resource was not found
	ErrResourceNotFound = errors.New("resource not found")

	// ErrValidation indicates missing or invalid client input
	ErrValidation = errors.New("validation failed")

	// ErrMalformedID indicates an identifier not parseable by the repository
	ErrMalformedID = errors.New("malformed resource id")

	// ErrUploadRejected indicates the blob store refused or failed an upload
	ErrUploadRejected = errors.New("upload rejected")

	// ErrStoreUnavailable indicates the blob store could not be reached
	ErrStoreUnavailable = errors.New("blob store unavailable")

	// ErrFetchFailed indicates blob bytes could not be retrieved
	ErrFetchFailed = errors.New("fetch failed")

	// ErrRepository indicates a database failure
	ErrRepository = errors.New("repository failure")
)

// ResourceError represents an error related to resource operations
type ResourceError struct {
	ResourceID string
	Op         string
	Err        error
}

func (e *ResourceError) Error() string {
	if e.ResourceID == "" {
		return fmt.Sprintf("resource operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("resource operation %s failed for resource %s: %v", e.Op, e.ResourceID, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob store operations
type StorageError struct {
	Ref string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for ref %s: %v", e.Op, e.Ref, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
