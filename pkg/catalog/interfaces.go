package catalog

import (
	"context"
	"io"
)

// BlobStore defines the interface for the remote store holding file bytes.
type BlobStore interface {
	// Put uploads opaque bytes and returns the blob's locator.
	Put(ctx context.Context, reader io.Reader, params PutParams) (*BlobLocator, error)

	// Fetch retrieves the payload reachable at the given locator URL.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)

	// Delete removes the blob identified by the given storage ref.
	Delete(ctx context.Context, storageRef string) error
}

// PutParams contains parameters for uploading a blob.
type PutParams struct {
	// Folder is a provider folder hint the blob is grouped under.
	Folder string

	// FileName is the sanitized client file name, kept in the object key.
	FileName string

	// ContentType is the mime type recorded with the blob.
	ContentType string
}

// BlobLocator is the stable address of an uploaded blob.
type BlobLocator struct {
	// URL is the absolute URL the payload is reachable at.
	URL string

	// StorageRef is the provider-assigned opaque identifier, used only to
	// request deletion or replacement.
	StorageRef string
}

// Repository defines the interface for resource record persistence.
//
// Implementations assign the record ID on Insert and report ErrMalformedID
// for identifiers that do not fit their id format.
type Repository interface {
	// Insert persists a new record and returns its assigned id.
	Insert(ctx context.Context, resource *Resource) (string, error)

	// GetByID returns the record or ErrResourceNotFound.
	GetByID(ctx context.Context, id string) (*Resource, error)

	// Update applies the non-nil fields of the partial update.
	Update(ctx context.Context, id string, update ResourceUpdate) error

	// Delete removes the record or returns ErrResourceNotFound.
	Delete(ctx context.Context, id string) error

	// Query returns records matching the filter, sorted by created_at
	// descending, after applying skip and limit.
	Query(ctx context.Context, filter ResourceFilter, skip, limit int) ([]*Resource, error)
}
