package catalog

import "context"

// Service is the resource lifecycle manager. It validates requests and
// coordinates the blob store and the repository so a catalog record and its
// remote blob are created, replaced, and deleted together.
type Service interface {
	// UploadResource validates the request, uploads the payload, and inserts
	// the catalog record. No record is written if the upload fails.
	UploadResource(ctx context.Context, req UploadResourceRequest) (*Resource, error)

	// GetResource returns a single resource by id.
	GetResource(ctx context.Context, id string) (*Resource, error)

	// UpdateResource patches metadata fields and, when a new payload is
	// supplied, replaces the blob (deleting the old one first).
	UpdateResource(ctx context.Context, req UpdateResourceRequest) (*Resource, error)

	// DeleteResource removes the blob and then the record.
	DeleteResource(ctx context.Context, id string) error

	// ListResources serves the scoped listing; department and level are
	// mandatory filters.
	ListResources(ctx context.Context, req ListResourcesRequest) ([]*Resource, error)

	// ListAllResources serves the unscoped admin listing.
	ListAllResources(ctx context.Context, req ListAllResourcesRequest) ([]*Resource, error)

	// DownloadResource fetches the current blob bytes for a resource.
	DownloadResource(ctx context.Context, id string) (*DownloadResult, error)
}
