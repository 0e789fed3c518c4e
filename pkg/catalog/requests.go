package catalog

import "io"

// Request DTOs

// UploadResourceRequest contains parameters for creating a new resource.
// All metadata fields and the payload are required.
type UploadResourceRequest struct {
	Title      string
	Level      string
	Department string
	Category   string
	FileType   string
	FileName   string
	File       io.Reader
}

// UpdateResourceRequest contains parameters for updating a resource.
// Empty metadata fields are left untouched. If File is non-nil the current
// blob is replaced: the old blob is deleted, the new payload uploaded, and
// the locator fields rewritten.
type UpdateResourceRequest struct {
	ID         string
	Title      string
	Level      string
	Department string
	Category   string
	FileType   string
	FileName   string
	File       io.Reader
}

// ListResourcesRequest contains parameters for the scoped (user-facing)
// listing. Department and Level are mandatory; Category is optional.
type ListResourcesRequest struct {
	Department string
	Level      string
	Category   string
	Page       int
	Limit      int
}

// ListAllResourcesRequest contains parameters for the unscoped (admin)
// listing. All filters are optional; Title is a case-insensitive substring
// match.
type ListAllResourcesRequest struct {
	Department string
	Level      string
	Category   string
	FileType   string
	Title      string
	Page       int
	Limit      int
}

// DownloadResult is the outcome of a download operation: the payload stream
// plus the attachment name and content type to serve it with.
type DownloadResult struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
}
