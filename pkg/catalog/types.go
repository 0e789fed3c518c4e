package catalog

import "time"

// FileType is the domain type for the small set of supported file kinds.
type FileType string

// Supported file types (typed). Values are stored lowercase.
const (
	FileTypePDF FileType = "pdf"
	FileTypeDoc FileType = "doc"
	FileTypeMP3 FileType = "mp3"
	FileTypeMP4 FileType = "mp4"
	FileTypeImg FileType = "img"
)

// Resource represents a catalog record pointing at one externally stored
// file plus its classification metadata.
//
// ID is assigned by the repository at creation and immutable afterwards.
// StorageRef is the blob store's opaque identifier for the current payload;
// it is used only to delete or replace the blob and is never the public
// identity of the resource. FileURL and StorageRef change together, and only
// through an explicit replace.
type Resource struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	FileURL          string    `json:"file_url"`
	FileType         FileType  `json:"file_type"`
	Level            string    `json:"level"`
	Department       string    `json:"department"`
	Category         string    `json:"category"`
	OriginalFilename string    `json:"original_filename"`
	StorageRef       string    `json:"storage_ref,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ResourceFilter is an exact-match conjunction over the classification
// fields plus an optional case-insensitive substring match on the title.
// Empty fields are not applied.
type ResourceFilter struct {
	Department string
	Level      string
	Category   string
	FileType   string
	Title      string
}

// ResourceUpdate carries a partial update; nil fields are left untouched.
type ResourceUpdate struct {
	Title            *string
	Level            *string
	Department       *string
	Category         *string
	FileType         *FileType
	FileURL          *string
	StorageRef       *string
	OriginalFilename *string
}
