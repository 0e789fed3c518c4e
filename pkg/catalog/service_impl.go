package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Listing pagination bounds. The scoped (user-facing) listing is capped
// tighter than the admin listing.
const (
	scopedDefaultLimit = 10
	scopedMaxLimit     = 50
	adminDefaultLimit  = 20
	adminMaxLimit      = 100
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	blobFolder string
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob store backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithBlobFolder sets the provider folder hint uploads are grouped under
func WithBlobFolder(folder string) Option {
	return func(s *service) {
		s.blobFolder = folder
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobFolder: "resources",
		logger:     slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

func (s *service) UploadResource(ctx context.Context, req UploadResourceRequest) (*Resource, error) {
	if req.Title == "" || req.Level == "" || req.Department == "" ||
		req.Category == "" || req.FileType == "" || req.File == nil {
		return nil, &ResourceError{Op: "upload", Err: fmt.Errorf("%w: all fields are required", ErrValidation)}
	}

	fileType := NormalizeFileType(req.FileType)
	fileName := NormalizeFileName(req.FileName, fileType)

	locator, err := s.blobStore.Put(ctx, req.File, PutParams{
		Folder:      s.blobFolder,
		FileName:    fileName,
		ContentType: contentTypeFor(fileType),
	})
	if err != nil {
		return nil, &ResourceError{Op: "upload", Err: err}
	}

	resource := &Resource{
		Title:            req.Title,
		FileURL:          locator.URL,
		FileType:         fileType,
		Level:            req.Level,
		Department:       req.Department,
		Category:         req.Category,
		OriginalFilename: fileName,
		StorageRef:       locator.StorageRef,
		CreatedAt:        time.Now().UTC(),
	}

	id, err := s.repository.Insert(ctx, resource)
	if err != nil {
		// The blob is already stored; surface the ref so it can be reaped.
		s.logger.Warn("resource insert failed after blob upload",
			"storage_ref", locator.StorageRef,
			"error", err)
		return nil, &ResourceError{Op: "create", Err: err}
	}
	resource.ID = id

	return resource, nil
}

func (s *service) GetResource(ctx context.Context, id string) (*Resource, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *service) UpdateResource(ctx context.Context, req UpdateResourceRequest) (*Resource, error) {
	resource, err := s.repository.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	var update ResourceUpdate
	if req.Title != "" {
		update.Title = &req.Title
	}
	if req.Level != "" {
		update.Level = &req.Level
	}
	if req.Department != "" {
		update.Department = &req.Department
	}
	if req.Category != "" {
		update.Category = &req.Category
	}
	if req.FileType != "" {
		fileType := NormalizeFileType(req.FileType)
		update.FileType = &fileType
	}

	if req.File != nil {
		// Replace the payload: the old blob goes first, then the new one is
		// uploaded. A failed upload here cannot restore the deleted blob.
		if resource.StorageRef != "" {
			if err := s.blobStore.Delete(ctx, resource.StorageRef); err != nil {
				s.logger.Warn("failed to delete previous blob",
					"resource_id", resource.ID,
					"storage_ref", resource.StorageRef,
					"error", err)
			}
		}

		fileType := resource.FileType
		if update.FileType != nil {
			fileType = *update.FileType
		}
		fileName := NormalizeFileName(req.FileName, fileType)

		locator, err := s.blobStore.Put(ctx, req.File, PutParams{
			Folder:      s.blobFolder,
			FileName:    fileName,
			ContentType: contentTypeFor(fileType),
		})
		if err != nil {
			return nil, &ResourceError{ResourceID: req.ID, Op: "replace", Err: err}
		}

		update.FileURL = &locator.URL
		update.StorageRef = &locator.StorageRef
		update.OriginalFilename = &fileName
		update.FileType = &fileType
	}

	if err := s.repository.Update(ctx, req.ID, update); err != nil {
		return nil, &ResourceError{ResourceID: req.ID, Op: "update", Err: err}
	}

	return s.repository.GetByID(ctx, req.ID)
}

func (s *service) DeleteResource(ctx context.Context, id string) error {
	resource, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if resource.StorageRef != "" {
		if err := s.blobStore.Delete(ctx, resource.StorageRef); err != nil {
			s.logger.Warn("failed to delete blob",
				"resource_id", id,
				"storage_ref", resource.StorageRef,
				"error", err)
		}
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return &ResourceError{ResourceID: id, Op: "delete", Err: err}
	}

	return nil
}

func (s *service) ListResources(ctx context.Context, req ListResourcesRequest) ([]*Resource, error) {
	if req.Department == "" || req.Level == "" {
		return nil, &ResourceError{Op: "list", Err: fmt.Errorf("%w: department and level are required", ErrValidation)}
	}

	page := clampPage(req.Page)
	limit := clampLimit(req.Limit, scopedDefaultLimit, scopedMaxLimit)

	filter := ResourceFilter{
		Department: req.Department,
		Level:      req.Level,
		Category:   req.Category,
	}

	resources, err := s.repository.Query(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, &ResourceError{Op: "list", Err: err}
	}
	return resources, nil
}

func (s *service) ListAllResources(ctx context.Context, req ListAllResourcesRequest) ([]*Resource, error) {
	page := clampPage(req.Page)
	limit := clampLimit(req.Limit, adminDefaultLimit, adminMaxLimit)

	filter := ResourceFilter{
		Department: req.Department,
		Level:      req.Level,
		Category:   req.Category,
		FileType:   req.FileType,
		Title:      req.Title,
	}

	resources, err := s.repository.Query(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, &ResourceError{Op: "list_all", Err: err}
	}
	return resources, nil
}

func (s *service) DownloadResource(ctx context.Context, id string) (*DownloadResult, error) {
	resource, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := s.blobStore.Fetch(ctx, resource.FileURL)
	if err != nil {
		return nil, &ResourceError{ResourceID: id, Op: "download", Err: err}
	}

	name := resource.OriginalFilename
	if name == "" {
		name = resource.Title
	}

	return &DownloadResult{
		Body:        body,
		FileName:    NormalizeFileName(name, resource.FileType),
		ContentType: contentTypeFor(resource.FileType),
	}, nil
}

// contentTypeFor maps a file type to the content type downloads are served
// with. The mapping is intentionally naive ("application/<type>").
func contentTypeFor(fileType FileType) string {
	return "application/" + string(fileType)
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampLimit(limit, def, max int) int {
	if limit == 0 {
		return def
	}
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
