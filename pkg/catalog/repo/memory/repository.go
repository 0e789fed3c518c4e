package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

// Repository implements catalog.Repository using in-memory storage.
// Identifiers are UUID strings.
type Repository struct {
	mu        sync.RWMutex
	resources map[string]*catalog.Resource
	seq       map[string]int // id -> insertion order, tie-breaker for equal created_at
	nextSeq   int
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		resources: make(map[string]*catalog.Resource),
		seq:       make(map[string]int),
	}
}

func (r *Repository) Insert(ctx context.Context, resource *catalog.Resource) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()

	// Store a copy to avoid external modifications
	resourceCopy := *resource
	resourceCopy.ID = id
	r.resources[id] = &resourceCopy
	r.seq[id] = r.nextSeq
	r.nextSeq++

	return id, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*catalog.Resource, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, catalog.ErrMalformedID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, exists := r.resources[id]
	if !exists {
		return nil, catalog.ErrResourceNotFound
	}

	resourceCopy := *resource
	return &resourceCopy, nil
}

func (r *Repository) Update(ctx context.Context, id string, update catalog.ResourceUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.ErrMalformedID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	resource, exists := r.resources[id]
	if !exists {
		return catalog.ErrResourceNotFound
	}

	if update.Title != nil {
		resource.Title = *update.Title
	}
	if update.Level != nil {
		resource.Level = *update.Level
	}
	if update.Department != nil {
		resource.Department = *update.Department
	}
	if update.Category != nil {
		resource.Category = *update.Category
	}
	if update.FileType != nil {
		resource.FileType = *update.FileType
	}
	if update.FileURL != nil {
		resource.FileURL = *update.FileURL
	}
	if update.StorageRef != nil {
		resource.StorageRef = *update.StorageRef
	}
	if update.OriginalFilename != nil {
		resource.OriginalFilename = *update.OriginalFilename
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.ErrMalformedID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[id]; !exists {
		return catalog.ErrResourceNotFound
	}

	delete(r.resources, id)
	delete(r.seq, id)
	return nil
}

func (r *Repository) Query(ctx context.Context, filter catalog.ResourceFilter, skip, limit int) ([]*catalog.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*catalog.Resource
	for _, resource := range r.resources {
		if matches(resource, filter) {
			matched = append(matched, resource)
		}
	}

	// Sort by created_at descending; insertion order breaks ties so paging
	// stays deterministic.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return r.seq[matched[i].ID] > r.seq[matched[j].ID]
	})

	if skip >= len(matched) {
		return []*catalog.Resource{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	result := make([]*catalog.Resource, 0, len(matched))
	for _, resource := range matched {
		resourceCopy := *resource
		result = append(result, &resourceCopy)
	}
	return result, nil
}

func matches(resource *catalog.Resource, filter catalog.ResourceFilter) bool {
	if filter.Department != "" && resource.Department != filter.Department {
		return false
	}
	if filter.Level != "" && resource.Level != filter.Level {
		return false
	}
	if filter.Category != "" && resource.Category != filter.Category {
		return false
	}
	if filter.FileType != "" && string(resource.FileType) != filter.FileType {
		return false
	}
	if filter.Title != "" && !strings.Contains(strings.ToLower(resource.Title), strings.ToLower(filter.Title)) {
		return false
	}
	return true
}
