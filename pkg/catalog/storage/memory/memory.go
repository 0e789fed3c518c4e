package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

const urlScheme = "memory://"

// Store is an in-memory implementation of the catalog.BlobStore interface.
// Locator URLs use a memory:// scheme with the storage ref as the path.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates a new in-memory blob store
func New() *Store {
	return &Store{
		blobs: make(map[string][]byte),
	}
}

func (s *Store) Put(ctx context.Context, reader io.Reader, params catalog.PutParams) (*catalog.BlobLocator, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &catalog.StorageError{Op: "put", Err: fmt.Errorf("%w: %v", catalog.ErrUploadRejected, err)}
	}

	ref := params.Folder + "/" + strings.ReplaceAll(uuid.New().String(), "-", "") + "_" + params.FileName

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = data

	return &catalog.BlobLocator{
		URL:        urlScheme + ref,
		StorageRef: ref,
	}, nil
}

func (s *Store) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	ref := strings.TrimPrefix(url, urlScheme)

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.blobs[ref]
	if !exists {
		return nil, &catalog.StorageError{Ref: ref, Op: "fetch", Err: fmt.Errorf("%w: blob not found", catalog.ErrFetchFailed)}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) Delete(ctx context.Context, storageRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blobs[storageRef]; !exists {
		return &catalog.StorageError{Ref: storageRef, Op: "delete", Err: fmt.Errorf("blob not found")}
	}
	delete(s.blobs, storageRef)
	return nil
}

// Has reports whether a blob exists for the given storage ref.
func (s *Store) Has(storageRef string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.blobs[storageRef]
	return exists
}

// Len returns the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
