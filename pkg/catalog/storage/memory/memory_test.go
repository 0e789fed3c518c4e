package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

func TestPutFetchDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	locator, err := store.Put(ctx, strings.NewReader("payload"), catalog.PutParams{
		Folder:      "resources",
		FileName:    "notes.pdf",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(locator.URL, "memory://resources/"))
	assert.True(t, strings.HasSuffix(locator.StorageRef, "_notes.pdf"))
	assert.True(t, store.Has(locator.StorageRef))

	body, err := store.Fetch(ctx, locator.URL)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, locator.StorageRef))
	assert.False(t, store.Has(locator.StorageRef))

	_, err = store.Fetch(ctx, locator.URL)
	assert.ErrorIs(t, err, catalog.ErrFetchFailed)
	assert.Error(t, store.Delete(ctx, locator.StorageRef))
}

func TestPutAssignsUniqueRefs(t *testing.T) {
	store := New()
	ctx := context.Background()

	first, err := store.Put(ctx, strings.NewReader("a"), catalog.PutParams{Folder: "resources", FileName: "same.pdf"})
	require.NoError(t, err)
	second, err := store.Put(ctx, strings.NewReader("b"), catalog.PutParams{Folder: "resources", FileName: "same.pdf"})
	require.NoError(t, err)

	assert.NotEqual(t, first.StorageRef, second.StorageRef)
	assert.Equal(t, 2, store.Len())
}
