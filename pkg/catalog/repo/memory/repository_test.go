package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

func newResource(title string, createdAt time.Time) *catalog.Resource {
	return &catalog.Resource{
		Title:            title,
		FileURL:          "memory://resources/" + title,
		FileType:         catalog.FileTypePDF,
		Level:            "100",
		Department:       "CS",
		Category:         "notes",
		OriginalFilename: title + ".pdf",
		StorageRef:       "resources/" + title,
		CreatedAt:        createdAt,
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := New()
	ctx := context.Background()

	id, err := repo.Insert(ctx, newResource("alpha", time.Now().UTC()))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "alpha", got.Title)
}

func TestGetByIDErrors(t *testing.T) {
	repo := New()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, catalog.ErrMalformedID)

	_, err = repo.GetByID(ctx, "23a1b9a2-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, catalog.ErrResourceNotFound)
}

func TestUpdatePartial(t *testing.T) {
	repo := New()
	ctx := context.Background()

	id, err := repo.Insert(ctx, newResource("before", time.Now().UTC()))
	require.NoError(t, err)

	title := "after"
	fileType := catalog.FileTypeMP3
	err = repo.Update(ctx, id, catalog.ResourceUpdate{
		Title:    &title,
		FileType: &fileType,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, catalog.FileTypeMP3, got.FileType)
	assert.Equal(t, "CS", got.Department, "fields not in the update are untouched")
	assert.Equal(t, "before.pdf", got.OriginalFilename)
}

func TestUpdateErrors(t *testing.T) {
	repo := New()
	ctx := context.Background()

	title := "x"
	assert.ErrorIs(t, repo.Update(ctx, "bogus", catalog.ResourceUpdate{Title: &title}), catalog.ErrMalformedID)
	assert.ErrorIs(t, repo.Update(ctx, "23a1b9a2-0000-4000-8000-000000000000", catalog.ResourceUpdate{Title: &title}), catalog.ErrResourceNotFound)
}

func TestDelete(t *testing.T) {
	repo := New()
	ctx := context.Background()

	id, err := repo.Insert(ctx, newResource("doomed", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, catalog.ErrResourceNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), catalog.ErrResourceNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "bogus"), catalog.ErrMalformedID)
}

func TestQueryFilters(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	insert := func(mutate func(*catalog.Resource)) {
		r := newResource("base", now)
		mutate(r)
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}

	insert(func(r *catalog.Resource) { r.Title = "Calculus I" })
	insert(func(r *catalog.Resource) { r.Title = "Mechanics"; r.Department = "PHY" })
	insert(func(r *catalog.Resource) { r.Title = "Calc Review"; r.Level = "200" })
	insert(func(r *catalog.Resource) { r.Title = "Audio Lecture"; r.FileType = catalog.FileTypeMP3 })

	t.Run("exact match conjunction", func(t *testing.T) {
		got, err := repo.Query(ctx, catalog.ResourceFilter{Department: "CS", Level: "100"}, 0, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("file type", func(t *testing.T) {
		got, err := repo.Query(ctx, catalog.ResourceFilter{FileType: "mp3"}, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Audio Lecture", got[0].Title)
	})

	t.Run("title substring is case-insensitive", func(t *testing.T) {
		got, err := repo.Query(ctx, catalog.ResourceFilter{Title: "CALC"}, 0, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty filter matches everything", func(t *testing.T) {
		got, err := repo.Query(ctx, catalog.ResourceFilter{}, 0, 10)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})
}

func TestQueryOrderAndPagination(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		_, err := repo.Insert(ctx, newResource(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	t.Run("descending by created_at", func(t *testing.T) {
		got, err := repo.Query(ctx, catalog.ResourceFilter{}, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 7)
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt))
		}
	})

	t.Run("skip and limit", func(t *testing.T) {
		got, err := repo.Query(ctx, catalog.ResourceFilter{}, 2, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "r4", got[0].Title)
		assert.Equal(t, "r2", got[2].Title)
	})

	t.Run("skip past the end", func(t *testing.T) {
		got, err := repo.Query(ctx, catalog.ResourceFilter{}, 100, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("equal timestamps page deterministically", func(t *testing.T) {
		repo := New()
		ts := base.Add(time.Hour)
		for i := 0; i < 4; i++ {
			_, err := repo.Insert(ctx, newResource(fmt.Sprintf("tie%d", i), ts))
			require.NoError(t, err)
		}

		first, err := repo.Query(ctx, catalog.ResourceFilter{}, 0, 2)
		require.NoError(t, err)
		second, err := repo.Query(ctx, catalog.ResourceFilter{}, 2, 2)
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, r := range append(first, second...) {
			assert.False(t, seen[r.ID], "no record appears on two pages")
			seen[r.ID] = true
		}
		assert.Len(t, seen, 4)
	})
}

func TestQueryReturnsCopies(t *testing.T) {
	repo := New()
	ctx := context.Background()

	id, err := repo.Insert(ctx, newResource("immutable", time.Now().UTC()))
	require.NoError(t, err)

	got, err := repo.Query(ctx, catalog.ResourceFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	got[0].Title = "mutated"

	fresh, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "immutable", fresh.Title)
}
