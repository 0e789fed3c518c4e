package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.Repository using PostgreSQL. Identifiers are
// UUID strings.
//
// Expected schema:
//
//	CREATE TABLE resources (
//	    id UUID PRIMARY KEY,
//	    title TEXT NOT NULL,
//	    file_url TEXT NOT NULL,
//	    file_type TEXT NOT NULL,
//	    level TEXT NOT NULL,
//	    department TEXT NOT NULL,
//	    category TEXT NOT NULL,
//	    original_filename TEXT NOT NULL,
//	    storage_ref TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, catalog.ErrMalformedID
	}
	return parsed, nil
}

func (r *Repository) Insert(ctx context.Context, resource *catalog.Resource) (string, error) {
	id := uuid.New()

	query := `
		INSERT INTO resources (
			id, title, file_url, file_type, level, department, category,
			original_filename, storage_ref, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		id, resource.Title, resource.FileURL, string(resource.FileType),
		resource.Level, resource.Department, resource.Category,
		resource.OriginalFilename, resource.StorageRef, resource.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("%w: insert: %v", catalog.ErrRepository, err)
	}

	return id.String(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*catalog.Resource, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, file_url, file_type, level, department, category,
		       original_filename, storage_ref, created_at
		FROM resources WHERE id = $1`

	resource, err := scanResource(r.db.QueryRow(ctx, query, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: find: %v", catalog.ErrRepository, err)
	}
	return resource, nil
}

func (r *Repository) Update(ctx context.Context, id string, update catalog.ResourceUpdate) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	sets := []string{}
	args := []interface{}{parsed}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Level != nil {
		appendSet("level", *update.Level)
	}
	if update.Department != nil {
		appendSet("department", *update.Department)
	}
	if update.Category != nil {
		appendSet("category", *update.Category)
	}
	if update.FileType != nil {
		appendSet("file_type", string(*update.FileType))
	}
	if update.FileURL != nil {
		appendSet("file_url", *update.FileURL)
	}
	if update.StorageRef != nil {
		appendSet("storage_ref", *update.StorageRef)
	}
	if update.OriginalFilename != nil {
		appendSet("original_filename", *update.OriginalFilename)
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE resources SET %s WHERE id = $1", strings.Join(sets, ", "))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: update: %v", catalog.ErrRepository, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM resources WHERE id = $1", parsed)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", catalog.ErrRepository, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) Query(ctx context.Context, filter catalog.ResourceFilter, skip, limit int) ([]*catalog.Resource, error) {
	where := []string{}
	args := []interface{}{}

	appendWhere := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Department != "" {
		appendWhere("department = $%d", filter.Department)
	}
	if filter.Level != "" {
		appendWhere("level = $%d", filter.Level)
	}
	if filter.Category != "" {
		appendWhere("category = $%d", filter.Category)
	}
	if filter.FileType != "" {
		appendWhere("file_type = $%d", filter.FileType)
	}
	if filter.Title != "" {
		appendWhere("title ILIKE '%%' || $%d || '%%'", filter.Title)
	}

	query := `
		SELECT id, title, file_url, file_type, level, department, category,
		       original_filename, storage_ref, created_at
		FROM resources`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// id desc as tie-breaker keeps paging deterministic for equal timestamps.
	query += " ORDER BY created_at DESC, id DESC"
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", catalog.ErrRepository, err)
	}
	defer rows.Close()

	resources := []*catalog.Resource{}
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", catalog.ErrRepository, err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", catalog.ErrRepository, err)
	}
	return resources, nil
}

func scanResource(row pgx.Row) (*catalog.Resource, error) {
	var resource catalog.Resource
	var id uuid.UUID
	var fileType string

	err := row.Scan(&id, &resource.Title, &resource.FileURL, &fileType,
		&resource.Level, &resource.Department, &resource.Category,
		&resource.OriginalFilename, &resource.StorageRef, &resource.CreatedAt)
	if err != nil {
		return nil, err
	}

	resource.ID = id.String()
	resource.FileType = catalog.FileType(fileType)
	return &resource, nil
}
