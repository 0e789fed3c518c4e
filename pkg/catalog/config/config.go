package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursestack/resource-catalog/pkg/catalog"
	memoryrepo "github.com/coursestack/resource-catalog/pkg/catalog/repo/memory"
	mongorepo "github.com/coursestack/resource-catalog/pkg/catalog/repo/mongo"
	postgresrepo "github.com/coursestack/resource-catalog/pkg/catalog/repo/postgres"
	memorystorage "github.com/coursestack/resource-catalog/pkg/catalog/storage/memory"
	s3storage "github.com/coursestack/resource-catalog/pkg/catalog/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		DatabaseName: "resource_catalog",
		StorageType:  "memory",
		BlobFolder:   "resources",
	}
}

// ServerConfig represents server configuration for the resource catalog service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "mongo", "postgres"
	DatabaseName string // Mongo database name

	// Storage configuration
	StorageType string // "memory", "s3"
	S3          s3storage.Config
	BlobFolder  string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "mongo", "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when using %s", c.DatabaseType)
		}
	default:
		return errors.New("database_type must be 'memory', 'mongo' or 'postgres'")
	}

	switch c.StorageType {
	case "memory":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 storage")
		}
	default:
		return errors.New("storage_type must be 'memory' or 's3'")
	}

	return nil
}

// BuildService creates a catalog.Service from the server configuration.
// The returned close function releases database connections.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (catalog.Service, func(context.Context) error, error) {
	repo, closeRepo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		closeRepo(ctx)
		return nil, nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	svc, err := catalog.New(
		catalog.WithRepository(repo),
		catalog.WithBlobStore(store),
		catalog.WithBlobFolder(c.BlobFolder),
		catalog.WithLogger(logger),
	)
	if err != nil {
		closeRepo(ctx)
		return nil, nil, err
	}

	return svc, closeRepo, nil
}

func (c *ServerConfig) buildRepository(ctx context.Context) (catalog.Repository, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch c.DatabaseType {
	case "memory":
		return memoryrepo.New(), noop, nil
	case "mongo":
		repo, client, err := mongorepo.Connect(ctx, c.DatabaseURL, c.DatabaseName)
		if err != nil {
			return nil, nil, err
		}
		return repo, client.Disconnect, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		closer := func(context.Context) error {
			pool.Close()
			return nil
		}
		return postgresrepo.NewWithPool(pool), closer, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) buildBlobStore() (catalog.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		return s3storage.New(c.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}
