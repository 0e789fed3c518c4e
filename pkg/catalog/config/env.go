package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
// Server:
//
//	PORT - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//
// Database:
//
//	DATABASE_URL - Connection string:
//	               - empty or "memory" - in-memory repository
//	               - "mongodb://..." / "mongodb+srv://..." - MongoDB
//	               - "postgresql://..." / "postgres://..." - PostgreSQL
//	DATABASE_NAME - Mongo database name (default: "resource_catalog")
//
// Storage:
//
//	STORAGE_URL - Storage connection string (one of):
//	              - "memory://" - in-memory blob store (default)
//	              - "s3://bucket?region=us-east-1&endpoint=...&path_style=true&public_url=..." - S3
//	S3_ACCESS_KEY_ID / S3_SECRET_ACCESS_KEY - S3 credentials (optional, falls
//	              back to the default AWS credential chain)
//	BLOB_FOLDER - folder hint uploads are grouped under (default: "resources")
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "DATABASE_NAME"); ok && v != "" {
			c.DatabaseName = v
		}
		if v, ok := lookupEnv(prefix, "BLOB_FOLDER"); ok && v != "" {
			c.BlobFolder = v
		}

		if err := applyDatabaseEnv(prefix, c); err != nil {
			return err
		}
		return applyStorageEnv(prefix, c)
	}
}

func applyDatabaseEnv(prefix string, c *ServerConfig) error {
	dbURL, hasURL := lookupEnv(prefix, "DATABASE_URL")

	if !hasURL || dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}

	switch {
	case strings.HasPrefix(dbURL, "mongodb://"), strings.HasPrefix(dbURL, "mongodb+srv://"):
		c.DatabaseType = "mongo"
		c.DatabaseURL = dbURL
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory', 'mongodb://...' or 'postgresql://...')", dbURL)
	}
	return nil
}

func applyStorageEnv(prefix string, c *ServerConfig) error {
	storageURL, hasURL := lookupEnv(prefix, "STORAGE_URL")

	if !hasURL || storageURL == "" || storageURL == "memory" || storageURL == "memory://" {
		c.StorageType = "memory"
		return nil
	}

	if !strings.HasPrefix(storageURL, "s3://") {
		return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://' or 's3://bucket?...')", storageURL)
	}

	parsed, err := url.Parse(storageURL)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("STORAGE_URL is missing the bucket name")
	}

	q := parsed.Query()
	c.StorageType = "s3"
	c.S3.Bucket = parsed.Host
	c.S3.Region = q.Get("region")
	c.S3.Endpoint = q.Get("endpoint")
	c.S3.PublicBaseURL = q.Get("public_url")
	c.S3.UsePathStyle = boolParam(q.Get("path_style"))
	c.S3.CreateBucketIfNotExist = boolParam(q.Get("create_bucket"))

	if v, ok := lookupEnv(prefix, "S3_ACCESS_KEY_ID"); ok {
		c.S3.AccessKeyID = v
	}
	if v, ok := lookupEnv(prefix, "S3_SECRET_ACCESS_KEY"); ok {
		c.S3.SecretAccessKey = v
	}
	return nil
}

func lookupEnv(prefix, key string) (string, bool) {
	if prefix != "" {
		return os.LookupEnv(prefix + key)
	}
	return os.LookupEnv(key)
}

func boolParam(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
