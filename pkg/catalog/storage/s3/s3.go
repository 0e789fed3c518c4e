package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)

	// PublicBaseURL overrides the base used when building blob locator URLs
	// (e.g. a CDN in front of the bucket). Defaults to the bucket endpoint.
	PublicBaseURL string

	// MinIO/S3-compatible service options
	CreateBucketIfNotExist bool // Create bucket if it doesn't exist
}

// Store is an S3-compatible implementation of the catalog.BlobStore
// interface. The storage ref is the object key; the locator URL is the
// public URL of the object.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New creates a new S3-compatible blob store
func New(config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	// Set up AWS config
	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Use default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	store := &Store{
		client:  client,
		bucket:  config.Bucket,
		baseURL: publicBaseURL(config),
	}

	if config.CreateBucketIfNotExist {
		if err := store.createBucketIfNotExists(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return store, nil
}

func publicBaseURL(config Config) string {
	if config.PublicBaseURL != "" {
		return strings.TrimSuffix(config.PublicBaseURL, "/")
	}
	if config.Endpoint != "" {
		return strings.TrimSuffix(config.Endpoint, "/") + "/" + config.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.Bucket, config.Region)
}

// createBucketIfNotExists creates the bucket if it doesn't exist
func (s *Store) createBucketIfNotExists(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) &&
		!strings.Contains(err.Error(), "NoSuchBucket") {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		if strings.Contains(err.Error(), "BucketAlreadyExists") ||
			strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, reader io.Reader, params catalog.PutParams) (*catalog.BlobLocator, error) {
	key := objectKey(params)

	uploader := manager.NewUploader(s.client)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   reader,
	}
	if params.ContentType != "" {
		input.ContentType = aws.String(params.ContentType)
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return nil, &catalog.StorageError{Ref: key, Op: "put", Err: fmt.Errorf("%w: %v", catalog.ErrUploadRejected, err)}
	}

	return &catalog.BlobLocator{
		URL:        s.baseURL + "/" + key,
		StorageRef: key,
	}, nil
}

func (s *Store) Fetch(ctx context.Context, locatorURL string) (io.ReadCloser, error) {
	key, err := s.keyFromURL(locatorURL)
	if err != nil {
		return nil, &catalog.StorageError{Ref: locatorURL, Op: "fetch", Err: fmt.Errorf("%w: %v", catalog.ErrFetchFailed, err)}
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &catalog.StorageError{Ref: key, Op: "fetch", Err: fmt.Errorf("%w: %v", catalog.ErrFetchFailed, err)}
	}
	return result.Body, nil
}

func (s *Store) Delete(ctx context.Context, storageRef string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageRef),
	})
	if err != nil {
		return &catalog.StorageError{Ref: storageRef, Op: "delete", Err: err}
	}
	return nil
}

// objectKey builds a unique object key under the folder hint, keeping the
// sanitized file name readable in the bucket.
func objectKey(params catalog.PutParams) string {
	unique := strings.ReplaceAll(uuid.New().String(), "-", "")
	if params.FileName != "" {
		unique = unique + "_" + params.FileName
	}
	if params.Folder == "" {
		return unique
	}
	return params.Folder + "/" + unique
}

// keyFromURL recovers the object key from a locator URL previously built by
// this store. Falls back to the URL path when the base does not match (the
// base URL may have changed between writes).
func (s *Store) keyFromURL(locatorURL string) (string, error) {
	if strings.HasPrefix(locatorURL, s.baseURL+"/") {
		return strings.TrimPrefix(locatorURL, s.baseURL+"/"), nil
	}

	parsed, err := url.Parse(locatorURL)
	if err != nil {
		return "", fmt.Errorf("unparseable locator url: %w", err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("locator url has no object key")
	}
	return key, nil
}
