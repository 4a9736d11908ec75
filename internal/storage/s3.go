// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3Config holds the connection settings for an S3-compatible gateway.
type S3Config struct {
	Endpoint  string // e.g. https://<project>.supabase.co/storage/v1/s3
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // public object prefix used to build image URLs

	// HTTPClient overrides the SDK transport (tests).
	HTTPClient *http.Client
}

// S3Client implements Store on a single bucket of an S3-compatible service.
type S3Client struct {
	s3     *s3.Client
	bucket string
	urls   URLs
}

// NewS3 creates an S3 storage client with static credentials and path-style
// addressing. Returns (nil, nil) if endpoint or credentials are empty,
// allowing the caller to fall back to another driver.
func NewS3(cfg S3Config) (*S3Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, nil
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.HTTPClient != nil {
		opts.HTTPClient = cfg.HTTPClient
	}

	return &S3Client{
		s3:     s3.New(opts),
		bucket: cfg.Bucket,
		urls:   NewURLs(cfg.PublicURL, endpoint+"/"+cfg.Bucket),
	}, nil
}

// Upload stores an object. Conditional headers are only sent when set.
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) (Object, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.IfMatch != "" {
		input.IfMatch = aws.String(quoteETag(opts.IfMatch))
	}
	if opts.IfNoneMatch != "" {
		input.IfNoneMatch = aws.String(opts.IfNoneMatch)
	}

	out, err := c.s3.PutObject(ctx, input)
	if err != nil {
		return Object{}, fmt.Errorf("s3 upload %s: %w", key, mapError(err))
	}
	etag := trimETag(aws.ToString(out.ETag))
	return Object{Key: key, Name: key, ID: etag, ETag: etag, ContentType: opts.ContentType, Size: size}, nil
}

// Download retrieves an object and returns its contents as a byte slice.
func (c *S3Client) Download(ctx context.Context, key string) ([]byte, Object, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, Object{}, fmt.Errorf("s3 download %s: %w", key, mapError(err))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, Object{}, fmt.Errorf("s3 read body %s: %w", key, err)
	}
	etag := trimETag(aws.ToString(out.ETag))
	return data, Object{
		Key:          key,
		Name:         key,
		ID:           etag,
		ETag:         etag,
		ContentType:  aws.ToString(out.ContentType),
		Size:         int64(len(data)),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// Stat returns object metadata via HeadObject.
func (c *S3Client) Stat(ctx context.Context, key string) (Object, error) {
	out, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Object{}, fmt.Errorf("s3 head %s: %w", key, mapError(err))
	}
	etag := trimETag(aws.ToString(out.ETag))
	return Object{
		Key:          key,
		Name:         key,
		ID:           etag,
		ETag:         etag,
		ContentType:  aws.ToString(out.ContentType),
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// List returns one page of direct children under prefix. S3 already sorts
// keys in ascending binary order; folders come back as common prefixes.
func (c *S3Client) List(ctx context.Context, prefix string, limit int) ([]Object, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	out, err := c.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
		MaxKeys:   aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 list %s: %w", prefix, mapError(err))
	}

	objects := make([]Object, 0, len(out.Contents)+len(out.CommonPrefixes))
	for _, cp := range out.CommonPrefixes {
		p := aws.ToString(cp.Prefix)
		objects = append(objects, Object{
			Key:   p,
			Name:  strings.TrimSuffix(strings.TrimPrefix(p, prefix), "/"),
			IsDir: true,
		})
	}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		etag := trimETag(aws.ToString(obj.ETag))
		objects = append(objects, Object{
			Key:          key,
			Name:         strings.TrimPrefix(key, prefix),
			ID:           etag,
			ETag:         etag,
			Size:         aws.ToInt64(obj.Size),
			IsDir:        key == prefix || strings.HasSuffix(key, "/"),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	sortByName(objects)
	if len(objects) > limit {
		objects = objects[:limit]
	}
	return objects, nil
}

// Delete removes an object from the bucket.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, mapError(err))
	}
	return nil
}

// PublicURL returns the public URL for a key in the bucket.
func (c *S3Client) PublicURL(key string) string {
	return c.urls.PublicURL(key)
}

// KeyFromURL extracts the object key from a public URL of this bucket.
func (c *S3Client) KeyFromURL(rawURL string) (string, bool) {
	return c.urls.KeyFromURL(rawURL)
}

// mapError tags SDK errors with the package sentinels while keeping the
// original error in the chain.
func mapError(err error) error {
	var noSuchKey *s3types.NoSuchKey
	var notFound *s3types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case "PreconditionFailed", "ConditionalRequestConflict":
			return fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case http.StatusPreconditionFailed, http.StatusConflict:
			return fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
		}
	}
	return err
}

func trimETag(etag string) string {
	return strings.Trim(etag, "\"")
}

func quoteETag(etag string) string {
	if etag == "*" || strings.HasPrefix(etag, "\"") {
		return etag
	}
	return "\"" + etag + "\""
}
