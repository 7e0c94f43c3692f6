package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/framekeeper/internal/logging"
	sc "github.com/dmitrijs2005/framekeeper/internal/server/config"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Storage implements Storage on an S3-compatible bucket (MinIO in dev).
type S3Storage struct {
	client    s3API
	bucket    string
	publicURL string
	maxSize   int64
	observer  Observer
	logger    logging.Logger
	now       func() time.Time
}

// NewS3Storage builds the client from server config: static credentials,
// custom endpoint and path-style addressing.
func NewS3Storage(ctx context.Context, cfg *sc.Config, logger logging.Logger, observer Observer) (*S3Storage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = cfg.S3BaseEndpoint
	}

	return newS3Storage(client, cfg.S3Bucket, publicURL, cfg.MaxUploadSizeBytes(), logger, observer), nil
}

func newS3Storage(client s3API, bucket, publicURL string, maxSize int64, logger logging.Logger, observer Observer) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSize:   maxSize,
		observer:  observer,
		logger:    logger.With("module", "objectstore"),
		now:       time.Now,
	}
}

// EnsureBucket creates the bucket when HeadBucket reports it missing.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	s.logger.Info(ctx, "creating bucket", "bucket", s.bucket)
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}

// Upload reads body (bounded by the configured max size) while reporting
// progress, then writes it with a single PutObject.
func (s *S3Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, progress ProgressFunc) (addr string, err error) {
	start := s.now()
	var written int64
	defer func() {
		if s.observer != nil {
			s.observer.RecordUpload(s.now().Sub(start), uint64(written), err)
		}
	}()

	if key == "" || body == nil {
		return "", ErrEmptyObject
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, size, s.maxSize)
	}

	var limited io.Reader = body
	if s.maxSize > 0 {
		limited = io.LimitReader(body, s.maxSize+1)
	}

	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	pr := &progressReader{r: limited, total: size, fn: progress}
	if _, err := io.Copy(&buf, pr); err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}
	if s.maxSize > 0 && int64(buf.Len()) > s.maxSize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxSize)
	}
	if buf.Len() == 0 {
		return "", ErrEmptyObject
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	written = int64(buf.Len())

	if size <= 0 && progress != nil {
		progress(Progress{BytesTransferred: written, TotalBytes: written})
	}

	return s.Address(key), nil
}

// Delete removes the object an address points to.
func (s *S3Storage) Delete(ctx context.Context, address string) (err error) {
	start := s.now()
	defer func() {
		if s.observer != nil {
			s.observer.RecordDelete(s.now().Sub(start), err)
		}
	}()

	key, err := s.KeyFromAddress(address)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// Address returns the public address of key.
func (s *S3Storage) Address(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicURL + "/" + url.PathEscape(s.bucket) + "/" + strings.Join(segments, "/")
}

// KeyFromAddress is the inverse of Address.
func (s *S3Storage) KeyFromAddress(address string) (string, error) {
	prefix := s.publicURL + "/" + url.PathEscape(s.bucket) + "/"
	rest, ok := strings.CutPrefix(address, prefix)
	if !ok || rest == "" {
		return "", fmt.Errorf("%w: %q", ErrForeignAddress, address)
	}
	key, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignAddress, err)
	}
	return key, nil
}
