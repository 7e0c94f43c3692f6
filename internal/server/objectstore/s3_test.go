package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/framekeeper/internal/logging"
	sc "github.com/dmitrijs2005/framekeeper/internal/server/config"
)

type fakeS3 struct {
	putIn     *s3.PutObjectInput
	putBody   []byte
	putErr    error
	deleteIn  *s3.DeleteObjectInput
	deleteErr error
	headErr   error
	created   bool
	createErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putIn = in
	if in.Body != nil {
		f.putBody, _ = io.ReadAll(in.Body)
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteIn = in
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(context.Context, *s3.CreateBucketInput, ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = true
	return &s3.CreateBucketOutput{}, nil
}

type recordingObserver struct {
	uploads []uint64
	upErrs  []error
	deletes []error
}

func (r *recordingObserver) RecordUpload(_ time.Duration, size uint64, err error) {
	r.uploads = append(r.uploads, size)
	r.upErrs = append(r.upErrs, err)
}

func (r *recordingObserver) RecordDelete(_ time.Duration, err error) {
	r.deletes = append(r.deletes, err)
}

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, "error")
}

func newTestStorage(f *fakeS3, obs Observer) *S3Storage {
	return newS3Storage(f, "frames", "http://127.0.0.1:9000/", 1024, testLogger(), obs)
}

func TestUpload_ReportsProgressAndReturnsAddress(t *testing.T) {
	f := &fakeS3{}
	obs := &recordingObserver{}
	s := newTestStorage(f, obs)

	body := bytes.Repeat([]byte("x"), 300)
	var events []Progress
	addr, err := s.Upload(context.Background(), "Images/1700000000000-lamp.png", bytes.NewReader(body), int64(len(body)), "image/png",
		func(p Progress) { events = append(events, p) })
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/frames/Images/1700000000000-lamp.png", addr)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, int64(300), last.BytesTransferred)
	assert.InDelta(t, 100.0, last.Percent(), 0.001)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].BytesTransferred, events[i-1].BytesTransferred)
	}

	require.NotNil(t, f.putIn)
	assert.Equal(t, "frames", aws.ToString(f.putIn.Bucket))
	assert.Equal(t, "Images/1700000000000-lamp.png", aws.ToString(f.putIn.Key))
	assert.Equal(t, "image/png", aws.ToString(f.putIn.ContentType))
	assert.Equal(t, int64(300), aws.ToInt64(f.putIn.ContentLength))
	assert.Equal(t, body, f.putBody)

	assert.Equal(t, []uint64{300}, obs.uploads)
	assert.Nil(t, obs.upErrs[0])
}

func TestUpload_UnknownSizeEmitsFinalEvent(t *testing.T) {
	f := &fakeS3{}
	s := newTestStorage(f, nil)

	var events []Progress
	_, err := s.Upload(context.Background(), "k", strings.NewReader("abc"), 0, "",
		func(p Progress) { events = append(events, p) })
	require.NoError(t, err)

	last := events[len(events)-1]
	assert.Equal(t, Progress{BytesTransferred: 3, TotalBytes: 3}, last)
	assert.Equal(t, "application/octet-stream", aws.ToString(f.putIn.ContentType))
}

func TestUpload_TooLarge(t *testing.T) {
	f := &fakeS3{}
	s := newTestStorage(f, nil)

	_, err := s.Upload(context.Background(), "k", strings.NewReader("x"), 4096, "", nil)
	assert.ErrorIs(t, err, ErrTooLarge)

	// size not announced, body longer than the limit
	_, err = s.Upload(context.Background(), "k", bytes.NewReader(make([]byte, 2048)), 0, "", nil)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, f.putIn)
}

func TestUpload_EmptyBody(t *testing.T) {
	s := newTestStorage(&fakeS3{}, nil)

	_, err := s.Upload(context.Background(), "k", strings.NewReader(""), 0, "", nil)
	assert.ErrorIs(t, err, ErrEmptyObject)

	_, err = s.Upload(context.Background(), "", strings.NewReader("a"), 1, "", nil)
	assert.ErrorIs(t, err, ErrEmptyObject)
}

func TestUpload_PutError(t *testing.T) {
	f := &fakeS3{putErr: errors.New("connection reset")}
	obs := &recordingObserver{}
	s := newTestStorage(f, obs)

	addr, err := s.Upload(context.Background(), "k", strings.NewReader("abc"), 3, "", nil)
	require.Error(t, err)
	assert.Empty(t, addr)
	assert.Contains(t, err.Error(), "connection reset")
	require.Len(t, obs.upErrs, 1)
	assert.Error(t, obs.upErrs[0])
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestUpload_BodyReadError(t *testing.T) {
	f := &fakeS3{}
	s := newTestStorage(f, nil)

	_, err := s.Upload(context.Background(), "k", failingReader{}, 10, "", nil)
	require.Error(t, err)
	assert.Nil(t, f.putIn)
}

func TestDelete_MapsAddressToKey(t *testing.T) {
	f := &fakeS3{}
	obs := &recordingObserver{}
	s := newTestStorage(f, obs)

	addr := s.Address("Images/1700000000000-desk lamp.png")
	assert.Equal(t, "http://127.0.0.1:9000/frames/Images/1700000000000-desk%20lamp.png", addr)

	require.NoError(t, s.Delete(context.Background(), addr))
	assert.Equal(t, "Images/1700000000000-desk lamp.png", aws.ToString(f.deleteIn.Key))
	assert.Equal(t, "frames", aws.ToString(f.deleteIn.Bucket))
	assert.Equal(t, []error{nil}, obs.deletes)
}

func TestDelete_ForeignAddress(t *testing.T) {
	f := &fakeS3{}
	s := newTestStorage(f, nil)

	for _, addr := range []string{
		"",
		"http://example.com/frames/Images/a.png",
		"http://127.0.0.1:9000/other/Images/a.png",
		"http://127.0.0.1:9000/frames/",
	} {
		err := s.Delete(context.Background(), addr)
		assert.ErrorIs(t, err, ErrForeignAddress, addr)
	}
	assert.Nil(t, f.deleteIn)
}

func TestDelete_BackendError(t *testing.T) {
	f := &fakeS3{deleteErr: errors.New("boom")}
	s := newTestStorage(f, nil)

	err := s.Delete(context.Background(), s.Address("Images/a.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		f := &fakeS3{}
		require.NoError(t, newTestStorage(f, nil).EnsureBucket(context.Background()))
		assert.False(t, f.created)
	})

	t.Run("missing is created", func(t *testing.T) {
		f := &fakeS3{headErr: &smithy.GenericAPIError{Code: "NotFound"}}
		require.NoError(t, newTestStorage(f, nil).EnsureBucket(context.Background()))
		assert.True(t, f.created)
	})

	t.Run("head fails otherwise", func(t *testing.T) {
		f := &fakeS3{headErr: &smithy.GenericAPIError{Code: "AccessDenied"}}
		require.Error(t, newTestStorage(f, nil).EnsureBucket(context.Background()))
		assert.False(t, f.created)
	})

	t.Run("create fails", func(t *testing.T) {
		f := &fakeS3{headErr: &smithy.GenericAPIError{Code: "NoSuchBucket"}, createErr: errors.New("denied")}
		require.Error(t, newTestStorage(f, nil).EnsureBucket(context.Background()))
	})
}

func TestNewS3Storage_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-north-1", lo.Region)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &fakeS3{}
	}

	cfg := &sc.Config{
		S3Region:       "eu-north-1",
		S3RootUser:     "admin",
		S3RootPassword: "secret",
		S3BaseEndpoint: "http://minio:9000",
		S3Bucket:       "frames",
	}
	s, err := NewS3Storage(context.Background(), cfg, testLogger(), nil)
	require.NoError(t, err)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://minio:9000/frames/a.png", s.Address("a.png"))

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = NewS3Storage(context.Background(), cfg, testLogger(), nil)
	assert.ErrorContains(t, err, "load-fail")
}
