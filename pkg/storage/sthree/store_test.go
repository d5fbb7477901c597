package sthree

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/storage"
	"github.com/oneconcern/deduplab/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "deduplab-test"

// memS3 mimics the subset of the S3 API used by the store, with 2-keys pages
type memS3 struct {
	s3iface.S3API
	mx      sync.Mutex
	objects map[string][]byte
}

func newMemS3() *memS3 {
	return &memS3{objects: make(map[string][]byte)}
}

func notFound(code string) error {
	return awserr.NewRequestFailure(awserr.New(code, "not found", nil), 404, "test-request")
}

func (m *memS3) HeadObjectWithContext(_ aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	if aws.StringValue(in.Bucket) != testBucket {
		return nil, notFound(s3.ErrCodeNoSuchBucket)
	}
	b, ok := m.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, notFound("NotFound")
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(b)))}, nil
}

func (m *memS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	b, ok := m.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, notFound(s3.ErrCodeNoSuchKey)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (m *memS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mx.Lock()
	defer m.mx.Unlock()
	m.objects[aws.StringValue(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (m *memS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	delete(m.objects, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *memS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	m.mx.Lock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, aws.StringValue(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	m.mx.Unlock()
	sort.Strings(keys)

	const pageSize = 2
	for start := 0; start < len(keys) || start == 0; start += pageSize {
		end := start + pageSize
		if end > len(keys) {
			end = len(keys)
		}
		page := &s3.ListObjectsV2Output{}
		for _, k := range keys[start:end] {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
		}
		last := end >= len(keys)
		if !fn(page, last) || last {
			break
		}
	}
	return nil
}

func setupStore(t testing.TB, prefix string) (storage.Store, *memS3) {
	t.Helper()
	api := newMemS3()
	api.objects[prefix+"sixteentons"] = []byte("this is the text")
	api.objects[prefix+"heavy/seventeentons"] = []byte("this is the text for another thing")
	api.objects["elsewhere/ignored"] = []byte("not mine")

	opts := []Option{Client(api)}
	if prefix != "" {
		opts = append(opts, Prefix(prefix))
	}
	store, err := New(Bucket(testBucket), opts...)
	require.NoError(t, err)
	return store, api
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Client(newMemS3()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidResource))
}

func TestString(t *testing.T) {
	store, _ := setupStore(t, "")
	assert.Equal(t, "s3@"+testBucket, store.String())

	store, _ = setupStore(t, "runs/one/")
	assert.Equal(t, "s3@"+testBucket+"/runs/one", store.String())
}

func TestHas(t *testing.T) {
	store, _ := setupStore(t, "runs/")
	ctx := context.Background()

	has, err := store.Has(ctx, "sixteentons")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.Has(ctx, "/heavy/seventeentons")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.Has(ctx, "fifteentons")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGet(t *testing.T) {
	store, _ := setupStore(t, "runs/")
	ctx := context.Background()

	b, err := storage.ReadAll(ctx, store, "heavy/seventeentons")
	require.NoError(t, err)
	assert.Equal(t, "this is the text for another thing", string(b))

	_, err = store.Get(ctx, "fifteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestPut(t *testing.T) {
	store, api := setupStore(t, "runs/")
	ctx := context.Background()

	require.NoError(t, storage.WriteAll(ctx, store, "deep/down/eighteentons", []byte("here we go"), storage.NoOverWrite))
	assert.Equal(t, []byte("here we go"), api.objects["runs/deep/down/eighteentons"])

	err := storage.WriteAll(ctx, store, "deep/down/eighteentons", []byte("again"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, storage.WriteAll(ctx, store, "deep/down/eighteentons", []byte("again"), storage.OverWrite))
	assert.Equal(t, []byte("again"), api.objects["runs/deep/down/eighteentons"])
}

func TestDelete(t *testing.T) {
	store, api := setupStore(t, "")
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "sixteentons"))
	require.NoError(t, store.Delete(ctx, "never-there"))
	_, ok := api.objects["sixteentons"]
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	store, api := setupStore(t, "runs/")
	ctx := context.Background()
	for _, k := range []string{"a/b/1", "a/b/2", "a/c/3", "a/c/4", "a/d/5"} {
		api.objects["runs/"+k] = []byte(k)
	}

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b/1", "a/b/2", "a/c/3", "a/c/4", "a/d/5", "heavy/seventeentons", "sixteentons"}, keys)

	keys, err = store.KeysPrefix(ctx, "/a/c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/c/3", "a/c/4"}, keys)

	children, err := storage.Children(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, children)
}

func TestSentinelErrors(t *testing.T) {
	for _, toPin := range []struct {
		code   string
		status int
		want   error
	}{
		{code: "InvalidBucketName", status: 400, want: status.ErrInvalidResource},
		{code: "BadDigest", status: 400, want: status.ErrStorageAPI},
		{code: "Unauthorized", status: 401, want: status.ErrUnauthorized},
		{code: "AccessDenied", status: 403, want: status.ErrForbidden},
		{code: s3.ErrCodeNoSuchKey, status: 404, want: status.ErrNotExists},
		{code: "NoSuchUpload", status: 404, want: status.ErrNotFound},
		{code: "PreconditionFailed", status: 412, want: status.ErrExists},
		{code: "SlowDown", status: 503, want: status.ErrStorageAPI},
	} {
		fixture := toPin
		t.Run(fixture.code, func(t *testing.T) {
			err := toSentinelErrors(awserr.NewRequestFailure(awserr.New(fixture.code, "failed", nil), fixture.status, "req"))
			assert.True(t, errors.Is(err, fixture.want), "got %v", err)
		})
	}

	assert.NoError(t, toSentinelErrors(nil))
	assert.Equal(t, context.Canceled, toSentinelErrors(awserr.New(request.CanceledErrorCode, "canceled", nil)))
	plain := io.ErrUnexpectedEOF
	assert.Equal(t, plain, toSentinelErrors(plain))
}
