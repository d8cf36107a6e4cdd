package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/contractor-site-backend/config"
)

type fakeObjects struct {
	mu           sync.Mutex
	puts         map[string][]byte
	contentTypes map[string]string
	headErr      error
	created      []string
	putErrFor    string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{puts: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErrFor != "" && strings.HasSuffix(*in.Key, f.putErrFor) {
		return nil, errors.New("connection reset")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts[*in.Key] = data
	f.contentTypes[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeObjects) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = append(f.created, *in.Bucket)
	return &s3.CreateBucketOutput{}, nil
}

func testStore(api objectAPI) *Store {
	return newStore(api, config.Storage{
		SupabaseURL: "https://abc.supabase.co/",
		Bucket:      "generated-images",
	})
}

func TestPublicURL(t *testing.T) {
	s := testStore(newFakeObjects())
	assert.Equal(t,
		"https://abc.supabase.co/storage/v1/object/public/generated-images/products/roof.png",
		s.PublicURL("products/roof.png"))
}

func TestUploadImage(t *testing.T) {
	api := newFakeObjects()
	s := testStore(api)

	up, err := s.UploadImage(context.Background(), "products", Image{Name: "roof.jpg", Data: []byte{1, 2, 3}, MimeType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "products/roof.jpg", up.Path)
	assert.Equal(t, s.PublicURL("products/roof.jpg"), up.URL)
	assert.Equal(t, []byte{1, 2, 3}, api.puts["products/roof.jpg"])
	assert.Equal(t, "image/jpeg", api.contentTypes["products/roof.jpg"])
}

func TestUploadImage_GeneratesName(t *testing.T) {
	api := newFakeObjects()
	up, err := testStore(api).UploadImage(context.Background(), "gallery", Image{Data: []byte{1}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.Path, "gallery/"))
	assert.True(t, strings.HasSuffix(up.Path, ".png"))
}

func TestUploadImage_Empty(t *testing.T) {
	_, err := testStore(newFakeObjects()).UploadImage(context.Background(), "x", Image{Name: "a.png"})
	assert.Error(t, err)
}

func TestUploadImages(t *testing.T) {
	api := newFakeObjects()
	s := testStore(api)

	imgs := []Image{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
		{Name: "c.png", Data: []byte("c")},
	}
	out, err := s.UploadImages(context.Background(), "batch", imgs)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "batch/a.png", out[0].Path)
	assert.Equal(t, "batch/c.png", out[2].Path)
	assert.Len(t, api.puts, 3)
}

func TestUploadImages_Failure(t *testing.T) {
	api := newFakeObjects()
	api.putErrFor = "b.png"
	_, err := testStore(api).UploadImages(context.Background(), "batch", []Image{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
	})
	assert.Error(t, err)
}

func TestEnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		api := newFakeObjects()
		require.NoError(t, testStore(api).EnsureBucket(context.Background()))
		assert.Empty(t, api.created)
	})

	t.Run("missing", func(t *testing.T) {
		api := newFakeObjects()
		api.headErr = &types.NotFound{}
		require.NoError(t, testStore(api).EnsureBucket(context.Background()))
		assert.Equal(t, []string{"generated-images"}, api.created)
	})

	t.Run("head fails", func(t *testing.T) {
		api := newFakeObjects()
		api.headErr = errors.New("403 forbidden")
		assert.Error(t, testStore(api).EnsureBucket(context.Background()))
		assert.Empty(t, api.created)
	})
}
