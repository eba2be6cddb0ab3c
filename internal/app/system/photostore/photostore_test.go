package photostore_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dalemusser/photoshare/internal/app/system/photostore"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC) }

func writePhoto(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "photo_123.jpg")
	require.NoError(t, os.WriteFile(p, []byte("jpeg"), 0o644))
	return p
}

func TestKey_Layout(t *testing.T) {
	k := photostore.Key("u1", "/tmp/spool/photo 1.jpg", fixedNow())
	assert.Regexp(t, regexp.MustCompile(`^users/u1/photos/2025/04/[0-9a-f]{8}-photo_1\.jpg$`), k)
}

func TestLocal_Upload(t *testing.T) {
	root := t.TempDir()
	store := &photostore.Local{Root: root, BaseURL: "http://localhost:8080/media/", Now: fixedNow}

	url, err := store.Upload(context.Background(), "u1", writePhoto(t))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/media/users/u1/photos/2025/04/"), url)

	key := strings.TrimPrefix(url, "http://localhost:8080/media/")
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(b))
}

func TestLocal_RequiresUser(t *testing.T) {
	store := &photostore.Local{Root: t.TempDir()}
	_, err := store.Upload(context.Background(), "", writePhoto(t))
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3_Upload(t *testing.T) {
	fake := &fakeS3{}
	store := &photostore.S3{Client: fake, Bucket: "photos", Prefix: "prod", Region: "us-east-1", Now: fixedNow}

	url, err := store.Upload(context.Background(), "u1", writePhoto(t))
	require.NoError(t, err)

	key := aws.ToString(fake.in.Key)
	assert.True(t, strings.HasPrefix(key, "prod/users/u1/photos/2025/04/"), key)
	assert.Equal(t, "photos", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "jpeg", string(fake.body))
	assert.Equal(t, "https://photos.s3.us-east-1.amazonaws.com/"+key, url)
}

func TestS3_UploadFailureIsBackendError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	store := &photostore.S3{Client: fake, Bucket: "photos", PublicURL: "https://cdn.example.com"}

	_, err := store.Upload(context.Background(), "u1", writePhoto(t))
	assert.ErrorIs(t, err, apperr.ErrBackend)
}
