package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	bodies  [][]byte
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, f.err
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.err
}

func TestUploadImage(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, "us-west-2", "courtside-media", "https://cdn.example.com/")
	u.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }

	res, err := u.UploadImage(context.Background(), []byte("png-bytes"), KindAvatar, "user-1", ".png", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "avatars/2024/03/user-1/"), res.Key)
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+res.Key, res.URL)
	assert.EqualValues(t, 9, res.Size)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "courtside-media", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.puts[0].ContentType))
	assert.Equal(t, []byte("png-bytes"), fake.bodies[0])

	key, ok := u.KeyFromURL(res.URL)
	assert.True(t, ok)
	assert.Equal(t, res.Key, key)
	_, ok = u.KeyFromURL("https://elsewhere.example.com/x.png")
	assert.False(t, ok)
}

func TestUploadImageError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	u := newS3Uploader(fake, "us-west-2", "b", "https://cdn.example.com")

	_, err := u.UploadImage(context.Background(), []byte("x"), KindPostImage, "u", ".jpg", "image/jpeg")
	assert.ErrorContains(t, err, "access denied")
	assert.Error(t, u.CheckBucketAccess(context.Background()))
}

func TestDeleteFile(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, "us-west-2", "b", "https://cdn.example.com")
	require.NoError(t, u.DeleteFile(context.Background(), "avatars/k.png"))
	assert.Equal(t, []string{"avatars/k.png"}, fake.deletes)
}

func TestObjectKeyLayout(t *testing.T) {
	key := objectKey(KindPostImage, "u-9", ".webp", time.Date(2025, 11, 2, 23, 0, 0, 0, time.UTC))
	parts := strings.Split(key, "/")
	require.Len(t, parts, 5)
	assert.Equal(t, []string{"posts", "2025", "11", "u-9"}, parts[:4])
	assert.True(t, strings.HasSuffix(parts[4], ".webp"))
	assert.Len(t, strings.TrimSuffix(parts[4], ".webp"), 36)
}
