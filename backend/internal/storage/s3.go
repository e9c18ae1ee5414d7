package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageKind is the top-level prefix an upload lands under
type ImageKind string

const (
	KindAvatar    ImageKind = "avatars"
	KindPostImage ImageKind = "posts"
)

// Object keys are random, so a URL never needs invalidating
const immutable = "public, max-age=31536000, immutable"

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Uploader stores avatars and post images in one bucket, optionally
// served through a CDN
type S3Uploader struct {
	client  s3API
	bucket  string
	region  string
	baseURL string
	now     func() time.Time
}

type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	Size   int64  `json:"size"`
}

// NewS3Uploader uses the default AWS credential chain. baseURL is the CDN
// origin in front of the bucket; empty means the bucket's own S3 URL.
func NewS3Uploader(ctx context.Context, region, bucket, baseURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if baseURL == "" {
		baseURL = "https://" + bucket + ".s3." + region + ".amazonaws.com"
	}
	return newS3Uploader(s3.NewFromConfig(cfg), region, bucket, baseURL), nil
}

func newS3Uploader(client s3API, region, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// objectKey lays uploads out as kind/yyyy/mm/userID/uuid.ext
func objectKey(kind ImageKind, userID, ext string, at time.Time) string {
	return path.Join(string(kind), at.Format("2006/01"), userID, uuid.NewString()+ext)
}

func (u *S3Uploader) UploadImage(ctx context.Context, data []byte, kind ImageKind, userID, ext, contentType string) (*UploadResult, error) {
	key := objectKey(kind, userID, ext, u.now().UTC())
	size := int64(len(data))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(u.bucket),
		Key:               aws.String(key),
		Body:              bytes.NewReader(data),
		ContentLength:     aws.Int64(size),
		ContentType:       aws.String(contentType),
		CacheControl:      aws.String(immutable),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
		Metadata:          map[string]string{"user-id": userID, "kind": string(kind)},
	})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}

	logger.Log.Info("Image uploaded", logger.WithUserID(userID), zap.String("key", key), zap.Int64("size", size))
	return &UploadResult{
		Key:    key,
		URL:    u.baseURL + "/" + key,
		Bucket: u.bucket,
		Region: u.region,
		Size:   size,
	}, nil
}

func (u *S3Uploader) DeleteFile(ctx context.Context, key string) error {
	if _, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(u.bucket), Key: aws.String(key)}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// CheckBucketAccess runs at startup so a misconfigured bucket fails early
func (u *S3Uploader) CheckBucketAccess(ctx context.Context) error {
	if _, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)}); err != nil {
		return fmt.Errorf("bucket %s unreachable: %w", u.bucket, err)
	}
	return nil
}

// KeyFromURL recovers the object key from a URL this uploader handed out
func (u *S3Uploader) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, u.baseURL+"/")
	return key, ok && key != ""
}
