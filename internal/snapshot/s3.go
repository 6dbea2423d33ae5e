package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vvakame/foodexpress/internal/store"
)

// S3Client is the part of *s3.Client the backend needs.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ S3Client = (*s3.Client)(nil)
var _ Backend = (*S3)(nil)

type S3 struct {
	Client S3Client
	Bucket string
	Key    string
}

func OpenS3(ctx context.Context, region, bucket, key string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3(s3.NewFromConfig(cfg), bucket, key), nil
}

func NewS3(client S3Client, bucket, key string) *S3 {
	return &S3{Client: client, Bucket: bucket, Key: key}
}

func (b *S3) Load(ctx context.Context) (*store.Snapshot, error) {
	out, err := b.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(b.Key),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return nil, ErrNoSnapshot
	} else if err != nil {
		return nil, fmt.Errorf("unable to get s3://%s/%s: %w", b.Bucket, b.Key, err)
	}
	defer out.Body.Close()

	document, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read s3://%s/%s: %w", b.Bucket, b.Key, err)
	}
	return Decode(document)
}

func (b *S3) Save(ctx context.Context, snap *store.Snapshot) error {
	document, err := Encode(snap)
	if err != nil {
		return err
	}
	_, err = b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Bucket),
		Key:         aws.String(b.Key),
		Body:        bytes.NewReader(document),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("unable to upload s3://%s/%s: %w", b.Bucket, b.Key, err)
	}
	return nil
}

func (b *S3) Close() error { return nil }
