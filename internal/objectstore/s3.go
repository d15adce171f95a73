package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store uploads to a bucket and hands out presigned GET URLs.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3Store loads the default AWS credential chain. An empty region
// defers to AWS_REGION and the shared config.
func NewS3Store(ctx context.Context, bucket, region string, ttl time.Duration) (*S3Store, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("objectstore.NewS3Store: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		ttl:     ttl,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.ReadSeeker, size int64) (string, error) {
	const op = "objectstore.S3Store.Put"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = s.ttl
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return req.URL, nil
}
