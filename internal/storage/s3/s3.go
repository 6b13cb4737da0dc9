package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures an S3-compatible bucket (AWS, Cloudflare R2, MinIO).
type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	KeyPrefix       string
}

type S3Client struct {
	Client *s3.Client
	Bucket string
	prefix string
}

// NewClient initializes an S3-compatible client. Static credentials are
// used when both keys are set; otherwise the default AWS chain applies.
func NewClient(ctx context.Context, o Options) (*S3Client, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKeyID != "" && o.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.PathStyle
	})

	return &S3Client{
		Client: client,
		Bucket: o.Bucket,
		prefix: o.KeyPrefix,
	}, nil
}

// ObjectKey maps a book's thumbnail to its key in the bucket.
func (s *S3Client) ObjectKey(bookID string) string {
	return s.prefix + "thumbnails/" + bookID + ".png"
}
