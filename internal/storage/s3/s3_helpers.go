package s3

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MirrorThumbnail uploads a generated thumbnail so a CDN can front it.
func (s *S3Client) MirrorThumbnail(ctx context.Context, bookID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("s3: open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("s3: stat %s: %w", path, err)
	}

	key := s.ObjectKey(bookID)
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(st.Size()),
		ContentType:   aws.String("image/png"),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return fmt.Errorf("s3: put object %s: %w", key, err)
	}
	return nil
}
