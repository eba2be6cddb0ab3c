package photostore

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

// PutObjectAPI is the part of the S3 client S3 uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores photos in Bucket under Prefix.
type S3 struct {
	Client PutObjectAPI
	Bucket string
	Prefix string
	// PublicURL is the base clients fetch from, e.g. a CDN origin. When
	// empty the virtual-hosted bucket URL is used.
	PublicURL string
	Region    string
	Now       func() time.Time
}

// NewS3 builds an S3 store using the default AWS credential chain.
func NewS3(ctx context.Context, region, bucket, prefix, publicURL string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3{
		Client:    s3.NewFromConfig(cfg),
		Bucket:    bucket,
		Prefix:    prefix,
		PublicURL: publicURL,
		Region:    region,
	}, nil
}

func (s *S3) Upload(ctx context.Context, userID, localPath string) (string, error) {
	if err := checkUser(userID); err != nil {
		return "", err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	key := Key(userID, localPath, now())
	if s.Prefix != "" {
		key = path.Join(s.Prefix, key)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", apperr.Backend("photostore.s3", err)
	}

	base := s.PublicURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.Bucket, s.Region)
	}
	return joinURL(base, key), nil
}
