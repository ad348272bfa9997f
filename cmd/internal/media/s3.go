package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures the S3 uploader. Endpoint and UsePathStyle exist for
// S3-compatible stores (MinIO); leave them zero for AWS proper.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// PublicBaseURL is the prefix of the served object URL, e.g. the CDN or
	// bucket website origin. The object key is appended to it.
	PublicBaseURL string

	UsePathStyle bool
}

// S3Uploader stores images in an S3 bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
	base   string
	now    func() time.Time
}

// NewS3Uploader builds the AWS client and returns the uploader.
//
// With AccessKey/SecretKey set it uses static credentials (MinIO, or AWS
// with explicit keys); otherwise the default credential chain applies.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" || cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("media: s3 config requires bucket and public base url")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client: client,
		bucket: cfg.Bucket,
		base:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		now:    time.Now,
	}, nil
}

// Upload writes the image to the bucket and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, img Image) (string, error) {
	key := objectKey(u.now(), img.Ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return u.base + "/" + key, nil
}
