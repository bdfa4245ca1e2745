package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures the S3 client. Endpoint may be a bare host:port or a
// full URL; bare values default to https.
type Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

// S3 is a thin wrapper around the AWS SDK v2 S3 client used for image uploads.
type S3 struct {
	api           *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3 creates an S3 client from static credentials.
func NewS3(ctx context.Context, opts Options) (*S3, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, errors.New("s3 access key and secret key are required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicBaseURL := strings.TrimRight(opts.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = endpoint + "/" + opts.Bucket
	}

	return &S3{
		api:           client,
		bucket:        opts.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

// Put uploads data under key and returns its public URL.
func (s *S3) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}
