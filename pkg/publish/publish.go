// Package publish uploads finished reports to S3-compatible object storage
// (AWS S3, Cloudflare R2, MinIO).
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-social/pkg/logging"
)

// ErrNoBucket is returned when a publisher is built without a bucket.
var ErrNoBucket = errors.New("publish bucket is not set")

// PutObjectAPI is the slice of the S3 client the publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options locate the bucket. Endpoint is only needed for non-AWS stores;
// setting it also switches to path-style addressing.
type Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Publisher writes objects under Prefix/<run id>/.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger logging.Logger
}

// New wraps an existing client.
func New(client PutObjectAPI, bucket, prefix string, logger logging.Logger) (*Publisher, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Publisher{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

// NewS3 builds an S3 client from opts and the default AWS configuration
// chain. Static keys in opts take precedence over the chain.
func NewS3(ctx context.Context, opts Options, logger logging.Logger) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, opts.Bucket, opts.Prefix, logger)
}

// Key returns the object key for name within runID.
func (p *Publisher) Key(runID, name string) string {
	return path.Join(p.prefix, runID, name)
}

// Publish uploads body and returns its key.
func (p *Publisher) Publish(ctx context.Context, runID, name, contentType string, body []byte) (string, error) {
	key := p.Key(runID, name)

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		Metadata:      map[string]string{"run-id": runID},
	})
	if err != nil {
		p.logger.Error("publish failed",
			logging.String("bucket", p.bucket),
			logging.String("key", key),
			logging.Error(err))
		return "", fmt.Errorf("put s3://%s/%s: %w", p.bucket, key, err)
	}

	p.logger.Info("report published",
		logging.String("bucket", p.bucket),
		logging.String("key", key),
		logging.Int("bytes", len(body)))
	return key, nil
}
