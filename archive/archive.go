// Package archive uploads produced files to S3-compatible object storage.
package archive

import (
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Archiver stores a local file under a key.
type Archiver interface {
	Archive(ctx context.Context, key string, filePath string) error
}

type Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // Optional, for S3-compatible stores; enables path-style addressing
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver implements Archiver with S3 PutObject.
type S3Archiver struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Archiver builds an archiver from the default AWS credential chain.
func NewS3Archiver(ctx context.Context, cfg *Config) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	zap.S().Infow("S3 archiver initialized", "bucket", cfg.Bucket, "prefix", cfg.Prefix, "region", cfg.Region)
	return newS3Archiver(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Archiver(client putObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Archive uploads filePath to <prefix>/<key>.
func (a *S3Archiver) Archive(ctx context.Context, key string, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filePath)
	}
	defer f.Close()

	objectKey := path.Join(a.prefix, key)
	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to upload %s to s3://%s/%s", filePath, a.bucket, objectKey)
	}

	zap.S().Infow("file archived", "path", filePath, "bucket", a.bucket, "key", objectKey)
	return nil
}
