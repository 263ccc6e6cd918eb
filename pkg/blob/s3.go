package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"logvault/pkg/config"
	"logvault/pkg/logger"
)

type s3Store struct {
	client *s3.S3
	bucket string
	prefix string
}

func newS3Store(cfg config.BlobConfig) (*s3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 blob backend requires a bucket")
	}
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		// custom endpoints (MinIO etc) need path-style addressing
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	logger.Info("blob_s3_ready", "bucket", cfg.Bucket, "endpoint", cfg.Endpoint, "prefix", cfg.Prefix)
	return &s3Store{client: s3.New(sess), bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *s3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func (s *s3Store) ReadIfExists(ctx context.Context, key string) (string, bool, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return "", false, nil
			}
		}
		return "", false, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	defer out.Body.Close()
	var buf strings.Builder
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return "", false, fmt.Errorf("failed to read object body %s: %w", key, err)
	}
	return buf.String(), true, nil
}

func (s *s3Store) WriteFull(ctx context.Context, key, text, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader([]byte(text)),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	return nil
}
