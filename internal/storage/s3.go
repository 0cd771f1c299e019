package storage

import (
	"context"
	"fmt"
	"mime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

const defaultPresignTTL = 5 * time.Minute

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Storage hands out presigned GET URLs for resource files kept in a
// single bucket.
type S3Storage struct {
	logger  logrus.FieldLogger
	presign presignAPI
	bucket  string
	ttl     time.Duration
}

func NewS3Storage(logger logrus.FieldLogger, client *s3.Client, bucket string, ttl time.Duration) *S3Storage {
	return newS3Storage(logger, s3.NewPresignClient(client), bucket, ttl)
}

func newS3Storage(logger logrus.FieldLogger, presign presignAPI, bucket string, ttl time.Duration) *S3Storage {
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	return &S3Storage{
		logger:  logger,
		presign: presign,
		bucket:  bucket,
		ttl:     ttl,
	}
}

// PresignDownload signs a GET for key. When fileName is set the response is
// served as an attachment under that name.
func (s *S3Storage) PresignDownload(ctx context.Context, key, fileName string) (string, time.Time, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	if fileName != "" {
		input.ResponseContentDisposition = aws.String(mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	}

	expiresAt := time.Now().Add(s.ttl).UTC()

	req, err := s.presign.PresignGetObject(ctx, input, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign %s: %w", key, err)
	}

	s.logger.WithFields(logrus.Fields{"bucket": s.bucket, "key": key}).Debug("presigned download")

	return req.URL, expiresAt, nil
}
