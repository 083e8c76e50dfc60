// internal/adapters/storage/s3.go
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ReportStore is the interface report producers upload through
type ReportStore interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
}

// S3Config holds S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // for MinIO/LocalStack
	UsePathStyle    bool   // for MinIO/LocalStack
}

// S3Storage uploads generated reports to an S3 bucket
type S3Storage struct {
	uploader *manager.Uploader
	bucket   string
	logger   *slog.Logger
}

// Statically assert that *S3Storage implements the ReportStore interface.
var _ ReportStore = (*S3Storage)(nil)

// NewS3Storage creates a new S3 report store
func NewS3Storage(ctx context.Context, cfg *S3Config, logger *slog.Logger) (*S3Storage, error) {
	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("S3 report store initialized",
		slog.String("bucket", cfg.Bucket),
		slog.String("region", cfg.Region))

	return &S3Storage{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		logger:   logger.With(slog.String("storage", "s3")),
	}, nil
}

// buildAWSConfig builds AWS configuration, preferring static credentials when
// provided and falling back to the default credential chain
func buildAWSConfig(ctx context.Context, cfg *S3Config) (aws.Config, error) {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				),
			),
		)
	}
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
}

// Upload uploads a report to S3 and returns its location
func (s *S3Storage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"uploaded-at": time.Now().Format(time.RFC3339),
			"upload-id":   uuid.New().String(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	s.logger.InfoContext(ctx, "report uploaded",
		slog.String("key", key),
		slog.String("location", result.Location))
	return result.Location, nil
}
