// Package storage provides object storage on S3-compatible services.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// S3Client stores objects in one bucket.
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
}

// S3Config configures an S3Client.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// NewS3Client creates a client for an S3-compatible endpoint such as MinIO.
func NewS3Client(ctx context.Context, c S3Config) (*S3Client, error) {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	endpointURL := scheme + "://" + c.Endpoint

	region := c.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
	})

	slog.Info("configured object storage", "endpoint", endpointURL, "bucket", c.Bucket)

	return &S3Client{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        c.Bucket,
	}, nil
}

// PresignGet returns a URL that downloads key until expiry.
func (s *S3Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	request, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}

	return request.URL, nil
}

// PresignPut returns a URL that uploads key with contentType until expiry.
func (s *S3Client) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	return request.URL, nil
}

// Delete removes key.
func (s *S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// AttachmentKey returns the object key for a message attachment. The file
// name is reduced to its base name so it cannot escape the message prefix.
func AttachmentKey(teamID, channelID, messageID primitive.ObjectID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "file"
	}
	return fmt.Sprintf("teams/%s/channels/%s/messages/%s/%s", teamID.Hex(), channelID.Hex(), messageID.Hex(), name)
}
