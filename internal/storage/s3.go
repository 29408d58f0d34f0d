package storage

import (
	"advokit/case-app/internal/config"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// s3Storage implements FileStorage using an S3-compatible backend. Uploads
// go through the server (PutObject) because the client sends multipart
// bodies; download URLs are presigned GETs.
type s3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	keyPrefix     string
}

// NewS3Storage creates a new S3 storage service instance.
func NewS3Storage(cfg config.S3Config) (FileStorage, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fall back to default AWS endpoint resolution.
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Force path-style addressing required by most S3-compatible services.
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	presignClient := s3.NewPresignClient(s3Client)

	log.Printf("S3 Storage Service initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3Storage{
		client:        s3Client,
		presignClient: presignClient,
		bucketName:    cfg.BucketName,
		keyPrefix:     "uploads",
	}, nil
}

// Save uploads the stream under a generated key. The returned URL is the
// stable key-derived path; it is what gets persisted. Short-lived
// presigned links are minted by ResolveURL when a case is read.
func (s *s3Storage) Save(ctx context.Context, r io.Reader, originalName, contentType string) (*StoredFile, error) {
	key := path.Join(s.keyPrefix, uuid.NewString()+"-"+sanitizeName(originalName))

	// PutObject needs a seekable body for signing; buffer the stream.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("ERROR: Failed to put object '%s' to bucket '%s': %v", key, s.bucketName, err)
		return nil, err
	}

	return &StoredFile{Key: key, URL: "/" + key, Size: int64(len(data))}, nil
}

// Delete removes an object from the S3 bucket.
func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("ERROR: Failed to delete object '%s' from bucket '%s': %v", key, s.bucketName, err)
		return err
	}
	return nil
}

// ResolveURL creates a temporary presigned GET URL for the object.
func (s *s3Storage) ResolveURL(ctx context.Context, key string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(DefaultPresignedURLExpiry))
	if err != nil {
		log.Printf("ERROR: Failed to generate presigned GET URL for key '%s': %v", key, err)
		return "", err
	}
	return req.URL, nil
}
