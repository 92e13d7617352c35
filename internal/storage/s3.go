package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3FolderStorage implements FolderStorage on S3-compatible object
// stores (AWS S3, Cloudflare R2). Folders are key prefixes; folder ids
// are the prefix without the trailing slash.
type S3FolderStorage struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	bucket     string
	baseURL    string
	publicRead bool
}

// NewS3FolderStorage creates an S3/R2 durable store.
func NewS3FolderStorage(cfg Config) (*S3FolderStorage, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Region == "" {
		awsConfig.Region = aws.String("auto")
	}
	if cfg.Endpoint != "" {
		// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}

	return &S3FolderStorage{
		client:     s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		bucket:     cfg.Bucket,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		publicRead: cfg.PublicRead,
	}, nil
}

func (s *S3FolderStorage) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	prefix := sanitizeSegment(name)
	if parentID != "" {
		prefix = path.Join(parentID, prefix)
	}

	// Object stores have no real folders; a marker object keeps the
	// prefix listable.
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(prefix + "/.keep"),
		Body:   bytes.NewReader([]byte{}),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", prefix, err)
	}
	return prefix, nil
}

func (s *S3FolderStorage) MakeFolderPublic(ctx context.Context, folderID string) error {
	// Object ACLs are applied per upload; bucket policy governs prefix
	// visibility.
	return nil
}

func (s *S3FolderStorage) UploadBuffer(ctx context.Context, data []byte, filename, folderID, mimeType string) (*StoredFile, error) {
	key := path.Join(folderID, sanitizeSegment(filename))

	input := &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	}
	if s.publicRead {
		input.ACL = aws.String("public-read")
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return &StoredFile{
		ID:  key,
		URL: s.baseURL + "/" + key,
	}, nil
}

func (s *S3FolderStorage) GetFolderURL(ctx context.Context, folderID string) (string, error) {
	return s.baseURL + "/" + folderID, nil
}

func (s *S3FolderStorage) Owns(url string) bool {
	return strings.HasPrefix(url, s.baseURL+"/")
}

func (s *S3FolderStorage) FileExists(ctx context.Context, url string) (bool, error) {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return false, nil
	}
	key := strings.TrimPrefix(url, s.baseURL+"/")

	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return true, nil
}
