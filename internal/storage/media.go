// Package storage wraps the S3-compatible object store used for avatars,
// course thumbnails and lecture video.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Asset identifies an uploaded object: the key for later deletion plus the
// public URL served to clients.
type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// MediaStore uploads and destroys media objects.
type MediaStore interface {
	Upload(ctx context.Context, folder, filename string, body io.Reader, contentType string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// S3Store is a MediaStore on top of an S3-compatible endpoint.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Store creates an S3Store. baseURL is the public endpoint objects are
// served from, e.g. the S3 URL itself or a CDN in front of it.
func NewS3Store(client *s3.Client, bucket, baseURL string, logger zerolog.Logger) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("service", "S3Store").Logger(),
	}
}

// Upload stores the object under a fresh key inside folder and returns the
// asset reference. The original filename only contributes its extension.
func (s *S3Store) Upload(ctx context.Context, folder, filename string, body io.Reader, contentType string) (*Asset, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), extensionOf(filename))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload object")
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	return &Asset{
		PublicID: key,
		URL:      fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key),
	}, nil
}

// Destroy removes the object by its public id. Missing objects are not an
// error at the S3 level, which suits the delete-then-replace flows.
func (s *S3Store) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", publicID).Msg("Failed to delete object")
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

func extensionOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		return filename[i:]
	}
	return ""
}
