package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"safety-inspection-api/config"

	"github.com/minio/minio-go/v7"
)

// SpacesService mirrors generated documents to S3-compatible object
// storage (DigitalOcean Spaces in production).
type SpacesService struct {
	client *minio.Client
	bucket string
	cdnURL string
}

func NewSpacesService() *SpacesService {
	return &SpacesService{
		client: config.Spaces,
		bucket: config.SpacesBucket,
		cdnURL: config.SpacesCDNURL,
	}
}

func (s *SpacesService) Enabled() bool {
	return s != nil && s.client != nil && s.bucket != ""
}

// Upload stores the object and returns its public URL (CDN when
// configured, direct bucket URL otherwise).
func (s *SpacesService) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("object storage not configured")
	}
	objectKey = strings.TrimLeft(objectKey, "/")

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.objectURL(objectKey), nil
}

func (s *SpacesService) objectURL(objectKey string) string {
	if s.cdnURL != "" {
		return strings.TrimRight(s.cdnURL, "/") + "/" + objectKey
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.client.EndpointURL().Host, objectKey)
}
