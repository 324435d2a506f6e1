package config

import (
	"log"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Spaces is the S3-compatible client used to mirror generated reports;
// nil when the integration is not configured.
var (
	Spaces       *minio.Client
	SpacesBucket string
	SpacesCDNURL string
)

func InitSpaces() {
	endpoint := os.Getenv("SPACES_ENDPOINT") // e.g. "sgp1.digitaloceanspaces.com"
	key := os.Getenv("SPACES_KEY")
	secret := os.Getenv("SPACES_SECRET")
	SpacesBucket = os.Getenv("SPACES_BUCKET")
	SpacesCDNURL = os.Getenv("SPACES_CDN_URL")

	if endpoint == "" || key == "" || secret == "" || SpacesBucket == "" {
		log.Println("Object storage not configured, report mirroring disabled")
		return
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: true,
		Region: os.Getenv("SPACES_REGION"),
	})
	if err != nil {
		log.Printf("Warning: object storage init failed: %v", err)
		return
	}

	Spaces = client
	log.Println("Object storage client ready")
}
