// Command provision-storage prepares the local upload tree and the
// object-store bucket a deployment needs before serving traffic.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"safety-inspection-api/config"
	"safety-inspection-api/utils"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
)

func main() {
	log.Println("Starting storage provisioning...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	var failed []string

	root := utils.UploadRoot()
	for _, sub := range []string{"", "inspections", "reports"} {
		dir := filepath.Join(root, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("failed to create %s: %v", dir, err)
			failed = append(failed, dir)
			continue
		}
		log.Printf("upload directory ready: %s", dir)
	}

	logDir := filepath.Dir(config.LogFilePath())
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Printf("failed to create %s: %v", logDir, err)
		failed = append(failed, logDir)
	} else {
		log.Printf("log directory ready: %s", logDir)
	}

	config.InitSpaces()
	if config.Spaces == nil {
		log.Println("object storage not configured, skipping bucket check")
	} else if err := ensureBucket(config.Spaces, config.SpacesBucket); err != nil {
		log.Printf("bucket provisioning failed: %v", err)
		failed = append(failed, "bucket:"+config.SpacesBucket)
	} else {
		log.Printf("bucket ready: %s", config.SpacesBucket)
	}

	if len(failed) > 0 {
		log.Fatalf("completed with errors: %s", strings.Join(failed, ", "))
	}
	log.Println("Storage provisioning complete")
}

func ensureBucket(client *minio.Client, bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{
		Region: os.Getenv("SPACES_REGION"),
	})
}
