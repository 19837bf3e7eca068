package storage

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioPublisher mirrors finished HLS packages into a MinIO bucket,
// under <prefix>/<file name>.
type MinioPublisher struct {
	client minioClient
	bucket string
}

// compile-time check: *MinioPublisher must satisfy port.PackagePublisher
var _ port.PackagePublisher = (*MinioPublisher)(nil)

func NewMinioPublisher(ctx context.Context, endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*MinioPublisher, error) {
	logger.Info(ctx, "initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return newPublisher(ctx, client, bucket)
}

func newPublisher(ctx context.Context, client minioClient, bucket string) (*MinioPublisher, error) {
	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", bucket)
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}
	return &MinioPublisher{client: client, bucket: bucket}, nil
}

// PublishPackage uploads every regular file of dir. The first failure aborts the upload.
func (p *MinioPublisher) PublishPackage(ctx context.Context, dir, prefix string) error {
	logger.Infof(ctx, "publishing package %q into bucket %q under %q...", dir, p.bucket, prefix)

	return filepath.WalkDir(dir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, filePath)
		if err != nil {
			return err
		}
		key := path.Join(strings.Trim(prefix, "/"), filepath.ToSlash(rel))

		opts := minio.PutObjectOptions{ContentType: contentType(filePath)}
		if _, err := p.client.FPutObject(ctx, p.bucket, key, filePath, opts); err != nil {
			return fmt.Errorf("upload %q: %w", key, mapMinioErr(err))
		}
		return nil
	})
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
