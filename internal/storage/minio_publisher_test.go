package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
)

type mockMinio struct {
	bucketExistsFn func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFn   func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	fPutObjectFn   func(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)

	mu   sync.Mutex
	puts map[string]string // key -> content type
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.bucketExistsFn(ctx, bucketName)
}
func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.makeBucketFn(ctx, bucketName, opts)
}
func (m *mockMinio) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	m.mu.Lock()
	if m.puts == nil {
		m.puts = map[string]string{}
	}
	m.puts[objectName] = opts.ContentType
	m.mu.Unlock()
	if m.fPutObjectFn != nil {
		return m.fPutObjectFn(ctx, bucketName, objectName, filePath, opts)
	}
	return minio.UploadInfo{Key: objectName}, nil
}

func existingBucket(ctx context.Context, bucketName string) (bool, error) { return true, nil }

func TestNewPublisher_CreatesMissingBucket(t *testing.T) {
	created := ""
	m := &mockMinio{
		bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) { return false, nil },
		makeBucketFn: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
			created = bucketName
			return nil
		},
	}
	if _, err := newPublisher(context.Background(), m, "videos"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != "videos" {
		t.Errorf("created bucket = %q; want videos", created)
	}
}

func TestNewPublisher_BucketCheckError(t *testing.T) {
	m := &mockMinio{
		bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) {
			return false, minio.ErrorResponse{Code: "AccessDenied"}
		},
	}
	_, err := newPublisher(context.Background(), m, "videos")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestPublishPackage(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"master.m3u8", "segment_000.ts", "segment_001.ts"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	m := &mockMinio{bucketExistsFn: existingBucket}
	p, err := newPublisher(context.Background(), m, "videos")
	if err != nil {
		t.Fatalf("newPublisher: %v", err)
	}

	if err := p.PublishPackage(context.Background(), dir, "/post/U1/P1/abc/"); err != nil {
		t.Fatalf("PublishPackage: %v", err)
	}

	var keys []string
	for k := range m.puts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	want := []string{"post/U1/P1/abc/master.m3u8", "post/U1/P1/abc/segment_000.ts", "post/U1/P1/abc/segment_001.ts"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v; want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d] = %q; want %q", i, keys[i], want[i])
		}
	}
	if ct := m.puts["post/U1/P1/abc/master.m3u8"]; ct != "application/vnd.apple.mpegurl" {
		t.Errorf("manifest content type = %q", ct)
	}
	if ct := m.puts["post/U1/P1/abc/segment_000.ts"]; ct != "video/mp2t" {
		t.Errorf("segment content type = %q", ct)
	}
}

func TestPublishPackage_UploadError(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "master.m3u8"), []byte("x"), 0o644)

	m := &mockMinio{
		bucketExistsFn: existingBucket,
		fPutObjectFn: func(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			return minio.UploadInfo{}, minio.ErrorResponse{Code: "NoSuchBucket"}
		},
	}
	p, _ := newPublisher(context.Background(), m, "videos")

	err := p.PublishPackage(context.Background(), dir, "x")
	if !errors.Is(err, ErrBucketNotFound) {
		t.Fatalf("expected ErrBucketNotFound, got %v", err)
	}
}

func TestMapMinioErr(t *testing.T) {
	if mapMinioErr(nil) != nil {
		t.Error("nil should map to nil")
	}
	tests := []struct {
		code string
		want error
	}{
		{"NoSuchBucket", ErrBucketNotFound},
		{"SignatureDoesNotMatch", ErrAccessDenied},
		{"XMinioStorageFull", ErrStorageFull},
		{"SlowDown", ErrPublishFailed},
	}
	for _, tc := range tests {
		if err := mapMinioErr(minio.ErrorResponse{Code: tc.code}); !errors.Is(err, tc.want) {
			t.Errorf("%s -> %v; want %v", tc.code, err, tc.want)
		}
	}
	if err := mapMinioErr(errors.New("boom")); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("unknown -> %v", err)
	}
}
