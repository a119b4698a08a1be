// Package store persists raw uploaded documents to object storage.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ragsearch/extract"
	"ragsearch/types"
)

// DocumentStorer saves a document's raw bytes plus a metadata sidecar.
type DocumentStorer interface {
	Save(ctx context.Context, doc types.Document) error
}

// objectClient is the slice of *minio.Client the store actually uses.
type objectClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader,
		size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type MinioConfig struct {
	Endpoint            string
	AccessKey           string
	SecretKey           string
	BucketName          string
	Secure              bool
	SupportedExtensions []string
}

type MinioStore struct {
	client     objectClient
	bucket     string
	extensions map[string]struct{}
	logger     *slog.Logger
}

// NewMinioStore connects to MinIO and makes sure the bucket exists.
// The check-and-create is idempotent and safe to run on every start.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, types.StorageError{Message: "failed to create MinIO client", Err: err}
	}

	s := newStore(client, cfg.BucketName, cfg.SupportedExtensions)
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newStore(client objectClient, bucket string, supported []string) *MinioStore {
	exts := make(map[string]struct{}, len(supported))
	for _, e := range supported {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &MinioStore{
		client:     client,
		bucket:     bucket,
		extensions: exts,
		logger:     slog.Default(),
	}
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return types.StorageError{Message: "failed to check bucket", Err: err}
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return types.StorageError{Message: "failed to create bucket", Err: err}
		}
		s.logger.Info("created bucket", "bucket", s.bucket)
	}
	return nil
}

// Save writes the original file and a <filename>_metadata.json sidecar.
// The extension is validated against the allow-list before any write.
func (s *MinioStore) Save(ctx context.Context, doc types.Document) error {
	ext := extract.Extension(doc.Filename)
	if _, ok := s.extensions[ext]; !ok {
		return types.NewInvalidDocumentError(
			"unsupported file format: %s. Supported formats: %s",
			ext, strings.Join(s.supported(), ", "))
	}

	contentType := contentTypeFor(doc.Filename)
	_, err := s.client.PutObject(ctx, s.bucket, doc.Filename,
		bytes.NewReader(doc.Content), int64(len(doc.Content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return types.StorageError{Message: "failed to save document", Err: err}
	}
	s.logger.Info("saved file", "bucket", s.bucket, "object", doc.Filename)

	sidecar := map[string]any{
		"id":                 doc.ID.String(),
		"filename":           doc.Filename,
		"original_extension": ext,
		"content_type":       contentType,
		"file_size":          len(doc.Content),
		"metadata":           doc.Metadata,
		"created_at":         doc.CreatedAt.Format(time.RFC3339Nano),
	}
	sidecarBytes, err := json.Marshal(sidecar)
	if err != nil {
		return types.StorageError{Message: "failed to encode metadata", Err: err}
	}

	sidecarName := doc.Filename + "_metadata.json"
	_, err = s.client.PutObject(ctx, s.bucket, sidecarName,
		bytes.NewReader(sidecarBytes), int64(len(sidecarBytes)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return types.StorageError{Message: "failed to save metadata", Err: err}
	}
	s.logger.Info("saved metadata", "bucket", s.bucket, "object", sidecarName)

	return nil
}

func (s *MinioStore) supported() []string {
	exts := make([]string, 0, len(s.extensions))
	for e := range s.extensions {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

func contentTypeFor(filename string) string {
	ext := extract.Extension(filename)
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
