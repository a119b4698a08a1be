package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragsearch/types"
)

type putCall struct {
	object      string
	contentType string
	data        []byte
}

type stubObjectClient struct {
	puts         []putCall
	putErr       error
	bucketExists bool
	madeBucket   bool
}

func (c *stubObjectClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return c.bucketExists, nil
}

func (c *stubObjectClient) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	c.madeBucket = true
	return nil
}

func (c *stubObjectClient) PutObject(ctx context.Context, bucket, object string, reader io.Reader,
	size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if c.putErr != nil {
		return minio.UploadInfo{}, c.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	c.puts = append(c.puts, putCall{object: object, contentType: opts.ContentType, data: data})
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	client := &stubObjectClient{}
	s := newStore(client, "documents", []string{"pdf", "txt"})

	doc := types.NewDocument([]byte("MZ"), "tool.exe", nil)
	err := s.Save(context.Background(), doc)

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, err.Error(), "unsupported file format: exe")
	assert.Contains(t, err.Error(), "pdf, txt")
	assert.Empty(t, client.puts, "nothing should be written for a rejected document")
}

func TestSaveWritesObjectAndSidecar(t *testing.T) {
	client := &stubObjectClient{bucketExists: true}
	s := newStore(client, "documents", []string{"pdf", "txt"})

	doc := types.NewDocument([]byte("hello world"), "note.txt", map[string]any{"source": "test"})
	err := s.Save(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, client.puts, 2)
	assert.Equal(t, "note.txt", client.puts[0].object)
	assert.Equal(t, []byte("hello world"), client.puts[0].data)

	assert.Equal(t, "note.txt_metadata.json", client.puts[1].object)
	assert.Equal(t, "application/json", client.puts[1].contentType)

	var sidecar map[string]any
	require.NoError(t, json.Unmarshal(client.puts[1].data, &sidecar))
	assert.Equal(t, doc.ID.String(), sidecar["id"])
	assert.Equal(t, "note.txt", sidecar["filename"])
	assert.Equal(t, "txt", sidecar["original_extension"])
	assert.Equal(t, float64(11), sidecar["file_size"])
	assert.Equal(t, map[string]any{"source": "test"}, sidecar["metadata"])
	assert.NotEmpty(t, sidecar["created_at"])
}

func TestSaveWrapsPutFailure(t *testing.T) {
	client := &stubObjectClient{putErr: errors.New("connection refused")}
	s := newStore(client, "documents", []string{"txt"})

	doc := types.NewDocument([]byte("hello"), "note.txt", nil)
	err := s.Save(context.Background(), doc)

	var storageErr types.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "failed to save document", storageErr.Message)
}

func TestSaveExtensionCaseInsensitive(t *testing.T) {
	client := &stubObjectClient{}
	s := newStore(client, "documents", []string{"txt"})

	doc := types.NewDocument([]byte("hello"), "NOTE.TXT", nil)
	require.NoError(t, s.Save(context.Background(), doc))
	require.Len(t, client.puts, 2)
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	client := &stubObjectClient{bucketExists: false}
	s := newStore(client, "documents", nil)

	require.NoError(t, s.ensureBucket(context.Background()))
	assert.True(t, client.madeBucket)

	client.bucketExists = true
	client.madeBucket = false
	require.NoError(t, s.ensureBucket(context.Background()))
	assert.False(t, client.madeBucket)
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "application/pdf"},
		{"data.json", "application/json"},
		{"blob.unknownext", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, contentTypeFor(tt.filename))
		})
	}
}
