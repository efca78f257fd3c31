package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBucketURL(t *testing.T) {
	tests := []struct {
		raw     string
		bucket  string
		key     string
		ok      bool
		wantErr bool
	}{
		{raw: "saved.json"},
		{raw: "/tmp/s3/saved.json"},
		{raw: "s3://exports/saved/2024.json", bucket: "exports", key: "saved/2024.json", ok: true},
		{raw: "s3://exports", ok: true, wantErr: true},
		{raw: "s3:///saved.json", ok: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bucket, key, ok, err := ParseBucketURL(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestBucketUploaderPathStyle(t *testing.T) {
	var (
		mu          sync.Mutex
		method      string
		path        string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	up, err := NewBucketUploader(context.Background(), BucketConfig{
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	require.NoError(t, err)

	err = up.Upload(context.Background(), "exports", "saved/latest.json", []byte(`[]`), "application/json")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/exports/saved/latest.json", path)
	assert.Equal(t, "application/json", contentType)
}
