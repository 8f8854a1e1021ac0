package objectstore

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut(t *testing.T) {
	var method, path, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := New(t.Context(), Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		Bucket:    "uploads",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, store.Put(t.Context(), "imports/pdf/1/cv.pdf", "application/pdf", []byte("%PDF")))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/uploads/imports/pdf/1/cv.pdf", path)
	assert.Equal(t, "application/pdf", contentType)
}

func TestPutFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store, err := New(t.Context(), Config{Endpoint: srv.URL, Bucket: "uploads", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Error(t, store.Put(t.Context(), "k", "application/pdf", []byte("x")))
}

func TestNewNeedsBucket(t *testing.T) {
	_, err := New(t.Context(), Config{})
	assert.Error(t, err)
}
