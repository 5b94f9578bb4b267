package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers just enough of the S3 API for PutObject and BucketExists.
type fakeS3 struct {
	mu         sync.Mutex
	requests   []string
	headStatus []int
	headers    http.Header
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	switch r.Method {
	case http.MethodHead:
		status := http.StatusOK
		if len(f.headStatus) > 0 {
			status, f.headStatus = f.headStatus[0], f.headStatus[1:]
		}
		w.WriteHeader(status)
	case http.MethodPut:
		f.headers = r.Header.Clone()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (f *fakeS3) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, method+" ") {
			n++
		}
	}
	return n
}

func newTestBundles(t *testing.T, srv *httptest.Server) *Bundles {
	t.Helper()
	b, err := NewBundles(Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "a",
		SecretKey: "s",
		Bucket:    "bundles",
		Prefix:    "apps",
	})
	require.NoError(t, err)
	b.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }
	return b
}

func TestNewBundles_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing endpoint", Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{"missing keys", Config{Endpoint: "localhost:9000", Bucket: "b"}},
		{"missing secret", Config{Endpoint: "localhost:9000", AccessKey: "a", Bucket: "b"}},
		{"missing bucket", Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBundles(tt.cfg)
			assert.Nil(t, b)
			assert.Error(t, err)
		})
	}
}

func TestKey(t *testing.T) {
	b, err := NewBundles(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b", Prefix: "/apps/"})
	require.NoError(t, err)
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "apps/vault-ui/20260301T123000Z.zip", b.key("vault-ui", at))

	b.prefix = ""
	assert.Equal(t, "vault-ui/20260301T123000Z.zip", b.key("vault-ui", at))
	assert.Equal(t, DefaultLinkTTL, b.linkTTL)
}

func TestPublish_RequiresInput(t *testing.T) {
	b, err := NewBundles(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"})
	require.NoError(t, err)

	_, err = b.Publish(context.Background(), " ", []byte("zip"))
	assert.Error(t, err)
	_, err = b.Publish(context.Background(), "vault-ui", nil)
	assert.Error(t, err)
}

func TestPublish_UploadsBundle(t *testing.T) {
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	b := newTestBundles(t, srv)

	up, err := b.Publish(context.Background(), "vault-ui", []byte("zip"))
	require.NoError(t, err)
	assert.Equal(t, "apps/vault-ui/20260301T123000Z.zip", up.Key)
	assert.Equal(t, int64(3), up.Size)
	assert.Equal(t, time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC), up.Expires)
	assert.Contains(t, up.URL, "/bundles/apps/vault-ui/20260301T123000Z.zip")
	assert.Contains(t, up.URL, "X-Amz-Signature=")
	assert.Contains(t, up.URL, "response-content-disposition=")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "PUT /bundles/apps/vault-ui/20260301T123000Z.zip")
	assert.Equal(t, "application/zip", fake.headers.Get("Content-Type"))
	assert.Equal(t, "vault-ui", fake.headers.Get("X-Amz-Meta-App"))
}

func TestPublish_RetriesBucketCheckAfterFailure(t *testing.T) {
	fake := &fakeS3{headStatus: []int{http.StatusForbidden}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	b := newTestBundles(t, srv)

	_, err := b.Publish(context.Background(), "vault-ui", []byte("zip"))
	require.Error(t, err)
	assert.Equal(t, 0, fake.count(http.MethodPut))

	_, err = b.Publish(context.Background(), "vault-ui", []byte("zip"))
	require.NoError(t, err)

	_, err = b.Publish(context.Background(), "vault-ui", []byte("zip"))
	require.NoError(t, err)

	assert.Equal(t, 2, fake.count(http.MethodHead))
	assert.Equal(t, 2, fake.count(http.MethodPut))
}
