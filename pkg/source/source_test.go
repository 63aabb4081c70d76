package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gtreader/internal/testutil"
	"github.com/matzehuels/gtreader/pkg/cache"
	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/httputil"
)

var fastRetry = httputil.Policy{Attempts: 3, Delay: time.Millisecond, MaxDelay: time.Millisecond}

func TestNetzschleuderURL(t *testing.T) {
	tests := []struct {
		network, subnet string
		want            string
		wantErr         bool
	}{
		{"karate", "", "https://networks.skewed.de/net/karate/files/karate.gt.zst", false},
		{"karate", "77", "https://networks.skewed.de/net/karate/files/77.gt.zst", false},
		{"foodweb_baywet", "dry", "https://networks.skewed.de/net/foodweb_baywet/files/dry.gt.zst", false},
		{"", "", "", true},
		{"../etc", "", "", true},
		{"karate", "a/b", "", true},
	}
	for _, tt := range tests {
		got, err := NetzschleuderURL(tt.network, tt.subnet)
		if tt.wantErr {
			assert.Error(t, err, "%s/%s", tt.network, tt.subnet)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref      string
		kind     Kind
		target   string
		wantCode errors.Code
	}{
		{"graph.gt", KindFile, "graph.gt", ""},
		{"/tmp/a b.gt.zst", KindFile, "/tmp/a b.gt.zst", ""},
		{"https://example.org/g.gt", KindURL, "https://example.org/g.gt", ""},
		{"ns:karate", KindNetzschleuder, "https://networks.skewed.de/net/karate/files/karate.gt.zst", ""},
		{"ns:karate/78", KindNetzschleuder, "https://networks.skewed.de/net/karate/files/78.gt.zst", ""},
		{"ns:", "", "", errors.ErrCodeInvalidInput},
		{"ftp://example.org/g.gt", "", "", errors.ErrCodeInvalidInput},
		{"", "", "", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			kind, target, err := ParseRef(tt.ref)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.target, target)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.gt")
	require.NoError(t, os.WriteFile(path, testutil.Example(), 0o644))

	data, err := ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, testutil.Example(), data)

	_, err = ReadFile(path, 10)
	assert.Equal(t, errors.ErrCodeTooLarge, errors.GetCode(err))

	_, err = ReadFile(filepath.Join(dir, "missing.gt"), 0)
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))

	_, err = ReadFile(dir, 0)
	assert.Equal(t, errors.ErrCodeInvalidPath, errors.GetCode(err))
}

func TestFetchSendsOrigin(t *testing.T) {
	var origin, agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin = r.Header.Get("Origin")
		agent = r.Header.Get("User-Agent")
		w.Write(testutil.Example())
	}))
	defer srv.Close()

	data, cached, err := NewFetcher().Fetch(context.Background(), srv.URL+"/g.gt")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, testutil.Example(), data)
	assert.Equal(t, "https://networks.skewed.de", origin)
	assert.Contains(t, agent, "gtreader/")
}

func TestFetchCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	f := NewFetcher(WithCache(fc, nil, 0))
	_, cached, err := f.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.False(t, cached)

	data, cached, err := f.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, int32(1), hits.Load())

	_, cached, err = NewFetcher(WithCache(fc, nil, 0), WithRefresh(true)).Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		maxBytes  int64
		wantCode  errors.Code
		wantCalls int32
	}{
		{"not found", http.StatusNotFound, "", 0, errors.ErrCodeNotFound, 1},
		{"forbidden", http.StatusForbidden, "", 0, errors.ErrCodeNetwork, 1},
		{"server error retried", http.StatusBadGateway, "", 0, errors.ErrCodeNetwork, 3},
		{"too large", http.StatusOK, "0123456789", 4, errors.ErrCodeTooLarge, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewFetcher(WithRetryPolicy(fastRetry), WithMaxBytes(tt.maxBytes))
			_, _, err := f.Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestFetchRecoversAfterRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	data, _, err := NewFetcher(WithRetryPolicy(fastRetry)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchRejectsScheme(t *testing.T) {
	_, _, err := NewFetcher().Fetch(context.Background(), "file:///etc/passwd")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testutil.Sample())
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "g.gt")
	require.NoError(t, os.WriteFile(path, testutil.Example(), 0o644))

	f := NewFetcher()
	ctx := context.Background()

	p, err := f.Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, KindFile, p.Kind)
	assert.Equal(t, testutil.Example(), p.Data)
	assert.Empty(t, p.URL)

	p, err = f.Open(ctx, srv.URL+"/sample.gt")
	require.NoError(t, err)
	assert.Equal(t, KindURL, p.Kind)
	assert.Equal(t, testutil.Sample(), p.Data)
	assert.Equal(t, srv.URL+"/sample.gt", p.URL)

	_, err = f.Open(ctx, "ns:..")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}
