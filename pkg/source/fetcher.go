package source

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/gtreader/pkg/buildinfo"
	"github.com/matzehuels/gtreader/pkg/cache"
	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/httputil"
	"github.com/matzehuels/gtreader/pkg/observability"
)

// DefaultMaxBytes caps downloads and local reads at 1 GiB.
const DefaultMaxBytes int64 = 1 << 30

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 5 * time.Minute

// Fetcher retrieves gt payloads.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	policy   httputil.Policy
	maxBytes int64
	refresh  bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithCache stores downloads in c under keys from k for ttl.
// A nil keyer uses cache.DefaultKeyer; a zero ttl uses cache.FetchTTL.
func WithCache(c cache.Cache, k cache.Keyer, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		if k != nil {
			f.keyer = k
		}
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithMaxBytes caps the payload size. Zero or less removes the cap.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// WithRetryPolicy replaces httputil.DefaultPolicy.
func WithRetryPolicy(p httputil.Policy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithRefresh skips cache reads. Fresh downloads are still stored.
func WithRefresh(refresh bool) Option {
	return func(f *Fetcher) { f.refresh = refresh }
}

// NewFetcher returns a Fetcher with no cache and default limits.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		ttl:      cache.FetchTTL,
		policy:   httputil.DefaultPolicy,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cache == nil {
		f.cache = cache.NewNullCache()
	}
	return f
}

// Fetch downloads rawURL, consulting the cache first. The bool reports a
// cache hit.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()
	key := f.keyer.FetchKey(rawURL)

	_, noCache := f.cache.(cache.NullCache)

	if !f.refresh && !noCache {
		if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
			hooks.OnCacheHit(ctx, "fetch")
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, "fetch")
	}

	var data []byte
	err := f.policy.Do(ctx, func(int) error {
		var err error
		data, err = f.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, false, classify(rawURL, err)
	}

	if noCache {
		return data, false, nil
	}
	if err := f.cache.Set(ctx, key, data, f.ttl); err == nil {
		hooks.OnCacheSet(ctx, "fetch", len(data))
	}
	return data, false, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Origin", NetzschleuderBase)
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, httputil.Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := httputil.ReadLimited(resp.Body, f.maxBytes)
	if err != nil && !stderrors.Is(err, httputil.ErrTooLarge) {
		return nil, httputil.Retryable(err)
	}
	return data, err
}

// classify maps transport failures onto error codes.
func classify(rawURL string, err error) error {
	var se *httputil.StatusError
	switch {
	case stderrors.As(err, &se) && se.Code == http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, err, "%s not found", rawURL)
	case stderrors.Is(err, httputil.ErrTooLarge):
		return errors.Wrap(errors.ErrCodeTooLarge, err, "download of %s too large", rawURL)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s timed out", rawURL)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
}

// With returns a copy of f with opts applied.
func (f *Fetcher) With(opts ...Option) *Fetcher {
	c := *f
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}
