package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gtreader/pkg/cache"
	"github.com/matzehuels/gtreader/pkg/catalog"
	"github.com/matzehuels/gtreader/pkg/decompress"
	"github.com/matzehuels/gtreader/pkg/gt"
	"github.com/matzehuels/gtreader/pkg/graph"
	"github.com/matzehuels/gtreader/pkg/observability"
	"github.com/matzehuels/gtreader/pkg/source"
)

// Runner encapsulates loading with caching and catalog recording.
//
// The Runner holds no per-load state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Catalog catalog.Store // nil disables recording
	Fetcher *source.Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner with the given cache and keyer. A nil cache
// disables caching, a nil keyer uses DefaultKeyer and a nil logger
// discards output. fetchOpts are applied after the cache options.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, fetchOpts ...source.Option) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	opts := append([]source.Option{source.WithCache(c, keyer, cache.FetchTTL)}, fetchOpts...)
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Fetcher: source.NewFetcher(opts...),
		Logger:  logger,
	}
}

// Load runs the open → decode → record pipeline.
func (r *Runner) Load(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	payload, fetchTime, err := r.open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.decode(ctx, opts, payload, fetchTime)
}

// Summarize returns the summary of the graph behind opts. Summaries are
// cached by content hash, so a repeat request for the same bytes skips the
// decode. The bool reports a cache hit.
func (r *Runner) Summarize(ctx context.Context, opts Options) (gt.Summary, bool, error) {
	if err := opts.Validate(); err != nil {
		return gt.Summary{}, false, err
	}
	payload, fetchTime, err := r.open(ctx, opts)
	if err != nil {
		return gt.Summary{}, false, err
	}

	hooks := observability.Cache()
	key := r.Keyer.SummaryKey(cache.Hash(payload.Data), cache.SummaryKeyOpts{Strict: opts.Strict})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var s gt.Summary
			if err := json.Unmarshal(data, &s); err == nil {
				hooks.OnCacheHit(ctx, "summary")
				r.Logger.Debug("summary cache hit", "source", opts.Source)
				return s, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "summary")
	}

	res, err := r.decode(ctx, opts, payload, fetchTime)
	if err != nil {
		return gt.Summary{}, false, err
	}
	s := res.Graph.Summary()
	if data, err := json.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.SummaryTTL); err == nil {
			hooks.OnCacheSet(ctx, "summary", len(data))
		}
	}
	return s, false, nil
}

func (r *Runner) open(ctx context.Context, opts Options) (*source.Payload, time.Duration, error) {
	if opts.Data != nil {
		return &source.Payload{Ref: opts.Source, Data: opts.Data}, 0, nil
	}
	f := r.Fetcher
	if f == nil {
		f = source.NewFetcher(source.WithCache(r.Cache, r.Keyer, cache.FetchTTL))
	}
	if opts.Refresh {
		f = f.With(source.WithRefresh(true))
	}

	start := time.Now()
	payload, err := f.Open(ctx, opts.Source)
	if err != nil {
		return nil, 0, err
	}
	elapsed := time.Since(start)
	r.Logger.Debug("opened source",
		"source", opts.Source,
		"kind", payload.Kind,
		"bytes", len(payload.Data),
		"cached", payload.Cached,
		"duration", elapsed)
	return payload, elapsed, nil
}

func (r *Runner) decode(ctx context.Context, opts Options, payload *source.Payload, fetchTime time.Duration) (*Result, error) {
	hooks := observability.Decode()
	raw := payload.Data
	stats := Stats{
		InputBytes:  len(raw),
		Compression: decompress.Detect(raw).String(),
		FetchCached: payload.Cached,
		FetchTime:   fetchTime,
	}
	hooks.OnDecodeStart(ctx, opts.Source, len(raw))

	start := time.Now()
	file, decoded, err := decodeRaw(raw, opts)
	stats.DecodeTime = time.Since(start)
	stats.DecodedBytes = decoded

	ds := observability.DecodeStats{
		Compression:  stats.Compression,
		InputBytes:   stats.InputBytes,
		DecodedBytes: stats.DecodedBytes,
		Duration:     stats.DecodeTime,
	}
	if file != nil {
		ds.Vertices = file.VertexCount()
		ds.Edges = file.EdgeCount()
		ds.Properties = len(file.Properties())
	}
	hooks.OnDecodeComplete(ctx, opts.Source, ds, err)
	if err != nil {
		r.Logger.Debug("decode failed", "source", opts.Source, "err", err)
		return nil, err
	}

	res := &Result{
		Graph: graph.New(file),
		Hash:  cache.Hash(raw),
		URL:   payload.URL,
		Stats: stats,
	}
	r.Logger.Debug("decoded graph",
		"source", opts.Source,
		"compression", stats.Compression,
		"vertices", file.VertexCount(),
		"edges", file.EdgeCount(),
		"properties", len(file.Properties()),
		"duration", stats.DecodeTime)

	r.record(ctx, opts, res)
	return res, nil
}

func decodeRaw(raw []byte, opts Options) (*gt.GraphFile, int, error) {
	data, _, err := decompress.Decompress(raw, decompress.WithMaxOutput(opts.maxDecompressed()))
	if err != nil {
		return nil, 0, err
	}
	file, err := gt.Parse(data, gt.WithStrict(opts.Strict))
	return file, len(data), err
}

// record stores a catalog entry. Failures are logged, never returned: the
// graph is already decoded.
func (r *Runner) record(ctx context.Context, opts Options, res *Result) {
	if r.Catalog == nil {
		return
	}
	rec := catalog.Record{
		Hash:        res.Hash,
		Ref:         opts.Source,
		Compression: res.Stats.Compression,
		InputBytes:  res.Stats.InputBytes,
		Summary:     res.Graph.Summary(),
		DecodedAt:   time.Now().UTC(),
	}
	if err := r.Catalog.Put(ctx, rec); err != nil {
		r.Logger.Warn("catalog record failed", "source", opts.Source, "err", err)
	}
}
