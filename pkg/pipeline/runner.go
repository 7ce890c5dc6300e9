package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/feyndraw/pkg/cache"
	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	pkgio "github.com/matzehuels/feyndraw/pkg/io"
	"github.com/matzehuels/feyndraw/pkg/observability"
	"github.com/matzehuels/feyndraw/pkg/tikz"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs parse → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	parseStart := time.Now()
	d, parseHit, err := r.ParseWithCacheInfo(ctx, opts.Source, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Diagram = d
	result.Canonical = tikz.Serialize(d)
	result.Stats.Elements = d.Len()
	result.Stats.ParseTime = time.Since(parseStart)
	result.CacheInfo.ParseHit = parseHit

	r.Logger.Info("parsed diagram",
		"elements", d.Len(),
		"cached", parseHit,
		"duration", result.Stats.ParseTime)

	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.render(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.DiagramHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"view", opts.View,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses text, using the cached JSON form of an earlier
// parse of the same text when available. Parse failures are never cached.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, text string, refresh bool) (*diagram.Diagram, bool, error) {
	key := r.Keyer.DiagramKey(cache.Hash([]byte(text)))

	hooks := observability.Cache()

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		} else if hit {
			if d, err := pkgio.ReadJSON(bytes.NewReader(data)); err == nil {
				hooks.OnCacheHit(ctx, observability.KeyDiagram)
				return d, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
		hooks.OnCacheMiss(ctx, observability.KeyDiagram)
	}

	pipe := observability.Pipeline()
	pipe.OnParseStart(ctx, len(text))
	start := time.Now()
	d, err := tikz.Parse(text)
	if err != nil {
		pipe.OnParseComplete(ctx, 0, time.Since(start), err)
		return nil, false, err
	}
	pipe.OnParseComplete(ctx, d.Len(), time.Since(start), nil)

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(d, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), TTLDiagram); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, observability.KeyDiagram, buf.Len())
		}
	}
	return d, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, text string) (*diagram.Diagram, error) {
	d, _, err := r.ParseWithCacheInfo(ctx, text, false)
	return d, err
}

// Format parses text and returns its canonical serialization.
func (r *Runner) Format(ctx context.Context, text string) (string, error) {
	d, err := r.Parse(ctx, text)
	if err != nil {
		return "", err
	}
	return tikz.Serialize(d), nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *diagram.Diagram, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.render(ctx, d, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *diagram.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

// render expects validated options.
func (r *Runner) render(ctx context.Context, d *diagram.Diagram, opts Options) (map[string][]byte, string, bool, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(d, &buf); err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize diagram for cache key")
	}
	hash := cache.Hash(buf.Bytes())

	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		if hit {
			hooks.OnCacheHit(ctx, observability.KeyArtifact)
			artifacts[format] = data
		} else {
			hooks.OnCacheMiss(ctx, observability.KeyArtifact)
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		return artifacts, hash, true, nil
	}

	partial := opts
	partial.Formats = missing
	pipe := observability.Pipeline()
	pipe.OnRenderStart(ctx, opts.View, missing)
	start := time.Now()
	rendered, err := Render(d, partial)
	pipe.OnRenderComplete(ctx, opts.View, missing, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	ttl := TTLArtifact
	if opts.TTL > 0 {
		ttl = opts.TTL
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, observability.KeyArtifact, len(data))
		}
	}
	return artifacts, hash, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
