package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spritepack/pkg/cache"
	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/layout"
	"github.com/matzehuels/spritepack/pkg/observability"
	"github.com/matzehuels/spritepack/pkg/pack"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// Cache key types reported to observability hooks.
const (
	keyTypePlacement = "placement"
	keyTypeSheet     = "sheet"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
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

// Build runs the complete layout → draw pipeline with caching.
func (r *Runner) Build(ctx context.Context, sources []sprite.Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no images to pack")
	}

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	p, layoutHit, err := r.LayoutWithCacheInfo(ctx, sprite.Modules(sources), opts)
	if err != nil {
		return nil, err
	}
	result.Placement = p
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	layoutJSON, err := layout.Marshal(p)
	if err != nil {
		return nil, err
	}
	result.LayoutJSON = layoutJSON

	r.Logger.Info("computed layout",
		"modules", len(p.Modules),
		"width", p.Width,
		"height", p.Height,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Sheet
	drawStart := time.Now()
	sheet, sheetHit, err := r.SheetWithCacheInfo(ctx, p, layoutJSON, sources, opts)
	if err != nil {
		return nil, err
	}
	result.PNG = sheet.PNG
	result.CSS = sheet.CSS
	result.Stats.DrawTime = time.Since(drawStart)
	result.CacheInfo.SheetHit = sheetHit

	result.Stats.Modules = len(p.Modules)
	result.Stats.Width = p.Width
	result.Stats.Height = p.Height
	result.Stats.Utilization = p.Utilization()

	r.Logger.Info("drew sheet",
		"bytes", len(sheet.PNG),
		"cached", sheetHit,
		"duration", result.Stats.DrawTime)

	return result, nil
}

// LayoutWithCacheInfo packs mods with caching and returns cache hit info.
// The placement is keyed by module ids and sizes, so identical requests
// never pack twice.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, mods []pack.Module, opts Options) (pack.Placement, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return pack.Placement{}, false, err
	}
	if len(mods) > opts.MaxModules {
		return pack.Placement{}, false, errors.New(errors.ErrCodeInvalidInput,
			"%d images exceed the limit of %d", len(mods), opts.MaxModules)
	}
	if err := pack.Validate(mods); err != nil {
		return pack.Placement{}, false, err
	}

	cacheKey := r.Keyer.PlacementKey(DimsHash(mods), opts.PlacementKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypePlacement)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, keyTypePlacement)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	observability.Pack().OnPackStart(ctx, len(mods))
	p, err := packAsync(ctx, mods,
		pack.WithContext(ctx),
		pack.WithPadding(opts.Padding),
		pack.WithLogger(opts.Logger))
	observability.Pack().OnPackComplete(ctx, len(mods), p.Width, p.Height, time.Since(start), err)
	if err != nil {
		return pack.Placement{}, false, err
	}

	// Cache the result
	if data, err := layout.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPlacement); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypePlacement, len(data))
		}
	}

	return p, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, mods []pack.Module, opts Options) (pack.Placement, error) {
	p, _, err := r.LayoutWithCacheInfo(ctx, mods, opts)
	return p, err
}

// Sheet is an encoded sprite sheet and its stylesheet.
type Sheet struct {
	PNG []byte `json:"png"`
	CSS string `json:"css"`
}

// SheetWithCacheInfo draws p and generates its CSS with caching. Sources
// without a content digest are always drawn fresh since their pixels cannot
// be keyed.
func (r *Runner) SheetWithCacheInfo(ctx context.Context, p pack.Placement, layoutJSON []byte, sources []sprite.Source, opts Options) (Sheet, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Sheet{}, false, err
	}

	content := ContentHash(sources)
	cacheKey := ""
	if content != "" {
		cacheKey = r.Keyer.SheetKey(cache.Hash(layoutJSON), opts.SheetKeyOpts(content))
	}

	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Sheet
			if err := json.Unmarshal(data, &cached); err == nil && len(cached.PNG) > 0 {
				observability.Cache().OnCacheHit(ctx, keyTypeSheet)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeSheet)
	}

	start := time.Now()
	observability.Pack().OnDrawStart(ctx, len(p.Modules))
	sheet, err := render(p, sources, opts)
	observability.Pack().OnDrawComplete(ctx, len(sheet.PNG), time.Since(start), err)
	if err != nil {
		return Sheet{}, false, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(sheet); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSheet); err != nil {
				r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, keyTypeSheet, len(data))
			}
		}
	}

	return sheet, false, nil
}

func render(p pack.Placement, sources []sprite.Source, opts Options) (Sheet, error) {
	s, err := sprite.Render(p, sources, opts.CSSOptions())
	if err != nil {
		return Sheet{}, err
	}
	png, err := s.PNG()
	if err != nil {
		return Sheet{}, err
	}
	return Sheet{PNG: png, CSS: s.CSS}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// DimsHash hashes module ids and sizes in order. Offsets are ignored since
// packing overwrites them.
func DimsHash(mods []pack.Module) string {
	dims := make([]layout.Dim, len(mods))
	for i, m := range mods {
		dims[i] = layout.Dim{ID: m.ID, Width: m.Width, Height: m.Height}
	}
	data, _ := json.Marshal(dims)
	return cache.Hash(data)
}

// ContentHash combines the digests of sources. It returns "" when any source
// has no digest.
func ContentHash(sources []sprite.Source) string {
	var b strings.Builder
	for _, s := range sources {
		if s.Digest == "" {
			return ""
		}
		b.WriteString(s.ID)
		b.WriteByte('=')
		b.WriteString(s.Digest)
		b.WriteByte('\n')
	}
	return cache.Hash([]byte(b.String()))
}
