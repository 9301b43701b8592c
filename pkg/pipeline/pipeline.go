// Package pipeline is the one place that turns images into a sprite sheet.
//
// The CLI and the HTTP server both go through a [Runner] so they share
// defaults, validation, caching and logging. A run has two stages:
//
//  1. Layout: pack the image sizes into a placement (cached by size hash).
//  2. Sheet: draw the PNG and generate the CSS (cached by layout hash and
//     source content).
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	sources, _ := sprite.LoadAll(paths)
//	result, err := runner.Build(ctx, sources, pipeline.Options{Name: "icons"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("icons.png", result.PNG, 0644)
//
// # Cancellation
//
// The packer itself cannot be interrupted. The runner packs on a separate
// goroutine and returns ctx.Err() as soon as ctx is done; the abandoned
// goroutine finishes in the background and its result is dropped.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spritepack/pkg/cache"
	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultName is the base name of the generated files.
	DefaultName = "sprite"

	// DefaultTimeout bounds a single run. Greedy packing grows roughly with
	// the cube of the image count, so a runaway input should fail rather
	// than pin a CPU.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxModules caps the number of images in one sheet. It is sized
	// to finish well inside DefaultTimeout: 150 images pack in about 14s,
	// and every 25% more images roughly doubles that. Raise both together.
	DefaultMaxModules = 150

	// MaxPadding bounds the per-tile padding.
	MaxPadding = 256
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Padding    int  `json:"padding,omitempty"`
	MaxModules int  `json:"max_modules,omitempty"`
	Refresh    bool `json:"refresh,omitempty"`

	// Sheet options
	Name        string `json:"name,omitempty"`
	ClassPrefix string `json:"class_prefix,omitempty"`
	URL         string `json:"url,omitempty"`

	// Runtime options (not serialized)
	Timeout time.Duration `json:"-"`
	Logger  *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks every field and applies defaults for a full
// build. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetSheetDefaults()
	if err := errors.ValidateClassPrefix(o.ClassPrefix); err != nil {
		return err
	}
	if err := errors.ValidateSheetURL(o.URL); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for packing.
func (o *Options) SetLayoutDefaults() {
	if o.MaxModules == 0 {
		o.MaxModules = DefaultMaxModules
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and checks the layout options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Padding < 0 || o.Padding > MaxPadding {
		return errors.New(errors.ErrCodeInvalidInput, "padding %d out of range [0,%d]", o.Padding, MaxPadding)
	}
	if o.MaxModules < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_modules must not be negative")
	}
	return nil
}

// SetSheetDefaults sets default values for drawing and CSS generation.
func (o *Options) SetSheetDefaults() {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.URL == "" {
		o.URL = o.Name + ".png"
	}
}

// PlacementKeyOpts returns cache key options for packing.
func (o *Options) PlacementKeyOpts() cache.PlacementKeyOpts {
	return cache.PlacementKeyOpts{Padding: o.Padding}
}

// SheetKeyOpts returns cache key options for a drawn sheet.
func (o *Options) SheetKeyOpts(content string) cache.SheetKeyOpts {
	return cache.SheetKeyOpts{ClassPrefix: o.ClassPrefix, URL: o.URL, Content: content}
}

// CSSOptions returns the stylesheet options.
func (o *Options) CSSOptions() sprite.CSSOptions {
	return sprite.CSSOptions{ClassPrefix: o.ClassPrefix, URL: o.URL}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a build.
type Result struct {
	// Placement is the packed layout, modules in input order.
	Placement pack.Placement

	// LayoutJSON is the placement in the layout file format.
	LayoutJSON []byte

	// PNG is the encoded sheet.
	PNG []byte

	// CSS is the generated stylesheet.
	CSS string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains build statistics.
type Stats struct {
	Modules     int
	Width       int
	Height      int
	Utilization float64
	LayoutTime  time.Duration
	DrawTime    time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool // Whether the placement came from cache
	SheetHit  bool // Whether the PNG and CSS came from cache
}
