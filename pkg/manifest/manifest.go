// Package manifest loads spritepack.toml files describing one sprite sheet.
//
// A manifest names the sheet, lists its images (explicitly, by glob, or
// both) and carries the options that would otherwise be CLI flags:
//
//	name         = "icons"
//	output       = "dist"
//	class_prefix = "icon-"
//	url          = "/static/icons.png"
//	padding      = 2
//	images       = ["logo.png"]
//	globs        = ["icons/*.png", "flags/*.webp"]
//
// Paths are relative to the manifest's directory.
package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// FileName is the manifest name the CLI looks for in a directory.
const FileName = "spritepack.toml"

// MaxPadding bounds the per-tile padding.
const MaxPadding = 256

// Manifest describes one sprite sheet.
type Manifest struct {
	Name        string   `toml:"name"`
	Output      string   `toml:"output"`
	ClassPrefix string   `toml:"class_prefix"`
	URL         string   `toml:"url"`
	Padding     int      `toml:"padding"`
	Images      []string `toml:"images"`
	Globs       []string `toml:"globs"`

	// dir is the directory the manifest was loaded from.
	dir string
}

// Load reads and validates a manifest. Unknown keys are rejected so typos
// like "pading" do not silently fall back to defaults.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "manifest not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	m, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", path)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates manifest text. Relative paths resolve against
// the current directory until the manifest is given a base with [Manifest.SetDir].
func Parse(text string) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(text, &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown keys: %s", strings.Join(keys, ", "))
	}
	m.dir = "."
	m.SetDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetDir sets the directory relative paths are resolved against.
func (m *Manifest) SetDir(dir string) { m.dir = dir }

// Dir returns the directory relative paths are resolved against.
func (m *Manifest) Dir() string { return m.dir }

// SetDefaults fills Output and URL when they are empty.
func (m *Manifest) SetDefaults() {
	if m.Output == "" {
		m.Output = "."
	}
	if m.URL == "" && m.Name != "" {
		m.URL = m.Name + ".png"
	}
}

// Validate checks the manifest. Every failure carries
// [errors.ErrCodeInvalidManifest].
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "name is required")
	}
	if strings.ContainsAny(m.Name, `/\`) || m.Name == "." || m.Name == ".." {
		return errors.New(errors.ErrCodeInvalidManifest, "name %q must be a plain file name", m.Name)
	}
	if m.Padding < 0 || m.Padding > MaxPadding {
		return errors.New(errors.ErrCodeInvalidManifest, "padding %d out of range [0,%d]", m.Padding, MaxPadding)
	}
	if err := errors.ValidateClassPrefix(m.ClassPrefix); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "class_prefix")
	}
	if m.URL != "" {
		if err := errors.ValidateSheetURL(m.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "url")
		}
	}
	if len(m.Images) == 0 && len(m.Globs) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "at least one of images or globs is required")
	}
	for _, p := range m.Images {
		if err := errors.ValidatePath(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "image %q", p)
		}
	}
	for _, g := range m.Globs {
		if err := errors.ValidatePath(g); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "glob %q", g)
		}
		if _, err := filepath.Match(g, ""); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "glob %q", g)
		}
	}
	return nil
}

// Resolve returns the image files of the sheet: explicit images first in
// the listed order, then each glob's matches sorted by name. Duplicates keep
// their first position and glob matches without an image extension are
// skipped. An explicit image that does not exist is an error.
func (m *Manifest) Resolve() ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, img := range m.Images {
		p := filepath.Join(m.dir, img)
		if _, err := os.Stat(p); err != nil {
			return nil, errors.New(errors.ErrCodeFileNotFound, "image not found: %s", p)
		}
		add(p)
	}
	for _, g := range m.Globs {
		matches, err := filepath.Glob(filepath.Join(m.dir, g))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "glob %q", g)
		}
		slices.Sort(matches)
		for _, p := range matches {
			if sprite.IsImagePath(p) {
				add(p)
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "manifest %q matched no images", m.Name)
	}
	return out, nil
}

// OutputPath returns where the artifact with the given extension is written,
// e.g. OutputPath(".css").
func (m *Manifest) OutputPath(ext string) string {
	return filepath.Join(m.dir, m.Output, m.Name+ext)
}
