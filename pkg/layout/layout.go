// Package layout reads and writes placements as JSON.
//
// The format is the contract between spritepack and anything that consumes
// a sheet without the generated CSS (game engines, canvas renderers):
//
//	{
//	  "version": 1,
//	  "width": 100,
//	  "height": 80,
//	  "modules": [
//	    {"id": "logo", "width": 100, "height": 50, "x": 0, "y": 30},
//	    {"id": "icon", "width": 30, "height": 30, "x": 0, "y": 0}
//	  ]
//	}
//
// The same package reads the size-only input accepted by "spritepack
// layout" and POST /v1/pack: either a bare array of {"id","width","height"}
// objects or an object with a "modules" array.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

// Version is the current layout format version.
const Version = 1

type document struct {
	Version int           `json:"version"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Modules []pack.Module `json:"modules"`
}

// Marshal encodes p as indented JSON.
func Marshal(p pack.Placement) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON encodes p as indented JSON and writes it to w.
func WriteJSON(p pack.Placement, w io.Writer) error {
	doc := document{
		Version: Version,
		Width:   p.Width,
		Height:  p.Height,
		Modules: p.Modules,
	}
	if doc.Modules == nil {
		doc.Modules = []pack.Module{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes p to a JSON file at path.
func ExportJSON(p pack.Placement, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Unmarshal decodes a layout from data. See [ReadJSON].
func Unmarshal(data []byte) (pack.Placement, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ReadJSON decodes a layout and checks it is geometrically sound: module
// IDs are valid and unique, nothing overlaps and the canvas matches the
// modules. A layout written by a newer format version is rejected.
//
// All failures carry [errors.ErrCodeInvalidFormat].
func ReadJSON(r io.Reader) (pack.Placement, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return pack.Placement{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if doc.Version > Version {
		return pack.Placement{}, errors.New(errors.ErrCodeInvalidFormat,
			"layout version %d is newer than supported version %d", doc.Version, Version)
	}
	if err := pack.Validate(doc.Modules); err != nil {
		return pack.Placement{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout modules")
	}

	p := pack.Placement{Modules: doc.Modules, Width: doc.Width, Height: doc.Height}
	if p.Modules == nil {
		p.Modules = []pack.Module{}
	}
	if err := p.Validate(); err != nil {
		return pack.Placement{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout geometry")
	}
	return p, nil
}

// ImportJSON reads a layout file at path.
func ImportJSON(path string) (pack.Placement, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return pack.Placement{}, errors.New(errors.ErrCodeFileNotFound, "layout not found: %s", path)
	}
	if err != nil {
		return pack.Placement{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
