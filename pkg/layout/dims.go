package layout

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

// Request is the size-only packing input.
type Request struct {
	Modules []Dim `json:"modules"`
	Padding int   `json:"padding,omitempty"`
}

// Dim is one image size. Offsets, if present, are ignored.
type Dim struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ReadRequest decodes either a Request object or a bare array of Dim.
// Sizes are validated the same way [pack.Pack] validates them.
func ReadRequest(r io.Reader) (Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Request{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read request")
	}
	data = bytes.TrimSpace(data)

	var req Request
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &req.Modules)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return Request{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	if req.Padding < 0 {
		return Request{}, errors.New(errors.ErrCodeInvalidInput, "padding must not be negative")
	}
	if err := pack.Validate(req.PackModules()); err != nil {
		return Request{}, err
	}
	return req, nil
}

// PackModules converts the request into packer input.
func (r Request) PackModules() []pack.Module {
	mods := make([]pack.Module, len(r.Modules))
	for i, d := range r.Modules {
		mods[i] = pack.Module{ID: d.ID, Width: d.Width, Height: d.Height}
	}
	return mods
}
