package sprite

import (
	"bytes"
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

// Sheet is a finished sprite: layout, composite image and stylesheet.
type Sheet struct {
	Placement pack.Placement
	Image     *image.NRGBA
	CSS       string
}

// PNG encodes the sheet image.
func (s *Sheet) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, s.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildOptions configures [Build].
type BuildOptions struct {
	CSSOptions
	// Padding is the transparent gap kept right of and below every tile.
	Padding int
	Logger  *log.Logger
}

// Build packs sources, draws the sheet and generates its stylesheet.
func Build(sources []Source, opts BuildOptions) (*Sheet, error) {
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no images to pack")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	p, err := pack.Pack(Modules(sources), pack.WithPadding(opts.Padding), pack.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return Render(p, sources, opts.CSSOptions)
}

// Render draws an existing placement and generates its stylesheet.
func Render(p pack.Placement, sources []Source, opts CSSOptions) (*Sheet, error) {
	css, err := CSS(p, opts)
	if err != nil {
		return nil, err
	}
	img, err := Draw(p, sources)
	if err != nil {
		return nil, err
	}
	return &Sheet{Placement: p, Image: img, CSS: css}, nil
}
