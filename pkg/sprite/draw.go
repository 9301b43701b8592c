package sprite

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

// Draw composites every source onto a transparent canvas the size of p.
//
// Each module is drawn with the Src operator so transparent pixels in a tile
// stay transparent in the sheet. Draw fails without returning an image if a
// module has no source or its source is not exactly the module's size, or
// when the canvas would exceed [MaxSheetPixels].
func Draw(p pack.Placement, sources []Source) (*image.NRGBA, error) {
	if px := p.Width * p.Height; px > MaxSheetPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"sheet %dx%d is %d pixels (max %d)", p.Width, p.Height, px, MaxSheetPixels)
	}
	byID := make(map[string]Source, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for _, m := range p.Modules {
		src, ok := byID[m.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no source image for %q", m.ID)
		}
		if w, h := src.Size(); w != m.Width || h != m.Height {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"image %q is %dx%d but the layout reserves %dx%d", m.ID, w, h, m.Width, m.Height)
		}
		if m.Area() == 0 {
			continue
		}
		draw.Draw(canvas, m.Rect(), src.Image, src.Image.Bounds().Min, draw.Src)
	}
	return canvas, nil
}

// EncodePNG writes img as a PNG using best compression; sheets are written
// once and downloaded many times.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode png")
	}
	return nil
}
