package sprite

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func pair() []Source {
	return []Source{
		{ID: "logo", Format: "png", Image: solid(100, 50, red)},
		{ID: "icon", Format: "png", Image: solid(30, 30, blue)},
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	var bmpBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, solid(4, 3, red)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		data       []byte
		wantFormat string
	}{
		{"PNG", encodePNG(t, solid(4, 3, red)), "png"},
		{"BMP", bmpBuf.Bytes(), "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Decode("tile", bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if src.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", src.Format, tt.wantFormat)
			}
			if w, h := src.Size(); w != 4 || h != 3 {
				t.Errorf("Size = %dx%d, want 4x3", w, h)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("junk", strings.NewReader("not an image"))
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("garbage: code = %v, want %v", errors.GetCode(err), errors.ErrCodeDecode)
	}

	_, err = Decode("", bytes.NewReader(encodePNG(t, solid(1, 1, red))))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty id: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

// pngHeader returns a PNG holding only its signature and IHDR chunk: enough
// for image.DecodeConfig, and a few bytes however large the image claims to be.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 4+13)
	copy(ihdr, "IHDR")
	binary.BigEndian.PutUint32(ihdr[4:], w)
	binary.BigEndian.PutUint32(ihdr[8:], h)
	ihdr[12] = 8 // bit depth; colour type 0 is grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(ihdr)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr))
	return buf.Bytes()
}

func TestDecodePixelBudget(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
	}{
		{"Square", 8192, 8192},
		{"MaxSides", errors.MaxDimension, errors.MaxDimension},
		{"JustOver", 4097, 4096},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("huge", bytes.NewReader(pngHeader(tt.w, tt.h)))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v (err %v)", errors.GetCode(err), errors.ErrCodeInvalidInput, err)
			}
		})
	}

	// At the budget the header passes and decoding proceeds; this header has
	// no pixel data, so it fails as a decode error instead.
	_, err := Decode("edge", bytes.NewReader(pngHeader(4096, 4096)))
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("4096x4096: code = %v, want %v", errors.GetCode(err), errors.ErrCodeDecode)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arrow-left.png")
	if err := os.WriteFile(path, encodePNG(t, solid(8, 6, blue)), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.ID != "arrow-left" {
		t.Errorf("ID = %q, want arrow-left", src.ID)
	}

	_, err = Load(filepath.Join(dir, "missing.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestLoadAllDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "sub/a.png"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, encodePNG(t, solid(2, 2, red)), 0644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := LoadAll([]string{filepath.Join(dir, "a.png"), filepath.Join(dir, "sub/a.png")})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestIsImagePath(t *testing.T) {
	for path, want := range map[string]bool{
		"a.png":        true,
		"b.JPG":        true,
		"c.webp":       true,
		"d.bmp":        true,
		"e.svg":        false,
		"f":            false,
		"dir/g.gif":    true,
		"spritepack.t": false,
	} {
		if got := IsImagePath(path); got != want {
			t.Errorf("IsImagePath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestModules(t *testing.T) {
	mods := Modules(pair())
	if len(mods) != 2 {
		t.Fatalf("got %d modules", len(mods))
	}
	if mods[0] != (pack.Module{ID: "logo", Width: 100, Height: 50}) {
		t.Errorf("mods[0] = %+v", mods[0])
	}
	if mods[1] != (pack.Module{ID: "icon", Width: 30, Height: 30}) {
		t.Errorf("mods[1] = %+v", mods[1])
	}
}

func TestDraw(t *testing.T) {
	sources := pair()
	p, err := pack.Pack(Modules(sources))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	img, err := Draw(p, sources)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if b := img.Bounds(); b.Dx() != p.Width || b.Dy() != p.Height {
		t.Fatalf("canvas %v, want %dx%d", b, p.Width, p.Height)
	}

	logo, _ := p.Lookup("logo")
	icon, _ := p.Lookup("icon")
	if got := img.NRGBAAt(logo.X+5, logo.Y+5); got != red {
		t.Errorf("logo pixel = %v, want red", got)
	}
	if got := img.NRGBAAt(icon.X+5, icon.Y+5); got != blue {
		t.Errorf("icon pixel = %v, want blue", got)
	}

	// Anything not covered by a tile stays transparent.
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			pt := image.Pt(x, y)
			if pt.In(logo.Rect()) || pt.In(icon.Rect()) {
				continue
			}
			if a := img.NRGBAAt(x, y).A; a != 0 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 0", x, y, a)
			}
		}
	}
}

func TestDrawFailures(t *testing.T) {
	p := pack.NewPlacement([]pack.Module{{ID: "logo", Width: 100, Height: 50}})

	if _, err := Draw(p, nil); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing source: code = %v, want %v", errors.GetCode(err), errors.ErrCodeNotFound)
	}

	wrong := []Source{{ID: "logo", Image: solid(10, 10, red)}}
	if _, err := Draw(p, wrong); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("size mismatch: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestDrawCanvasBudget(t *testing.T) {
	// Two thin strips: each tile is small but the canvas spans both sides.
	p := pack.NewPlacement([]pack.Module{
		{ID: "row", Width: errors.MaxDimension, Height: 1},
		{ID: "col", Width: 1, Height: errors.MaxDimension, Y: 1},
	})
	if p.Width*p.Height <= MaxSheetPixels {
		t.Fatalf("canvas %dx%d is within budget", p.Width, p.Height)
	}
	_, err := Draw(p, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, solid(3, 2, red)); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded bounds %v", b)
	}

	if err := EncodePNG(&buf, image.NewNRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, errors.ErrCodeEncode) {
		t.Errorf("empty image: code = %v, want %v", errors.GetCode(err), errors.ErrCodeEncode)
	}
}

func TestClassName(t *testing.T) {
	tests := []struct {
		prefix, id, want string
	}{
		{"", "arrow-left", "arrow-left"},
		{"icon-", "arrow_left", "icon-arrow_left"},
		{"icon-", "a b.c", "icon-a-b-c"},
		{"", "2x", "_2x"},
		{"", "-1", "_-1"},
		{"", "café", "caf-"},
		{"", "", "_"},
	}
	for _, tt := range tests {
		if got := ClassName(tt.prefix, tt.id); got != tt.want {
			t.Errorf("ClassName(%q, %q) = %q, want %q", tt.prefix, tt.id, got, tt.want)
		}
	}
}

func TestCSS(t *testing.T) {
	p := pack.NewPlacement([]pack.Module{
		{ID: "logo", Width: 100, Height: 50, Y: 30},
		{ID: "icon", Width: 30, Height: 30},
	})
	css, err := CSS(p, CSSOptions{ClassPrefix: "s-", URL: "/static/sprite.png"})
	if err != nil {
		t.Fatalf("CSS: %v", err)
	}
	want := ".s-logo{background:url(/static/sprite.png) no-repeat 0 -30px;width:100px;height:50px}\n" +
		".s-icon{background:url(/static/sprite.png) no-repeat 0 0;width:30px;height:30px}\n"
	if css != want {
		t.Errorf("CSS =\n%s\nwant\n%s", css, want)
	}
}

func TestCSSErrors(t *testing.T) {
	p := pack.NewPlacement([]pack.Module{
		{ID: "a b", Width: 1, Height: 1},
		{ID: "a-b", Width: 1, Height: 1, X: 1},
	})
	tests := []struct {
		name string
		p    pack.Placement
		opts CSSOptions
	}{
		{"ClassCollision", p, CSSOptions{URL: "s.png"}},
		{"BadPrefix", pack.Placement{}, CSSOptions{ClassPrefix: "1x", URL: "s.png"}},
		{"BadURL", pack.Placement{}, CSSOptions{URL: "my sprite.png"}},
		{"EmptyURL", pack.Placement{}, CSSOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CSS(tt.p, tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	sheet, err := Build(pair(), BuildOptions{
		CSSOptions: CSSOptions{ClassPrefix: "icon-", URL: "sprite.png"},
		Padding:    2,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := sheet.Placement.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if strings.Count(sheet.CSS, "\n") != 2 {
		t.Errorf("expected 2 rules:\n%s", sheet.CSS)
	}
	data, err := sheet.PNG()
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != sheet.Placement.Width || cfg.Height != sheet.Placement.Height {
		t.Errorf("png %dx%d, placement %dx%d", cfg.Width, cfg.Height, sheet.Placement.Width, sheet.Placement.Height)
	}

	if _, err := Build(nil, BuildOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty build: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}
