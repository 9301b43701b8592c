package sprite

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Register decoders with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

// Pixel budgets. Tiles and sheets are held as NRGBA, 4 bytes per pixel, and
// compressed formats can describe far more pixels than they occupy, so
// sizes are checked before anything is allocated.
const (
	// MaxImagePixels bounds one decoded image (64 MiB).
	MaxImagePixels = 1 << 24
	// MaxSheetPixels bounds a sheet canvas (256 MiB). The tiles of a sheet
	// never cover more than its canvas, so it also bounds their total.
	MaxSheetPixels = 1 << 26
)

// Source is one decoded input image.
type Source struct {
	// ID names the tile in the placement and the stylesheet.
	ID string
	// Format is the codec name reported by the decoder ("png", "webp", ...).
	Format string
	// Digest is the hex SHA-256 of the encoded bytes. It is empty for
	// sources built in memory.
	Digest string
	Image  image.Image
}

// Size returns the image's width and height.
func (s Source) Size() (int, int) {
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Extensions lists the file extensions Load recognizes when scanning
// directories or globs.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// IsImagePath reports whether path has one of the recognized extensions.
func IsImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IDFromPath derives a tile ID from a file name: the base name without its
// extension. "icons/arrow-left.png" becomes "arrow-left".
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decode reads one image. The header is checked before the pixels are
// decoded so oversized images are rejected without allocating them.
func Decode(id string, r io.Reader) (Source, error) {
	if err := errors.ValidateModuleID(id); err != nil {
		return Source{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Source{}, errors.Wrap(errors.ErrCodeDecode, err, "read %s", id)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Source{}, errors.Wrap(errors.ErrCodeDecode, err, "decode %s header", id)
	}
	if err := errors.ValidateDimensions(id, cfg.Width, cfg.Height); err != nil {
		return Source{}, err
	}
	if px := cfg.Width * cfg.Height; px > MaxImagePixels {
		return Source{}, errors.New(errors.ErrCodeInvalidInput,
			"image %q is too large: %dx%d is %d pixels (max %d)", id, cfg.Width, cfg.Height, px, MaxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Source{}, errors.Wrap(errors.ErrCodeDecode, err, "decode %s as %s", id, format)
	}
	sum := sha256.Sum256(data)
	return Source{ID: id, Format: format, Digest: hex.EncodeToString(sum[:]), Image: img}, nil
}

// Load opens and decodes the file at path. The ID is derived with
// [IDFromPath].
func Load(path string) (Source, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Source{}, errors.New(errors.ErrCodeFileNotFound, "image not found: %s", path)
	}
	if err != nil {
		return Source{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(IDFromPath(path), f)
}

// LoadAll loads every path in order. Two files mapping to the same ID are
// rejected, since their CSS rules would collide.
func LoadAll(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		id := IDFromPath(p)
		if prev, dup := seen[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s and %s both map to image id %q", prev, p, id)
		}
		seen[id] = p

		src, err := Load(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Modules returns the packer input for sources, in the same order.
func Modules(sources []Source) []pack.Module {
	mods := make([]pack.Module, len(sources))
	for i, s := range sources {
		w, h := s.Size()
		mods[i] = pack.Module{ID: s.ID, Width: w, Height: h}
	}
	return mods
}
