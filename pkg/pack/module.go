package pack

import (
	"image"

	"github.com/matzehuels/spritepack/pkg/errors"
)

// Root is the index of the synthetic root module. It sits at the origin with
// zero size and never appears in a module slice.
const Root = -1

// Module is a single rectangle to be packed.
//
// Width and Height come from the source image and are never changed by the
// packer. X and Y are the pixel offset of the module's origin; they start at
// zero and are assigned while decoding a tree.
type Module struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Area returns Width*Height.
func (m Module) Area() int { return m.Width * m.Height }

// Right returns the x coordinate just past the module's right edge.
func (m Module) Right() int { return m.X + m.Width }

// Top returns the y coordinate just past the module's far edge.
func (m Module) Top() int { return m.Y + m.Height }

// Rect returns the module's area as an image rectangle.
func (m Module) Rect() image.Rectangle {
	return image.Rect(m.X, m.Y, m.Right(), m.Top())
}

// Overlaps reports whether m and o share a region of positive area.
// Degenerate modules (zero width or height) never overlap anything.
func (m Module) Overlaps(o Module) bool {
	if m.Area() == 0 || o.Area() == 0 {
		return false
	}
	return m.X < o.Right() && o.X < m.Right() && m.Y < o.Top() && o.Y < m.Top()
}

// Validate checks that mods can be packed: every ID is valid and unique and
// every size is non-negative.
func Validate(mods []Module) error {
	seen := make(map[string]struct{}, len(mods))
	for _, m := range mods {
		if err := errors.ValidateModuleID(m.ID); err != nil {
			return err
		}
		if err := errors.ValidateDimensions(m.ID, m.Width, m.Height); err != nil {
			return err
		}
		if _, dup := seen[m.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate image id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}
