package pack

import (
	"github.com/matzehuels/spritepack/pkg/errors"
)

// Placement is a finished arrangement: every module with its assigned offset
// plus the bounding canvas size.
//
// Width is the maximum Right() over all modules and Height the maximum Top().
// A Placement is a value; the packer never touches it after returning it.
type Placement struct {
	Modules []Module `json:"modules"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
}

// NewPlacement copies mods and computes the bounding size.
// An empty input yields a 0x0 placement with an empty module list.
func NewPlacement(mods []Module) Placement {
	p := Placement{Modules: make([]Module, len(mods))}
	copy(p.Modules, mods)
	for _, m := range mods {
		p.Width = max(p.Width, m.Right())
		p.Height = max(p.Height, m.Top())
	}
	return p
}

// placementOf builds a placement from the modules referenced by t, in
// ascending module index order.
func placementOf(t Tree, mods []Module) Placement {
	in := make([]bool, len(mods))
	for _, i := range t.Order {
		in[i] = true
	}
	picked := make([]Module, 0, len(t.Order))
	for i, ok := range in {
		if ok {
			picked = append(picked, mods[i])
		}
	}
	return NewPlacement(picked)
}

// Perimeter returns the half-perimeter Width+Height, the score the greedy
// builder minimizes.
func (p Placement) Perimeter() int { return p.Width + p.Height }

// Area returns the canvas area Width*Height.
func (p Placement) Area() int { return p.Width * p.Height }

// Utilization returns the fraction of the canvas covered by modules.
func (p Placement) Utilization() float64 {
	if p.Area() == 0 {
		return 0
	}
	used := 0
	for _, m := range p.Modules {
		used += m.Area()
	}
	return float64(used) / float64(p.Area())
}

// Lookup returns the module with the given ID.
func (p Placement) Lookup(id string) (Module, bool) {
	for _, m := range p.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// Validate checks the geometric guarantees of a placement: all offsets are
// non-negative, no two modules overlap and the canvas size matches the
// modules' extent. A failure here is a packer bug, so the error carries
// [errors.ErrCodeInternal].
func (p Placement) Validate() error {
	w, h := 0, 0
	for i, m := range p.Modules {
		if m.X < 0 || m.Y < 0 {
			return errors.New(errors.ErrCodeInternal, "module %q at negative offset (%d,%d)", m.ID, m.X, m.Y)
		}
		for _, o := range p.Modules[i+1:] {
			if m.Overlaps(o) {
				return errors.New(errors.ErrCodeInternal, "modules %q and %q overlap", m.ID, o.ID)
			}
		}
		w = max(w, m.Right())
		h = max(h, m.Top())
	}
	if w != p.Width || h != p.Height {
		return errors.New(errors.ErrCodeInternal, "canvas %dx%d does not match module extent %dx%d", p.Width, p.Height, w, h)
	}
	return nil
}
