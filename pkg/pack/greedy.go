package pack

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// Option configures [Pack] and [Greedy].
type Option func(*options)

type options struct {
	ctx     context.Context
	logger  *log.Logger
	padding int
}

func newOptions(opts []Option) options {
	o := options{ctx: context.Background(), logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for per-insertion debug output.
// The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithContext stops packing with ctx.Err() once ctx is done. The context is
// checked between module insertions only; a compaction in progress always
// runs to completion.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithPadding reserves p transparent pixels right of and below every
// module so neighbouring tiles never bleed into each other when scaled.
// The padding is not part of the returned module sizes.
func WithPadding(p int) Option {
	return func(o *options) { o.padding = max(p, 0) }
}

// SortByArea returns a copy of mods ordered by decreasing area. The sort is
// stable: modules of equal area keep their input order.
func SortByArea(mods []Module) []Module {
	sorted := slices.Clone(mods)
	slices.SortStableFunc(sorted, byArea)
	return sorted
}

func byArea(a, b Module) int {
	return cmp.Compare(b.Area(), a.Area())
}

// Greedy builds a tree by inserting mods in the given order. For each module
// every insertion point of the current tree is tried on a copy, the copy is
// compacted, and the candidate with the smallest half-perimeter is kept
// (the earliest insertion point wins ties). The committed tree is compacted
// once more before returning.
//
// Coordinates are written into mods. Callers normally want [Pack], which
// sorts and validates the input first.
func Greedy(mods []Module, opts ...Option) (Result, error) {
	o := newOptions(opts)
	var cur Tree

	for i := range mods {
		if err := o.ctx.Err(); err != nil {
			return Result{}, err
		}
		var best Result
		found := false
		tried := 0
		for p := range cur.InsertionPoints() {
			cand := cur.Copy()
			cand.Insert(i, p)
			res, err := Compact(cand, mods)
			if err != nil {
				return Result{}, err
			}
			tried++
			if !found || res.Placement.Perimeter() < best.Placement.Perimeter() {
				best, found = res, true
			}
		}
		cur = best.Tree
		o.logger.Debug("inserted module",
			"id", mods[i].ID,
			"candidates", tried,
			"width", best.Placement.Width,
			"height", best.Placement.Height)
	}

	return Compact(cur, mods)
}

// Pack validates mods, packs them and returns the placement with modules in
// input order. Input X/Y values are ignored; mods is not modified.
//
// An empty input yields a 0x0 placement. Invalid input (empty or duplicate
// IDs, negative sizes) is reported with [errors.ErrCodeInvalidInput].
func Pack(mods []Module, opts ...Option) (Placement, error) {
	if err := Validate(mods); err != nil {
		return Placement{}, err
	}
	o := newOptions(opts)
	if len(mods) == 0 {
		return NewPlacement(nil), nil
	}

	// Zero-area modules take no room; they stay at the origin and never
	// enter the tree. The rest are sorted as indices so results can be put
	// back in input order.
	var order []int
	for i, m := range mods {
		if (m.Width+o.padding)*(m.Height+o.padding) > 0 {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int { return byArea(mods[a], mods[b]) })

	work := make([]Module, len(order))
	for k, i := range order {
		work[k] = Module{
			ID:     mods[i].ID,
			Width:  mods[i].Width + o.padding,
			Height: mods[i].Height + o.padding,
		}
	}

	res, err := Greedy(work, opts...)
	if ctxErr := o.ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return Placement{}, err
	}
	if err != nil {
		return Placement{}, fmt.Errorf("pack %d modules: %w", len(mods), err)
	}

	out := make([]Module, len(mods))
	for i, m := range mods {
		out[i] = Module{ID: m.ID, Width: m.Width, Height: m.Height}
	}
	// The final tree holds every work module, so placement order matches work order.
	for k, m := range res.Placement.Modules {
		out[order[k]].X = m.X
		out[order[k]].Y = m.Y
	}

	p := NewPlacement(out)
	o.logger.Debug("packed",
		"modules", len(p.Modules),
		"width", p.Width,
		"height", p.Height,
		"passes", res.Passes)
	return p, nil
}
