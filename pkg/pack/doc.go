// Package pack packs rectangles into a compact, non-overlapping placement
// using an O-tree representation and iterative compaction.
//
// # Overview
//
// A sprite sheet is a single image holding many small tiles, each addressed by
// a pixel offset. This package computes those offsets. It only deals with
// geometry: callers hand in [Module] values (an opaque ID plus a width and
// height) and receive a [Placement] (every module's X/Y plus the canvas size).
// Decoding, drawing and CSS generation live in package sprite.
//
// # Representation
//
// A placement is encoded as a packing [Tree] (an "O-tree"): an ordered list of
// module indices plus a balanced sequence of [Enter]/[Leave] bits describing
// the nesting. In a horizontal tree every child sits directly right of its
// parent; its vertical position is the lowest spot that clears everything
// placed before it in depth-first order. A vertical tree is the same thing
// with the axes swapped.
//
// Decoding a tree uses a [contour] (the skyline of modules placed so far) so
// each module costs amortized O(1) instead of a scan over all earlier modules.
// While decoding, the module each new module rests against is recorded in a
// constraint [Graph]; a depth-first search of that graph yields the tree for
// the orthogonal axis.
//
// # Compaction
//
// [Compact] alternates horizontal and vertical decoding until a full pass
// leaves the tree unchanged. The result is corner-stable: no module can slide
// toward the origin along either axis without hitting another module.
//
// # Construction
//
// [Pack] sorts modules by decreasing area (stable, so equal areas keep their
// input order) and inserts them one at a time. Every insertion point of the
// current tree is tried, each candidate is compacted, and the one with the
// smallest half-perimeter wins. The search is at least quadratic per module,
// which is fine for the tens of images a sprite sheet holds and not meant for
// thousands.
//
// # Basic Usage
//
//	p, err := pack.Pack([]pack.Module{
//	    {ID: "logo", Width: 100, Height: 50},
//	    {ID: "icon", Width: 30, Height: 30},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, m := range p.Modules {
//	    fmt.Println(m.ID, m.X, m.Y)
//	}
//
// # Concurrency
//
// Packing is synchronous and allocates all of its state per call; separate
// calls may run concurrently. Nothing in this package can be cancelled
// mid-run. Callers that need a deadline should bound the input size or run
// Pack on its own goroutine and abandon the result.
package pack
