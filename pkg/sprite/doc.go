// Package sprite turns a packed placement into the two artifacts a web page
// needs: one composite image and a stylesheet that addresses each tile.
//
// # Pipeline
//
//  1. [Load] or [Decode] each image into a [Source]. PNG, JPEG, GIF, BMP
//     and WebP are recognized.
//  2. [Modules] converts sources into the sizes package pack consumes.
//  3. [Draw] composites every source onto a transparent canvas at the offset
//     from the placement, and [EncodePNG] writes it out.
//  4. [CSS] emits one rule per tile showing the sheet through a window the
//     size of the tile, shifted by the tile's negative offset.
//
// [Build] runs all four steps.
//
// # Failure Policy
//
// Every tile must make it into the sheet. A source that cannot be decoded,
// a module with no matching source or a size mismatch fails the whole
// build; a sheet with a missing tile is never returned.
package sprite
