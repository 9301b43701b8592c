package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// PlacementKeyOpts are the packer options that change a placement.
type PlacementKeyOpts struct {
	Padding int `json:"padding"`
}

// SheetKeyOpts are the options that change a drawn sheet but not its layout.
type SheetKeyOpts struct {
	ClassPrefix string `json:"class_prefix"`
	URL         string `json:"url"`
	// Content hashes the source pixels so edited images miss the cache.
	Content string `json:"content"`
}

// Artifact kinds stored per sprite.
const (
	ArtifactPNG    = "png"
	ArtifactCSS    = "css"
	ArtifactLayout = "json"
)

// Keyer derives cache keys. Swapping the keyer lets a deployment namespace
// or version keys without touching callers.
type Keyer interface {
	// PlacementKey keys a placement by the hash of its module sizes.
	PlacementKey(dimsHash string, opts PlacementKeyOpts) string
	// SheetKey keys a drawn sheet by the hash of its placement.
	SheetKey(layoutHash string, opts SheetKeyOpts) string
	// SpriteKey keys one artifact of a sheet stored under a public id.
	SpriteKey(id, artifact string) string
}

// DefaultKeyer is the standard key layout: "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlacementKey returns "placement:<hash>".
func (DefaultKeyer) PlacementKey(dimsHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", dimsHash, opts)
}

// SheetKey returns "sheet:<hash>".
func (DefaultKeyer) SheetKey(layoutHash string, opts SheetKeyOpts) string {
	return hashKey("sheet", layoutHash, opts)
}

// SpriteKey returns "sprite:<id>:<artifact>". IDs are already unique so they
// are not hashed.
func (DefaultKeyer) SpriteKey(id, artifact string) string {
	return "sprite:" + id + ":" + artifact
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<kind>:<sha256 of the JSON encoding of parts>".
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
