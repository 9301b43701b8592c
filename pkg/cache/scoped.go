package cache

// ScopedKeyer wraps a Keyer with a prefix so separate tenants (or separate
// deployments sharing one Redis) never read each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "spritepack:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PlacementKey generates a prefixed placement key.
func (k *ScopedKeyer) PlacementKey(dimsHash string, opts PlacementKeyOpts) string {
	return k.prefix + k.inner.PlacementKey(dimsHash, opts)
}

// SheetKey generates a prefixed sheet key.
func (k *ScopedKeyer) SheetKey(layoutHash string, opts SheetKeyOpts) string {
	return k.prefix + k.inner.SheetKey(layoutHash, opts)
}

// SpriteKey generates a prefixed sprite artifact key.
func (k *ScopedKeyer) SpriteKey(id, artifact string) string {
	return k.prefix + k.inner.SpriteKey(id, artifact)
}
