package pipeline

import (
	"context"

	"github.com/matzehuels/spritepack/pkg/pack"
)

type packResult struct {
	p   pack.Placement
	err error
}

// packAsync runs [pack.Pack] on its own goroutine and returns as soon as ctx
// is done. The packer stops at its next insertion boundary when given
// [pack.WithContext]; its result is dropped either way.
func packAsync(ctx context.Context, mods []pack.Module, opts ...pack.Option) (pack.Placement, error) {
	if err := ctx.Err(); err != nil {
		return pack.Placement{}, err
	}
	done := make(chan packResult, 1)
	go func() {
		p, err := pack.Pack(mods, opts...)
		done <- packResult{p, err}
	}()
	select {
	case res := <-done:
		return res.p, res.err
	case <-ctx.Done():
		return pack.Placement{}, ctx.Err()
	}
}
