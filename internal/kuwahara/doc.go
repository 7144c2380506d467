// Package kuwahara implements an edge-preserving smoothing filter that
// replaces each pixel with the mean color of the least varying of four
// quadrants around it.
//
// For every target pixel the window [y-r, y+r) x [x-r, x+r) is split into
// four bins by the sign of each sample's offset from the target. Each bin
// yields a mean color and the population standard deviation of its sample
// lumas; the bin with the smallest deviation wins, ties going to the lowest
// index. A deviation of exactly zero counts as ZeroVarianceSentinel.
//
//	f, err := kuwahara.New(kuwahara.Options{KernelSize: 5}, logger)
//	if err != nil {
//		return err
//	}
//	out, err := f.Image(ctx, img)
package kuwahara
