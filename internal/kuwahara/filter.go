// Full-image quadrant filter traversal

package kuwahara

import (
	"context"
	"image"
	"image/color"
	"io"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options configures a Filter.
type Options struct {
	// KernelSize is the odd window width, at least 3.
	KernelSize int
	SkipRule   SkipRule
	// IgnoreEmptyQuadrants makes bins without samples ineligible for
	// selection. When all four are empty the source pixel is kept.
	IgnoreEmptyQuadrants bool
	// Workers bounds the number of concurrent row bands. Zero means NumCPU.
	Workers int
}

// Filter applies the quadrant-variance smoothing operator.
type Filter struct {
	opts   Options
	radius int
	logger logrus.FieldLogger
}

// New validates opts and returns a ready Filter.
func New(opts Options, logger logrus.FieldLogger) (*Filter, error) {
	radius, err := ValidateKernel(opts.KernelSize)
	if err != nil {
		return nil, err
	}
	if opts.SkipRule != SkipLiteral && opts.SkipRule != SkipCenter {
		return nil, errors.Errorf("invalid skip rule %v", opts.SkipRule)
	}
	if opts.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d", opts.Workers)
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Filter{opts: opts, radius: radius, logger: logger}, nil
}

func (f *Filter) Radius() int      { return f.radius }
func (f *Filter) Options() Options { return f.opts }

// pixelWorker owns the per-goroutine scratch used for one pixel at a time.
type pixelWorker struct {
	f       *Filter
	sampler *Sampler
	scratch statsScratch
	stats   [NumQuadrants]QuadrantStats
}

func (f *Filter) newWorker() *pixelWorker {
	return &pixelWorker{f: f, sampler: NewSampler(f.radius, f.opts.SkipRule)}
}

func (w *pixelWorker) pixel(src PixelSource, x, y int) color.RGBA {
	bins := w.sampler.Sample(src, x, y)
	var devs [NumQuadrants]float64
	for i := range bins {
		w.stats[i] = w.scratch.compute(bins[i])
		devs[i] = w.stats[i].StdDev
	}

	var mean color.NRGBA
	if w.f.opts.IgnoreEmptyQuadrants {
		idx, ok := selectNonEmpty(&w.stats)
		if !ok {
			mean = src.NRGBAAt(x, y)
		} else {
			mean = w.stats[idx].Mean
		}
	} else {
		mean = w.stats[SelectQuadrant(devs)].Mean
	}
	// alpha is dropped; output is RGB
	return color.RGBA{R: mean.R, G: mean.G, B: mean.B, A: 0xff}
}

// Pixel computes the filtered color at (x, y).
func (f *Filter) Pixel(src PixelSource, x, y int) color.RGBA {
	return f.newWorker().pixel(src, x, y)
}

// Apply writes the filtered value of every pixel of src into dst. Rows are
// split into contiguous bands processed concurrently; each dst pixel is
// written exactly once. Cancellation is checked between rows.
func (f *Filter) Apply(ctx context.Context, src PixelSource, dst PixelSink) error {
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return nil
	}

	workers := min(f.opts.Workers, h)
	rowsPerBand := (h + workers - 1) / workers
	start := time.Now()
	f.logger.WithFields(logrus.Fields{
		"width":       w,
		"height":      h,
		"kernel_size": f.opts.KernelSize,
		"radius":      f.radius,
		"skip_rule":   f.opts.SkipRule.String(),
		"workers":     workers,
	}).Debug("Applying quadrant filter")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for band := 0; band < h; band += rowsPerBand {
		startRow, endRow := band, min(band+rowsPerBand, h)
		g.Go(func() error {
			pw := f.newWorker()
			for y := startRow; y < endRow; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := 0; x < w; x++ {
					dst.SetRGBA(x, y, pw.pixel(src, x, y))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "quadrant filter interrupted")
	}

	f.logger.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Quadrant filter finished")
	return nil
}

// Image filters img into a new RGBA image of the same size anchored at origin.
func (f *Filter) Image(ctx context.Context, img image.Image) (*image.RGBA, error) {
	src := NewImageSource(img)
	dst := image.NewRGBA(image.Rect(0, 0, src.Width(), src.Height()))
	if err := f.Apply(ctx, src, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
