// Load, filter, evaluate and save pipeline
package core

import (
	"context"
	"image"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"kuwahara-filter/internal/config"
	"kuwahara-filter/internal/imageio"
	"kuwahara-filter/internal/kuwahara"
	"kuwahara-filter/internal/metrics"
)

// Result describes one completed run.
type Result struct {
	Input      ImageMetadata
	Output     *image.RGBA
	OutputPath string
	Metrics    map[string]float64

	// SaveErr is set when encoding the output failed. Filtering already
	// completed, so the run is not treated as failed.
	SaveErr error

	LoadTime   time.Duration
	FilterTime time.Duration
	SaveTime   time.Duration
}

// Pipeline runs the quadrant filter over a file.
type Pipeline struct {
	loader      *imageio.Loader
	filter      *kuwahara.Filter
	metricsEval *metrics.Evaluator
	logger      logrus.FieldLogger
}

// NewPipeline validates cfg and wires the loader, filter and evaluator.
// Validation happens before any file is touched.
func NewPipeline(cfg config.Config, logger logrus.FieldLogger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.FilterOptions()
	if err != nil {
		return nil, err
	}
	filter, err := kuwahara.New(opts, logger)
	if err != nil {
		return nil, err
	}
	backend, err := imageio.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	loader, err := imageio.NewLoader(logger, backend)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		loader: loader,
		filter: filter,
		logger: logger,
	}
	if cfg.Metrics {
		eval := metrics.NewEvaluator()
		if names := eval.Names(); len(names) == 0 {
			logger.Warn("PIPELINE: Quality metrics are not available in this build")
		} else {
			logger.WithField("metrics", names).Debug("PIPELINE: Quality metrics enabled")
			p.metricsEval = eval
		}
	}
	return p, nil
}

// Run filters input and writes the result to output. Load and validation
// failures are returned as errors and nothing is written. A save failure is
// logged and reported in Result.SaveErr only.
func (p *Pipeline) Run(ctx context.Context, input, output string) (*Result, error) {
	res := &Result{OutputPath: output}

	start := time.Now()
	src, err := p.loader.Load(input)
	if err != nil {
		return nil, err
	}
	if err := ValidateImage(src); err != nil {
		return nil, &imageio.DecodeError{Path: input, Err: err}
	}
	res.LoadTime = time.Since(start)
	res.Input = NewImageMetadata(src, input)

	opts := p.filter.Options()
	p.logger.WithFields(logrus.Fields{
		"width":       res.Input.Width,
		"height":      res.Input.Height,
		"kernel_size": opts.KernelSize,
		"skip_rule":   opts.SkipRule.String(),
		"workers":     opts.Workers,
		"backend":     p.loader.Backend(),
	}).Info("PIPELINE: Applying quadrant filter")

	start = time.Now()
	out, err := p.filter.Image(ctx, src)
	if err != nil {
		return nil, errors.Wrap(err, "filter")
	}
	res.FilterTime = time.Since(start)
	res.Output = out

	if p.metricsEval != nil {
		res.Metrics = p.metricsEval.CalculateAll(src, out)
		fields := logrus.Fields{}
		for name, v := range res.Metrics {
			// JSON cannot carry +Inf for identical images
			fields[name] = strconv.FormatFloat(v, 'f', 4, 64)
		}
		p.logger.WithFields(fields).Info("PIPELINE: Quality metrics")
	}

	start = time.Now()
	if err := p.loader.Save(out, output); err != nil {
		res.SaveErr = err
		p.logger.WithError(err).WithField("filepath", output).Error("PIPELINE: Failed to save image")
	}
	res.SaveTime = time.Since(start)

	p.logger.WithFields(logrus.Fields{
		"load_ms":   res.LoadTime.Milliseconds(),
		"filter_ms": res.FilterTime.Milliseconds(),
		"save_ms":   res.SaveTime.Milliseconds(),
	}).Info("PIPELINE: Finished")
	return res, nil
}
