// Quality metrics comparing a filtered image with its source
package metrics

import (
	"image"
	"sort"

	"github.com/pkg/errors"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed image.Image) (float64, error)

	GetName() string
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)

	// IsHigherBetter returns true if higher values indicate better quality
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default metrics registered
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

// RegisterDefaultMetrics adds MSE, PSNR and SSIM when the build has OpenCV.
func (e *Evaluator) RegisterDefaultMetrics() {
	registerDefaultMetrics(e)
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns the registered metric names in sorted order.
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, original, processed image.Image) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, errors.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, processed)
}

// CalculateAll calculates all registered metrics, skipping any that fail
func (e *Evaluator) CalculateAll(original, processed image.Image) map[string]float64 {
	results := make(map[string]float64)
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}
	return results
}

// ErrDimensionMismatch is returned when the two images differ in size.
var ErrDimensionMismatch = errors.New("image dimensions mismatch")

func checkPair(original, processed image.Image) error {
	if original == nil || processed == nil || original.Bounds().Empty() || processed.Bounds().Empty() {
		return errors.New("empty images")
	}
	if original.Bounds().Size() != processed.Bounds().Size() {
		return errors.WithStack(ErrDimensionMismatch)
	}
	return nil
}
