// Command configuration for the quadrant filter
package config

import (
	"github.com/pkg/errors"

	"kuwahara-filter/internal/imageio"
	"kuwahara-filter/internal/kuwahara"
)

// DefaultOutput is the file written when no output path is given.
const DefaultOutput = "output.png"

// Config holds every setting the filter command accepts.
type Config struct {
	Filename    string
	Output      string
	KernelSize  int
	Workers     int
	SkipRule    string
	IgnoreEmpty bool
	Backend     string
	Metrics     bool
	Debug       bool
}

// Default returns a Config with every optional field set.
func Default() Config {
	return Config{
		Output:   DefaultOutput,
		SkipRule: kuwahara.SkipLiteral.String(),
		Backend:  string(imageio.BackendNative),
	}
}

// Validate checks the kernel first so an invalid kernel is reported before
// anything else, then the remaining fields.
func (c Config) Validate() error {
	if _, err := kuwahara.ValidateKernel(c.KernelSize); err != nil {
		return err
	}
	if c.Filename == "" {
		return errors.New("filename is required")
	}
	if c.Output == "" {
		return errors.New("output path is required")
	}
	if !imageio.IsWritableFormat(c.Output) {
		return errors.Wrapf(imageio.ErrUnsupportedFormat, "output %s", c.Output)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := kuwahara.ParseSkipRule(c.SkipRule); err != nil {
		return err
	}
	if _, err := imageio.ParseBackend(c.Backend); err != nil {
		return err
	}
	return nil
}

// FilterOptions converts the filter-related fields.
func (c Config) FilterOptions() (kuwahara.Options, error) {
	rule, err := kuwahara.ParseSkipRule(c.SkipRule)
	if err != nil {
		return kuwahara.Options{}, err
	}
	return kuwahara.Options{
		KernelSize:           c.KernelSize,
		SkipRule:             rule,
		IgnoreEmptyQuadrants: c.IgnoreEmpty,
		Workers:              c.Workers,
	}, nil
}
