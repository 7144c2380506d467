// Quadrant-variance edge-preserving smoothing filter
// License: MIT

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"kuwahara-filter/internal/config"
	"kuwahara-filter/internal/core"
	"kuwahara-filter/internal/imageio"
	"kuwahara-filter/internal/kuwahara"
)

const (
	AppName    = "kuwahara"
	AppVersion = "1.0.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, out io.Writer) int {
	cfg := config.Default()
	var logger *logrus.Logger

	cmd := &cobra.Command{
		Use:           AppName + " -f FILENAME -k KERNEL",
		Short:         "Edge-preserving smoothing by minimum-variance quadrant selection",
		Version:       AppVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = initLogger(out, cfg.Debug)
			return runFilter(cmd.Context(), cfg, logger)
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)
	bindFlags(cmd.Flags(), &cfg)
	_ = cmd.MarkFlagRequired("filename")
	_ = cmd.MarkFlagRequired("kernel")

	if err := cmd.ExecuteContext(ctx); err != nil {
		if logger == nil {
			logger = initLogger(out, cfg.Debug)
		}
		reportError(logger, err)
		return 1
	}
	return 0
}

func bindFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVarP(&cfg.Filename, "filename", "f", "", "input filename ("+strings.Join(imageio.SupportedFormats(), ", ")+")")
	fs.IntVarP(&cfg.KernelSize, "kernel", "k", 0, "kernel size for sampling (odd, at least 3)")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output filename; format follows the extension")
	fs.IntVarP(&cfg.Workers, "workers", "w", 0, "concurrent row bands (0 uses every CPU)")
	fs.StringVar(&cfg.SkipRule, "skip-rule", cfg.SkipRule, "window row exclusion: literal or center")
	fs.BoolVar(&cfg.IgnoreEmpty, "ignore-empty", false, "never select a quadrant without samples")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "image codec backend: native or opencv")
	fs.BoolVar(&cfg.Metrics, "metrics", false, "log MSE, PSNR and SSIM between input and output")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable debug mode with verbose logging")

	// accept the historical spelling
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "kernal" {
			name = "kernel"
		}
		return pflag.NormalizedName(name)
	})
}

func runFilter(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cfg.Debug,
	}).Debug("Starting quadrant filter")

	// kernel validation happens here, before the input is opened
	p, err := core.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	logger.WithField("filepath", cfg.Filename).Info("Reading image")
	res, err := p.Run(ctx, cfg.Filename, cfg.Output)
	if err != nil {
		return err
	}
	if res.SaveErr == nil {
		logger.WithFields(logrus.Fields{
			"output": res.OutputPath,
			"width":  res.Output.Bounds().Dx(),
			"height": res.Output.Bounds().Dy(),
		}).Info("Filtered image written")
	}
	return nil
}

func reportError(logger *logrus.Logger, err error) {
	var de *imageio.DecodeError
	switch {
	case errors.Is(err, kuwahara.ErrInvalidKernel):
		logger.WithError(err).Error("Invalid kernel size: kernel cannot be smaller than 3, and cannot be divisible by 2")
	case errors.As(err, &de):
		logger.WithError(err).WithField("filepath", de.Path).Error("Failed to read image")
	case errors.Is(err, context.Canceled):
		logger.Warn("Interrupted")
	default:
		logger.WithError(err).Error("Quadrant filter failed")
	}
}

// initLogger initializes the logger with appropriate level
func initLogger(out io.Writer, debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
