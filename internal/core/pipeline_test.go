package core

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuwahara-filter/internal/config"
	"kuwahara-filter/internal/imageio"
	"kuwahara-filter/internal/kuwahara"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func testConfig(input, output string) config.Config {
	cfg := config.Default()
	cfg.Filename = input
	cfg.Output = output
	cfg.KernelSize = 3
	return cfg
}

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/2+y/2)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 220, B: 220, A: 0xff})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 20, G: 40, B: 60, A: 0xff})
			}
		}
	}
	return img
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, checkerboard(12, 7))

	cfg := testConfig(in, out)
	cfg.KernelSize = 5
	p, err := NewPipeline(cfg, quietLogger())
	require.NoError(t, err)

	res, err := p.Run(context.Background(), in, out)
	require.NoError(t, err)
	require.NoError(t, res.SaveErr)
	assert.Equal(t, ImageMetadata{Width: 12, Height: 7, Channels: 4, Format: "png"}, res.Input)
	assert.Equal(t, image.Rect(0, 0, 12, 7), res.Output.Bounds())
	assert.Nil(t, res.Metrics)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	written, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 7), written.Bounds())

	// the file holds exactly what the filter produced
	filter, err := kuwahara.New(kuwahara.Options{KernelSize: 5}, nil)
	require.NoError(t, err)
	want, err := filter.Image(context.Background(), checkerboard(12, 7))
	require.NoError(t, err)
	for y := 0; y < 7; y++ {
		for x := 0; x < 12; x++ {
			assert.Equal(t, want.RGBAAt(x, y), color.RGBAModel.Convert(written.At(x, y)), "(%d,%d)", x, y)
		}
	}
}

func TestPipelineLogsBackend(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, checkerboard(5, 5))

	logger, hook := test.NewNullLogger()
	p, err := NewPipeline(testConfig(in, out), logger)
	require.NoError(t, err)
	_, err = p.Run(context.Background(), in, out)
	require.NoError(t, err)

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Message == "PIPELINE: Applying quadrant filter" {
			found = true
			assert.Equal(t, imageio.BackendNative, e.Data["backend"])
		}
	}
	assert.True(t, found)
}

func TestPipelineRejectsKernelBeforeIO(t *testing.T) {
	cfg := testConfig("does-not-exist.png", "out.png")
	cfg.KernelSize = 2
	_, err := NewPipeline(cfg, quietLogger())
	assert.True(t, errors.Is(err, kuwahara.ErrInvalidKernel))
}

func TestPipelineDecodeFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "missing.png")
	out := filepath.Join(dir, "out.png")

	p, err := NewPipeline(testConfig(in, out), quietLogger())
	require.NoError(t, err)

	res, err := p.Run(context.Background(), in, out)
	assert.Nil(t, res)
	var de *imageio.DecodeError
	require.True(t, errors.As(err, &de))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output is produced")
}

func TestPipelineEncodeFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "missing-dir", "out.png")
	writePNG(t, in, checkerboard(4, 4))

	p, err := NewPipeline(testConfig(in, out), quietLogger())
	require.NoError(t, err)

	res, err := p.Run(context.Background(), in, out)
	require.NoError(t, err)
	require.NotNil(t, res.Output)
	var ee *imageio.EncodeError
	assert.True(t, errors.As(res.SaveErr, &ee))
	assert.Nil(t, res.Metrics)
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(image.NewGray(image.Rect(0, 0, 1, 1))))
	assert.Error(t, ValidateImage(nil))
	assert.Error(t, ValidateImage(image.NewGray(image.Rectangle{})))
	assert.Error(t, ValidateImage(image.NewGray(image.Rect(0, 0, MaxDimension+1, 1))))
}

func TestNewImageMetadata(t *testing.T) {
	md := NewImageMetadata(image.NewGray(image.Rect(2, 3, 7, 9)), "/tmp/scan.TIFF")
	assert.Equal(t, ImageMetadata{Width: 5, Height: 6, Channels: 1, Format: "tiff"}, md)

	md = NewImageMetadata(image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420), "photo")
	assert.Equal(t, 3, md.Channels)
	assert.Equal(t, "unknown", md.Format)
}
