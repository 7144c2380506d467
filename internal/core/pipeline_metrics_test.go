//go:build !noopencv

package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineRunWithMetrics(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, checkerboard(12, 7))

	cfg := testConfig(in, out)
	cfg.KernelSize = 5
	cfg.Metrics = true
	p, err := NewPipeline(cfg, quietLogger())
	require.NoError(t, err)

	res, err := p.Run(context.Background(), in, out)
	require.NoError(t, err)
	require.NoError(t, res.SaveErr)
	assert.Len(t, res.Metrics, 3)
	assert.Contains(t, res.Metrics, "mse")
	assert.Contains(t, res.Metrics, "psnr")
	assert.Contains(t, res.Metrics, "ssim")
	assert.Greater(t, res.Metrics["mse"], 0.0)
}
