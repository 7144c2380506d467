//go:build noopencv

package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineMetricsUnavailable(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, checkerboard(6, 6))

	logger, hook := test.NewNullLogger()
	cfg := testConfig(in, out)
	cfg.Metrics = true
	p, err := NewPipeline(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	res, err := p.Run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Nil(t, res.Metrics)
}
