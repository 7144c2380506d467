//go:build !noopencv

package imageio

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCVRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV round trip in short mode")
	}
	l := newLoader(t, BackendOpenCV)
	src := gradient(7, 5)
	path := filepath.Join(t.TempDir(), "cv.png")
	require.NoError(t, l.Save(src, path))

	got, err := l.Load(path)
	require.NoError(t, err)
	assertSamePixels(t, src, got)

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.png"))
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}
