//go:build noopencv

package imageio

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOpenCVBackendUnavailable(t *testing.T) {
	_, err := NewLoader(quietLogger(), BackendOpenCV)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}
