//go:build noopencv

package imageio

import "github.com/pkg/errors"

func newOpenCVCodec() (codec, error) {
	return nil, errors.Wrapf(ErrBackendUnavailable, "backend %s", BackendOpenCV)
}
