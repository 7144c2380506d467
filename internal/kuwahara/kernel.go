// Kernel size validation and radius derivation

package kuwahara

import (
	"github.com/pkg/errors"
)

// MinKernelSize is the smallest accepted kernel size.
const MinKernelSize = 3

// ErrInvalidKernel is returned for kernel sizes smaller than MinKernelSize or even.
var ErrInvalidKernel = errors.New("kernel cannot be smaller than 3 and cannot be divisible by 2")

// ValidateKernel checks k and returns the sampling radius (k-1)/2.
func ValidateKernel(k int) (int, error) {
	if k < MinKernelSize || k%2 == 0 {
		return 0, errors.Wrapf(ErrInvalidKernel, "kernel size %d", k)
	}
	return (k - 1) / 2, nil
}
