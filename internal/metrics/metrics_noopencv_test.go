//go:build noopencv

package metrics

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluatorEmptyWithoutOpenCV(t *testing.T) {
	e := NewEvaluator()
	assert.Empty(t, e.Names())
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	assert.Empty(t, e.CalculateAll(img, img))
}
