//go:build !noopencv

package imageio

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

type opencvCodec struct{}

func newOpenCVCodec() (codec, error) {
	return opencvCodec{}, nil
}

func (opencvCodec) decode(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.Errorf("failed to load image: %s", path)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "convert mat")
	}
	return img, nil
}

func (opencvCodec) encode(img image.Image, path string) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return errors.Wrap(err, "convert image")
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return errors.Errorf("failed to save image: %s", path)
	}
	return nil
}
