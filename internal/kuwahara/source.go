package kuwahara

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// PixelSource is read-only access to a decoded image anchored at (0,0).
type PixelSource interface {
	Width() int
	Height() int
	NRGBAAt(x, y int) color.NRGBA
}

// PixelSink receives filtered pixels. *image.RGBA satisfies it.
type PixelSink interface {
	SetRGBA(x, y int, c color.RGBA)
}

// ImageSource adapts an image.Image to PixelSource. Pixels are held as
// non-premultiplied RGBA so channel values match the encoded file.
type ImageSource struct {
	img *image.NRGBA
}

// NewImageSource normalises img to NRGBA with its top-left corner at origin.
// An *image.NRGBA already anchored at origin is used without copying.
func NewImageSource(img image.Image) *ImageSource {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return &ImageSource{img: n}
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Rect, img, b.Min, xdraw.Src)
	return &ImageSource{img: dst}
}

func (s *ImageSource) Width() int  { return s.img.Rect.Dx() }
func (s *ImageSource) Height() int { return s.img.Rect.Dy() }

func (s *ImageSource) NRGBAAt(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}
