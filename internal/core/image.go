// Image metadata and validation ahead of filtering
package core

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MaxDimension bounds width and height to keep memory use reasonable.
const MaxDimension = 16384

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Format   string
}

// NewImageMetadata describes img as loaded from filepath.
func NewImageMetadata(img image.Image, filepath string) ImageMetadata {
	b := img.Bounds()
	return ImageMetadata{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channelCount(img.ColorModel()),
		Format:   getFormatFromPath(filepath),
	}
}

func channelCount(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.AlphaModel, color.Alpha16Model:
		return 1
	case color.YCbCrModel, color.CMYKModel:
		return 3
	default:
		return 4
	}
}

// getFormatFromPath extracts image format from file path
func getFormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ValidateImage checks img for basic requirements before filtering
func ValidateImage(img image.Image) error {
	if img == nil {
		return errors.New("image is nil")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.Errorf("invalid dimensions: %dx%d", b.Dx(), b.Dy())
	}
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return errors.Errorf("image too large: %dx%d (max: %d)", b.Dx(), b.Dy(), MaxDimension)
	}
	return nil
}
