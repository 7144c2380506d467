// Image loading and saving for the filter command
package imageio

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backend selects the codec implementation.
type Backend string

const (
	// BackendNative uses Go decoders and encoders.
	BackendNative Backend = "native"
	// BackendOpenCV uses OpenCV through gocv.
	BackendOpenCV Backend = "opencv"
)

// ParseBackend maps a flag value to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(s)); b {
	case BackendNative, BackendOpenCV:
		return b, nil
	case "":
		return BackendNative, nil
	default:
		return "", errors.Errorf("unknown backend %q (want native or opencv)", s)
	}
}

// ErrBackendUnavailable is returned for the OpenCV backend in builds tagged noopencv.
var ErrBackendUnavailable = errors.New("image backend not available in this build")

// ErrUnsupportedFormat is wrapped by load and save errors for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DecodeError reports a failure to read an input image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Path, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failure to write an output image.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode %s: %v", e.Path, e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

type codec interface {
	decode(path string) (image.Image, error)
	encode(img image.Image, path string) error
}

// Loader handles image file operations.
type Loader struct {
	logger  logrus.FieldLogger
	backend Backend
	codec   codec
}

func NewLoader(logger logrus.FieldLogger, backend Backend) (*Loader, error) {
	var c codec
	switch backend {
	case BackendNative, "":
		backend = BackendNative
		c = nativeCodec{}
	case BackendOpenCV:
		cv, err := newOpenCVCodec()
		if err != nil {
			return nil, err
		}
		c = cv
	default:
		return nil, errors.Errorf("unknown backend %q", backend)
	}
	return &Loader{logger: logger, backend: backend, codec: c}, nil
}

func (l *Loader) Backend() Backend { return l.backend }

// Load decodes the image at path. Every failure is a *DecodeError.
func (l *Loader) Load(path string) (image.Image, error) {
	l.logger.WithFields(logrus.Fields{"filepath": path, "backend": l.backend}).Debug("Loading image")

	if !IsSupportedFormat(path) {
		return nil, &DecodeError{Path: path, Err: errors.WithStack(ErrUnsupportedFormat)}
	}

	img, err := l.codec.decode(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, &DecodeError{Path: path, Err: errors.New("image has no pixels")}
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    b.Dx(),
		"height":   b.Dy(),
	}).Info("Image loaded successfully")
	return img, nil
}

// Save encodes img to path, choosing the format by extension. Every failure
// is an *EncodeError.
func (l *Loader) Save(img image.Image, path string) error {
	l.logger.WithFields(logrus.Fields{"filepath": path, "backend": l.backend}).Debug("Saving image")

	if img == nil || img.Bounds().Empty() {
		return &EncodeError{Path: path, Err: errors.New("cannot save empty image")}
	}
	if !IsWritableFormat(path) {
		return &EncodeError{Path: path, Err: errors.WithStack(ErrUnsupportedFormat)}
	}
	if err := l.codec.encode(img, path); err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Bounds().Dx(),
		"height":   img.Bounds().Dy(),
	}).Info("Image saved successfully")
	return nil
}

var (
	readable = []string{".jpg", ".jpeg", ".png", ".gif", ".tiff", ".tif", ".bmp", ".webp"}
	writable = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}
)

// IsSupportedFormat reports whether path has a readable extension.
func IsSupportedFormat(path string) bool {
	return hasExt(path, readable)
}

// IsWritableFormat reports whether path has an extension Save can produce.
func IsWritableFormat(path string) bool {
	return hasExt(path, writable)
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// SupportedFormats lists the readable formats by name.
func SupportedFormats() []string {
	return []string{"JPEG", "PNG", "GIF", "TIFF", "BMP", "WebP"}
}
