//go:build !noopencv

// Concrete implementations of quality metrics
package metrics

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

func registerDefaultMetrics(e *Evaluator) {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("ssim", NewSSIM())
}

// grayPair converts both images to single-channel 8-bit Mats. The caller
// closes them.
func grayPair(original, processed image.Image) (gocv.Mat, gocv.Mat, error) {
	if err := checkPair(original, processed); err != nil {
		return gocv.Mat{}, gocv.Mat{}, err
	}
	gray1, err := toGray(original)
	if err != nil {
		return gocv.Mat{}, gocv.Mat{}, err
	}
	gray2, err := toGray(processed)
	if err != nil {
		gray1.Close()
		return gocv.Mat{}, gocv.Mat{}, err
	}
	return gray1, gray2, nil
}

func toGray(img image.Image) (gocv.Mat, error) {
	bgr, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, errors.Wrap(err, "convert image")
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
	return gray, nil
}

func meanSquaredError(gray1, gray2 gocv.Mat) (float64, error) {
	f1 := gocv.NewMat()
	defer f1.Close()
	f2 := gocv.NewMat()
	defer f2.Close()
	gray1.ConvertTo(&f1, gocv.MatTypeCV64F)
	gray2.ConvertTo(&f2, gocv.MatTypeCV64F)

	diff := gocv.NewMat()
	defer diff.Close()
	if err := gocv.Subtract(f1, f2, &diff); err != nil {
		return 0, errors.Wrap(err, "subtract")
	}

	norm := gocv.Norm(diff, gocv.NormL2)
	return norm * norm / float64(gray1.Total()), nil
}

// MSE implements Mean Squared Error on gray values
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed image.Image) (float64, error) {
	gray1, gray2, err := grayPair(original, processed)
	if err != nil {
		return 0, err
	}
	defer gray1.Close()
	defer gray2.Close()
	return meanSquaredError(gray1, gray2)
}

func (m *MSE) GetName() string              { return "MSE" }
func (m *MSE) GetDescription() string       { return "Mean Squared Error of gray values" }
func (m *MSE) GetRange() (float64, float64) { return 0, 255 * 255 }
func (m *MSE) IsHigherBetter() bool         { return false }

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct{}

// NewPSNR creates a new PSNR metric
func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed image.Image) (float64, error) {
	gray1, gray2, err := grayPair(original, processed)
	if err != nil {
		return 0, err
	}
	defer gray1.Close()
	defer gray2.Close()

	mse, err := meanSquaredError(gray1, gray2)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil // Perfect match
	}
	return gocv.PSNR(gray1, gray2), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio - measures image quality"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100 // Practical range, can go higher
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}

// SSIM implements Structural Similarity Index metric with a Gaussian window
type SSIM struct {
	// Window is the odd Gaussian kernel width
	Window int
	Sigma  float64
}

// NewSSIM creates a new SSIM metric with an 11x11, sigma 1.5 window
func NewSSIM() *SSIM {
	return &SSIM{Window: 11, Sigma: 1.5}
}

func (s *SSIM) Calculate(original, processed image.Image) (float64, error) {
	gray1, gray2, err := grayPair(original, processed)
	if err != nil {
		return 0, err
	}
	defer gray1.Close()
	defer gray2.Close()
	return s.calculateSSIM(gray1, gray2), nil
}

func (s *SSIM) blur(src gocv.Mat, dst *gocv.Mat) {
	k := image.Pt(s.Window, s.Window)
	gocv.GaussianBlur(src, dst, k, s.Sigma, s.Sigma, gocv.BorderDefault)
}

func (s *SSIM) calculateSSIM(img1, img2 gocv.Mat) float64 {
	// SSIM constants
	const (
		C1 = 6.5025  // (0.01 * 255)^2
		C2 = 58.5225 // (0.03 * 255)^2
	)

	f1 := gocv.NewMat()
	defer f1.Close()
	img1.ConvertTo(&f1, gocv.MatTypeCV32F)

	f2 := gocv.NewMat()
	defer f2.Close()
	img2.ConvertTo(&f2, gocv.MatTypeCV32F)

	mu1 := gocv.NewMat()
	defer mu1.Close()
	s.blur(f1, &mu1)

	mu2 := gocv.NewMat()
	defer mu2.Close()
	s.blur(f2, &mu2)

	mu1Sq := gocv.NewMat()
	defer mu1Sq.Close()
	gocv.Multiply(mu1, mu1, &mu1Sq)

	mu2Sq := gocv.NewMat()
	defer mu2Sq.Close()
	gocv.Multiply(mu2, mu2, &mu2Sq)

	mu1Mu2 := gocv.NewMat()
	defer mu1Mu2.Close()
	gocv.Multiply(mu1, mu2, &mu1Mu2)

	// sigma = blur(a*b) - mu_a*mu_b
	moment := func(a, b, mus gocv.Mat) gocv.Mat {
		prod := gocv.NewMat()
		defer prod.Close()
		gocv.Multiply(a, b, &prod)
		sigma := gocv.NewMat()
		s.blur(prod, &sigma)
		gocv.Subtract(sigma, mus, &sigma)
		return sigma
	}
	sigma1Sq := moment(f1, f1, mu1Sq)
	defer sigma1Sq.Close()
	sigma2Sq := moment(f2, f2, mu2Sq)
	defer sigma2Sq.Close()
	sigma12 := moment(f1, f2, mu1Mu2)
	defer sigma12.Close()

	// (2*mu1*mu2 + C1) * (2*sigma12 + C2)
	numerator := mu1Mu2.Clone()
	defer numerator.Close()
	numerator.MultiplyFloat(2)
	numerator.AddFloat(C1)
	numerator2 := sigma12.Clone()
	defer numerator2.Close()
	numerator2.MultiplyFloat(2)
	numerator2.AddFloat(C2)
	gocv.Multiply(numerator, numerator2, &numerator)

	// (mu1^2 + mu2^2 + C1) * (sigma1^2 + sigma2^2 + C2)
	denominator := gocv.NewMat()
	defer denominator.Close()
	gocv.Add(mu1Sq, mu2Sq, &denominator)
	denominator.AddFloat(C1)
	denominator2 := gocv.NewMat()
	defer denominator2.Close()
	gocv.Add(sigma1Sq, sigma2Sq, &denominator2)
	denominator2.AddFloat(C2)
	gocv.Multiply(denominator, denominator2, &denominator)

	ssimMap := gocv.NewMat()
	defer ssimMap.Close()
	gocv.Divide(numerator, denominator, &ssimMap)

	return ssimMap.Mean().Val1
}

func (s *SSIM) GetName() string {
	return "SSIM"
}

func (s *SSIM) GetDescription() string {
	return "Structural Similarity Index - measures structural similarity"
}

func (s *SSIM) GetRange() (float64, float64) {
	return -1, 1
}

func (s *SSIM) IsHigherBetter() bool {
	return true
}
