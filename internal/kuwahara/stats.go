// Per-quadrant mean color and luma deviation

package kuwahara

import (
	"image/color"

	"github.com/montanaflynn/stats"
)

// ZeroVarianceSentinel replaces a luma deviation of exactly zero so that
// degenerate bins (single sample, uniform or empty) do not win selection
// outright.
const ZeroVarianceSentinel = 10.0

// Rec. 709 luma weights.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// QuadrantStats summarises one bin.
type QuadrantStats struct {
	Mean   color.NRGBA
	StdDev float64
	Count  int
}

// Luma returns the perceptual brightness of c.
func Luma(c color.NRGBA) float64 {
	return lumaR*float64(c.R) + lumaG*float64(c.G) + lumaB*float64(c.B)
}

// MeanColor averages each channel, alpha included, with integer division.
// An empty bin yields the zero color.
func MeanColor(bin []color.NRGBA) color.NRGBA {
	var r, g, b, a uint32
	for _, c := range bin {
		r += uint32(c.R)
		g += uint32(c.G)
		b += uint32(c.B)
		a += uint32(c.A)
	}
	n := uint32(max(len(bin), 1))
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}

// LumaStdDev is the population standard deviation of the bin's lumas, with
// a zero deviation (including the empty bin) replaced by ZeroVarianceSentinel.
func LumaStdDev(bin []color.NRGBA) float64 {
	var s statsScratch
	return s.lumaStdDev(bin)
}

// ComputeStats returns mean color and luma deviation for bin.
func ComputeStats(bin []color.NRGBA) QuadrantStats {
	var s statsScratch
	return s.compute(bin)
}

// statsScratch reuses the luma buffer between bins on one worker.
type statsScratch struct {
	lumas stats.Float64Data
}

func (s *statsScratch) compute(bin []color.NRGBA) QuadrantStats {
	return QuadrantStats{
		Mean:   MeanColor(bin),
		StdDev: s.lumaStdDev(bin),
		Count:  len(bin),
	}
}

// lumaStdDev centres the lumas on the first sample before taking the
// deviation, so identical samples give exactly zero whatever their color.
func (s *statsScratch) lumaStdDev(bin []color.NRGBA) float64 {
	s.lumas = s.lumas[:0]
	for _, c := range bin {
		s.lumas = append(s.lumas, Luma(c))
	}
	if len(s.lumas) > 0 {
		origin := s.lumas[0]
		for i := range s.lumas {
			s.lumas[i] -= origin
		}
	}

	sd, err := stats.StandardDeviationPopulation(s.lumas)
	if err != nil {
		// only EmptyInputErr is possible here
		sd = 0
	}
	if sd == 0 {
		return ZeroVarianceSentinel
	}
	return sd
}
