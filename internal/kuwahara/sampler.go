// Quadrant sampling around a target pixel

package kuwahara

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
)

// NumQuadrants is the number of directional bins per target pixel.
const NumQuadrants = 4

// SkipRule decides which window row is excluded while sampling.
type SkipRule int

const (
	// SkipLiteral drops the row whose index equals the target column
	// (opY == x). It is the default and defines the established output.
	SkipLiteral SkipRule = iota
	// SkipCenter drops the target's own row (opY == y), excluding the center cross.
	SkipCenter
)

func (r SkipRule) String() string {
	switch r {
	case SkipLiteral:
		return "literal"
	case SkipCenter:
		return "center"
	default:
		return fmt.Sprintf("SkipRule(%d)", int(r))
	}
}

// ParseSkipRule maps "literal" or "center" to a SkipRule.
func ParseSkipRule(s string) (SkipRule, error) {
	switch s {
	case "literal", "":
		return SkipLiteral, nil
	case "center":
		return SkipCenter, nil
	default:
		return SkipLiteral, errors.Errorf("unknown skip rule %q (want literal or center)", s)
	}
}

func (r SkipRule) skipRow(opY, x, y int) bool {
	if r == SkipCenter {
		return opY == y
	}
	return opY == x
}

// Quadrants holds the four bins sampled for one target pixel.
type Quadrants [NumQuadrants][]color.NRGBA

// QuadrantIndex classifies a sample by the sign of its offset from the target.
func QuadrantIndex(dx, dy int) int {
	switch {
	case dx > 0 && dy > 0:
		return 3
	case dy > 0:
		return 2
	case dx > 0:
		return 1
	default:
		return 0
	}
}

// Sampler partitions the window around a target pixel into quadrant bins.
// The bins' backing arrays are reused across calls, so a Sampler must not be
// shared between goroutines and the returned Quadrants are only valid until
// the next call.
type Sampler struct {
	radius int
	rule   SkipRule
	bins   Quadrants
}

func NewSampler(radius int, rule SkipRule) *Sampler {
	return &Sampler{radius: radius, rule: rule}
}

// Sample fills the bins for target (x, y). The window spans [y-r, y+r) rows
// and [x-r, x+r) columns.
func (s *Sampler) Sample(src PixelSource, x, y int) *Quadrants {
	for i := range s.bins {
		s.bins[i] = s.bins[i][:0]
	}

	w, h := src.Width(), src.Height()
	for opY := y - s.radius; opY < y+s.radius; opY++ {
		if opY < 0 || opY >= h || s.rule.skipRow(opY, x, y) {
			continue
		}
		for opX := x - s.radius; opX < x+s.radius; opX++ {
			if opX < 0 || opX >= w || opX == x {
				continue
			}
			q := QuadrantIndex(opX-x, opY-y)
			s.bins[q] = append(s.bins[q], src.NRGBAAt(opX, opY))
		}
	}
	return &s.bins
}

// Sample returns freshly allocated bins for target (x, y).
func Sample(src PixelSource, x, y, radius int, rule SkipRule) Quadrants {
	s := Sampler{radius: radius, rule: rule}
	return *s.Sample(src, x, y)
}
