package kuwahara

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
)

func TestLuma(t *testing.T) {
	assert.Equal(t, 0.0, Luma(black))
	assert.InDelta(t, 255.0, Luma(white), 1e-9)
	assert.InDelta(t, 54.213, Luma(red), 1e-9)
	assert.InDelta(t, 0.7152*255, Luma(color.NRGBA{G: 0xff}), 1e-9)
	assert.InDelta(t, 0.0722*255, Luma(color.NRGBA{B: 0xff}), 1e-9)
	// alpha does not contribute
	assert.Equal(t, Luma(color.NRGBA{R: 10, G: 20, B: 30}), Luma(color.NRGBA{R: 10, G: 20, B: 30, A: 0xff}))
}

func TestMeanColor(t *testing.T) {
	assert.Equal(t, color.NRGBA{}, MeanColor(nil))
	assert.Equal(t, color.NRGBA{}, MeanColor([]color.NRGBA{}))

	// integer division truncates
	got := MeanColor([]color.NRGBA{{R: 10, G: 20, B: 30, A: 0xff}, {R: 11, G: 21, B: 31, A: 0xfe}})
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 0xfe}, got)

	assert.Equal(t, color.NRGBA{R: 63, A: 0xff}, MeanColor([]color.NRGBA{red, black, black, black}))

	many := make([]color.NRGBA, 40000)
	for i := range many {
		many[i] = white
	}
	assert.Equal(t, white, MeanColor(many))
}

func TestLumaStdDev(t *testing.T) {
	assert.Equal(t, ZeroVarianceSentinel, LumaStdDev(nil), "empty bin")
	assert.Equal(t, ZeroVarianceSentinel, LumaStdDev([]color.NRGBA{red}), "single sample")
	assert.Equal(t, ZeroVarianceSentinel, LumaStdDev([]color.NRGBA{black, black, black}), "uniform")

	// population deviation of {0, 54.213} is half the spread
	assert.InDelta(t, 27.1065, LumaStdDev([]color.NRGBA{black, red}), 1e-9)

	// {0, 0, 0, 54.213}: sqrt(3)/4 * 54.213
	assert.InDelta(t, 23.47491, LumaStdDev([]color.NRGBA{red, black, black, black}), 1e-4)
}

func TestLumaStdDevUniformBinsGetSentinel(t *testing.T) {
	colors := []color.NRGBA{
		red,
		white,
		{R: 200, G: 100, B: 50, A: 0xff},
		{R: 17, G: 230, B: 91, A: 0x80},
		{R: 102, G: 102, B: 102, A: 0xff},
		{R: 1, G: 2, B: 3, A: 0xff},
	}
	for _, c := range colors {
		for n := 1; n <= 12; n++ {
			bin := make([]color.NRGBA, n)
			for i := range bin {
				bin[i] = c
			}
			assert.Equal(t, ZeroVarianceSentinel, LumaStdDev(bin), "%v x%d", c, n)
		}
	}
}

func TestLumaStdDevIsShiftInvariant(t *testing.T) {
	grey := func(v uint8) color.NRGBA { return color.NRGBA{R: v, G: v, B: v, A: 0xff} }
	// lumas {100, 104, 100, 104}
	bin := []color.NRGBA{grey(100), grey(104), grey(100), grey(104)}
	assert.InDelta(t, 2.0, LumaStdDev(bin), 1e-9)

	// same spread, first sample in the middle of the range
	bin = []color.NRGBA{grey(150), grey(100), grey(200)}
	assert.InDelta(t, 40.8248, LumaStdDev(bin), 1e-4)
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats([]color.NRGBA{black, red})
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, color.NRGBA{R: 127, A: 0xff}, st.Mean)
	assert.InDelta(t, 27.1065, st.StdDev, 1e-9)

	empty := ComputeStats(nil)
	assert.Equal(t, QuadrantStats{StdDev: ZeroVarianceSentinel}, empty)
}

func TestStatsScratchMatchesComputeStats(t *testing.T) {
	var s statsScratch
	bins := [][]color.NRGBA{
		{black, red, white},
		nil,
		{red},
		{white, white, black, red, black},
	}
	for _, bin := range bins {
		assert.Equal(t, ComputeStats(bin), s.compute(bin))
	}
}
