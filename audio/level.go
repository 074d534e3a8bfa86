package audio

import (
	"math"

	"github.com/cwbudde/algo-visqol/dsp/core"
	stats "github.com/cwbudde/algo-visqol/stats/time"
)

// SPL returns the sound pressure level of s in dB re 20 µPa.
func SPL(s Signal) float64 {
	return stats.SPL(s.Samples)
}

// ScaleToMatchSPL returns deg scaled so that its sound pressure level
// equals that of ref, and whether a gain was applied. If either signal is
// silent the level difference is undefined and an unscaled copy is
// returned with ok false.
func ScaleToMatchSPL(ref, deg Signal) (scaled Signal, ok bool) {
	gain := core.DBToLinear(SPL(ref) - SPL(deg))
	if math.IsInf(gain, 0) || math.IsNaN(gain) || gain == 0 {
		return deg.Clone(), false
	}

	return deg.Scaled(gain), true
}
