package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-visqol/stats/time"
)

func ExampleRMS() {
	fmt.Printf("rms=%.1f peak=%.1f\n",
		timestats.RMS([]float64{1, -1, 1, -1}),
		timestats.Peak([]float64{0.5, -2, 1}))

	// Output:
	// rms=1.0 peak=2.0
}
