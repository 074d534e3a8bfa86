// Command visqol scores the perceived quality of a degraded recording
// against its reference.
//
// Usage:
//
//	visqol compare --ref ref.wav --deg deg.wav [flags]
//	visqol batch --pairs pairs.csv [--jobs N] [flags]
//	visqol version
//
// Examples:
//
//	visqol compare --speech-mode --ref ref.wav --deg deg.wav
//	visqol compare --model model.txt --ref ref.wav --deg deg.wav --output json
//	visqol batch --config visqol.yaml --pairs pairs.csv --output csv
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-visqol/cmd/visqol/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
