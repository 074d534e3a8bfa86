package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X .../commands.version=v1.2.3".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and CPU features",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "visqol %s (%s)\n", version, runtime.Version())
			fmt.Fprintf(w, "cpu: %s\n", simdFeatures(cpu.DetectFeatures()))
		},
	}
}

func simdFeatures(f cpu.Features) string {
	var names []string
	for _, c := range []struct {
		name string
		ok   bool
	}{
		{"sse2", f.HasSSE2},
		{"avx", f.HasAVX},
		{"avx2", f.HasAVX2},
		{"avx512", f.HasAVX512},
		{"neon", f.HasNEON},
	} {
		if c.ok {
			names = append(names, c.name)
		}
	}
	if len(names) == 0 {
		names = append(names, "generic")
	}
	return f.Architecture + " " + strings.Join(names, ",")
}
