package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-visqol/visqol"
)

func newCompareCmd(g *globalFlags) *cobra.Command {
	var (
		refPath     string
		degPath     string
		withPatches bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Score one degraded file against its reference",
		Example: `  visqol compare --speech-mode --ref ref.wav --deg deg.wav
  visqol compare --model model.txt --ref ref.wav --deg deg.wav --patches`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refPath == "" || degPath == "" {
				return fmt.Errorf("%w: --ref and --deg are required", errMissingInput)
			}
			format, err := parseFormat(g.output)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			api, err := visqol.New(cfg, visqol.WithLogger(slog.Default()))
			if err != nil {
				return err
			}

			res, err := api.MeasureFiles(cmd.Context(), refPath, degPath)
			if err != nil {
				return fmt.Errorf("compare %s: %w", degPath, err)
			}

			return writeReports(cmd.OutOrStdout(), format,
				[]report{newReport(refPath, degPath, res, withPatches)})
		},
	}

	cmd.Flags().StringVar(&refPath, "ref", "", "reference WAV file")
	cmd.Flags().StringVar(&degPath, "deg", "", "degraded WAV file")
	cmd.Flags().BoolVar(&withPatches, "patches", false, "include per-patch matches")

	return cmd
}
