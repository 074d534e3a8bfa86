// Package commands implements the visqol command line.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-visqol/visqol"
)

var errMissingInput = errors.New("missing input")

// globalFlags holds the persistent flags shared by all subcommands.
type globalFlags struct {
	configFile   string
	verbose      bool
	speechMode   bool
	searchWindow int
	unscaledMOS  bool
	modelPath    string
	resample     bool
	output       string
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "visqol",
		Short: "Objective audio quality metric",
		Long: `visqol compares a degraded recording with its reference and predicts
a mean opinion score (MOS-LQO) between 1 and 5.

Audio mode works on full-band 48 kHz material and needs an SVR model file.
Speech mode works on 16 kHz speech and uses a built-in mapping.

Settings are read from an optional YAML file and overridden by flags:

  mode: speech
  search_window: 60
  unscaled_speech_mos: false
  model: libsvm_nu_svr_model.txt
  resample: true`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging(cmd, g.verbose)
			return nil
		},
	}

	bindGlobalFlags(cmd.PersistentFlags(), g)

	cmd.AddCommand(newCompareCmd(g))
	cmd.AddCommand(newBatchCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindGlobalFlags(f *pflag.FlagSet, g *globalFlags) {
	f.StringVar(&g.configFile, "config", "", "YAML config file")
	f.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVar(&g.speechMode, "speech-mode", false, "use the speech variant")
	f.IntVar(&g.searchWindow, "search-window", visqol.DefaultSearchWindowRadius, "patch search radius in frames")
	f.BoolVar(&g.unscaledMOS, "unscaled-speech-mos", false, "do not rescale the speech MOS so a perfect match scores 5")
	f.StringVar(&g.modelPath, "model", "", "libsvm SVR model for audio mode")
	f.BoolVar(&g.resample, "resample", false, "resample inputs to the mode's native rate")
	f.StringVarP(&g.output, "output", "o", string(formatText), "output format: text, json, yaml, csv")
}

func initLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})))
}

// loadConfig starts from the audio defaults, applies the config file and
// then every flag the user set explicitly.
func loadConfig(cmd *cobra.Command, g *globalFlags) (visqol.Config, error) {
	cfg := visqol.DefaultConfig()

	if g.configFile != "" {
		data, err := os.ReadFile(g.configFile)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", g.configFile, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("speech-mode") {
		cfg.Mode = visqol.ModeAudio
		if g.speechMode {
			cfg.Mode = visqol.ModeSpeech
		}
	}
	if flags.Changed("search-window") {
		cfg.SearchWindowRadius = g.searchWindow
	}
	if flags.Changed("unscaled-speech-mos") {
		cfg.UseUnscaledSpeechMOSMapping = g.unscaledMOS
	}
	if flags.Changed("model") {
		cfg.ModelPath = g.modelPath
	}
	if flags.Changed("resample") {
		cfg.Resample = g.resample
	}

	return cfg, cfg.Validate()
}
