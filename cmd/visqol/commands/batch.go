package commands

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-visqol/visqol"
)

var errBatchFailed = errors.New("batch had failures")

// pair is one line of a batch file.
type pair struct {
	ref, deg string
}

func newBatchCmd(g *globalFlags) *cobra.Command {
	var (
		pairsPath   string
		jobs        int
		withPatches bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score every pair listed in a CSV file",
		Long: `batch reads a CSV file of reference,degraded paths, one pair per line.
A leading "reference,degraded" header line is skipped. Pairs run
concurrently; a failing pair reports its error in its own row and the
command exits non-zero once all pairs are written.`,
		Example: `  visqol batch --speech-mode --pairs pairs.csv --output csv
  visqol batch --config visqol.yaml --pairs pairs.csv --jobs 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pairsPath == "" {
				return fmt.Errorf("%w: --pairs is required", errMissingInput)
			}
			format, err := parseFormat(g.output)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			pairs, err := readPairsFile(pairsPath)
			if err != nil {
				return err
			}

			if jobs <= 0 {
				jobs = runtime.GOMAXPROCS(0)
			}
			api, err := visqol.New(cfg,
				visqol.WithLogger(slog.Default()),
				visqol.WithWorkers(max(1, runtime.GOMAXPROCS(0)/jobs)))
			if err != nil {
				return err
			}

			reports, failed := runBatch(cmd.Context(), api, pairs, jobs, withPatches)
			if err := writeReports(cmd.OutOrStdout(), format, reports); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d pairs", errBatchFailed, failed, len(pairs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pairsPath, "pairs", "", "CSV file of reference,degraded pairs")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "pairs compared at once (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&withPatches, "patches", false, "include per-patch matches")

	return cmd
}

// runBatch compares all pairs with at most jobs in flight. Reports keep
// the input order.
func runBatch(ctx context.Context, api *visqol.API, pairs []pair, jobs int, withPatches bool) ([]report, int) {
	reports := make([]report, len(pairs))
	errs := make([]error, len(pairs))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, p := range pairs {
		g.Go(func() error {
			res, err := api.MeasureFiles(ctx, p.ref, p.deg)
			if err != nil {
				slog.Warn("comparison failed", "reference", p.ref, "degraded", p.deg, "error", err)
				errs[i] = err
				reports[i] = report{Reference: p.ref, Degraded: p.deg, Error: err.Error()}
				return nil
			}
			reports[i] = newReport(p.ref, p.deg, res, withPatches)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	return reports, failed
}

func readPairsFile(path string) ([]pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pairs: %w", err)
	}
	defer f.Close()

	pairs, err := readPairs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

func readPairs(r io.Reader) ([]pair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var pairs []pair
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 0 && strings.EqualFold(rec[0], "reference") && strings.EqualFold(rec[1], "degraded") {
			continue
		}
		pairs = append(pairs, pair{ref: rec[0], deg: rec[1]})
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs", errMissingInput)
	}
	return pairs, nil
}
