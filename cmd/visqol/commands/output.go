package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/algo-visqol/nsim"
	"github.com/cwbudde/algo-visqol/visqol"
)

// outputFormat selects how reports are written.
type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
	formatCSV  outputFormat = "csv"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case formatText, formatJSON, formatYAML, formatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// report is the outcome of one reference/degraded pair.
type report struct {
	Reference       string        `json:"reference" yaml:"reference"`
	Degraded        string        `json:"degraded" yaml:"degraded"`
	MOSLQO          float64       `json:"moslqo" yaml:"moslqo"`
	VNSIM           float64       `json:"vnsim" yaml:"vnsim"`
	FVNSIM          []float64     `json:"fvnsim,omitempty" yaml:"fvnsim,omitempty"`
	FSTDNSIM        []float64     `json:"fstdnsim,omitempty" yaml:"fstdnsim,omitempty"`
	FVDegEnergy     []float64     `json:"fvdegenergy,omitempty" yaml:"fvdegenergy,omitempty"`
	CenterFreqBands []float64     `json:"center_freq_bands,omitempty" yaml:"center_freq_bands,omitempty"`
	Patches         []nsim.Result `json:"patches,omitempty" yaml:"patches,omitempty"`
	Error           string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func newReport(ref, deg string, res *visqol.SimilarityResult, withPatches bool) report {
	r := report{
		Reference:       ref,
		Degraded:        deg,
		MOSLQO:          res.MOSLQO,
		VNSIM:           res.VNSIM,
		FVNSIM:          res.FVNSIM,
		FSTDNSIM:        res.FSTDNSIM,
		FVDegEnergy:     res.FVDegEnergy,
		CenterFreqBands: res.CenterFreqBands,
	}
	if withPatches {
		r.Patches = res.Patches
	}
	return r
}

func writeReports(w io.Writer, format outputFormat, reports []report) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	case formatYAML:
		var v any = reports
		if len(reports) == 1 {
			v = reports[0]
		}
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case formatCSV:
		return writeCSV(w, reports)
	default:
		return writeText(w, reports)
	}
}

func writeCSV(w io.Writer, reports []report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"reference", "degraded", "moslqo", "vnsim", "error"}); err != nil {
		return err
	}
	for _, r := range reports {
		row := []string{r.Reference, r.Degraded, "", "", r.Error}
		if r.Error == "" {
			row[2] = formatFloat(r.MOSLQO)
			row[3] = formatFloat(r.VNSIM)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeText(w io.Writer, reports []report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REFERENCE\tDEGRADED\tMOS-LQO\tVNSIM\tERROR")
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t%s\n", r.Reference, r.Degraded, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.5f\t%.5f\t\n", r.Reference, r.Degraded, r.MOSLQO, r.VNSIM)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range reports {
		if len(r.Patches) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", r.Degraded)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "PATCH\tREF START\tREF END\tDEG START\tDEG END\tSIMILARITY\t")
		for i, p := range r.Patches {
			if p.Null {
				fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t-\t-\tnull\t\n", i, p.RefPatchStartTime, p.RefPatchEndTime)
				continue
			}
			fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.4f\t\n", i,
				p.RefPatchStartTime, p.RefPatchEndTime, p.DegPatchStartTime, p.DegPatchEndTime, p.Similarity)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
