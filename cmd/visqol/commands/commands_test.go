package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/internal/testutil"
	"github.com/cwbudde/algo-visqol/visqol"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func writeSpeech(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	s := audio.Signal{
		Samples:    testutil.Bursts(1, 150, 16000, 4000, 2000, 5),
		SampleRate: 16000,
	}
	if err := audio.WriteWAV(path, s, 16); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompareJSON(t *testing.T) {
	dir := t.TempDir()
	ref := writeSpeech(t, dir, "ref.wav")
	deg := writeSpeech(t, dir, "deg.wav")

	out, err := run(t, "compare", "--speech-mode", "--ref", ref, "--deg", deg, "--output", "json", "--patches")
	if err != nil {
		t.Fatal(err)
	}

	var r report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if r.Reference != ref || r.Degraded != deg {
		t.Errorf("paths = %q, %q", r.Reference, r.Degraded)
	}
	testutil.RequireNearlyEqual(t, "moslqo", r.MOSLQO, 4.99997, 1e-4)
	testutil.RequireNearlyEqual(t, "vnsim", r.VNSIM, 1, 1e-6)
	if len(r.FVNSIM) != visqol.NumBandsSpeech {
		t.Errorf("fvnsim has %d bands", len(r.FVNSIM))
	}
	if len(r.Patches) == 0 {
		t.Error("patches missing with --patches")
	}
}

func TestCompareText(t *testing.T) {
	dir := t.TempDir()
	ref := writeSpeech(t, dir, "ref.wav")

	out, err := run(t, "compare", "--speech-mode", "--ref", ref, "--deg", ref, "--patches")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"MOS-LQO", "4.99997", "SIMILARITY"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompareAudioModeWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "model.txt", "svm_type nu_svr\nkernel_type linear\nrho -1\nSV\n2 1:1\n")
	cfg := writeFile(t, dir, "visqol.yaml", "mode: audio\nmodel: "+model+"\n")

	ref := filepath.Join(dir, "ref.wav")
	s := audio.Signal{
		Samples:    testutil.Bursts(2, 300, 48000, 12000, 6000, 5),
		SampleRate: 48000,
	}
	if err := audio.WriteWAV(ref, s, 24); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "compare", "--config", cfg, "--ref", ref, "--deg", ref, "--output", "json")
	if err != nil {
		t.Fatal(err)
	}

	var r report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}
	// 2*fvnsim[0] + 1 with fvnsim[0] at 1.
	testutil.RequireNearlyEqual(t, "moslqo", r.MOSLQO, 3, 1e-4)
	if len(r.FVNSIM) != visqol.NumBandsAudio {
		t.Errorf("fvnsim has %d bands", len(r.FVNSIM))
	}
}

func TestCompareErrors(t *testing.T) {
	dir := t.TempDir()
	ref := writeSpeech(t, dir, "ref.wav")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "missing deg", args: []string{"compare", "--ref", ref}, want: errMissingInput},
		{name: "audio without model", args: []string{"compare", "--ref", ref, "--deg", ref}, want: visqol.ErrModelRequired},
		{name: "bad window", args: []string{"compare", "--speech-mode", "--search-window", "0", "--ref", ref, "--deg", ref}, want: visqol.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := run(t, "compare", "--speech-mode", "--ref", ref, "--deg", ref, "--output", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	ref := writeSpeech(t, dir, "ref.wav")
	deg := writeSpeech(t, dir, "deg.wav")
	missing := filepath.Join(dir, "missing.wav")
	pairs := writeFile(t, dir, "pairs.csv", "reference,degraded\n"+ref+","+deg+"\n"+ref+","+missing+"\n")

	out, err := run(t, "batch", "--speech-mode", "--pairs", pairs, "--jobs", "2", "--output", "csv")
	if !errors.Is(err, errBatchFailed) {
		t.Fatalf("got %v, want %v", err, errBatchFailed)
	}

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header and 2 pairs:\n%s", len(rows), out)
	}
	if rows[1][1] != deg || rows[1][4] != "" {
		t.Errorf("first pair row = %v", rows[1])
	}
	if !strings.HasPrefix(rows[1][2], "4.9999") {
		t.Errorf("first pair moslqo = %q", rows[1][2])
	}
	if rows[2][1] != missing || rows[2][2] != "" || rows[2][4] == "" {
		t.Errorf("failed pair row = %v", rows[2])
	}
}

func TestReadPairs(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []pair
		wantErr bool
	}{
		{
			name: "header",
			in:   "reference,degraded\na.wav,b.wav\n",
			want: []pair{{"a.wav", "b.wav"}},
		},
		{
			name: "no header with comment",
			in:   "# listening test\na.wav, b.wav\nc.wav,d.wav\n",
			want: []pair{{"a.wav", "b.wav"}, {"c.wav", "d.wav"}},
		},
		{name: "empty", in: "reference,degraded\n", wantErr: true},
		{name: "wrong field count", in: "a.wav,b.wav,c.wav\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPairs(strings.NewReader(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pair %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "visqol.yaml", "mode: speech\nsearch_window: 30\nresample: true\n")

	tests := []struct {
		name string
		args []string
		want visqol.Config
	}{
		{
			name: "defaults",
			want: visqol.DefaultConfig(),
		},
		{
			name: "file",
			args: []string{"--config", file},
			want: visqol.Config{Mode: visqol.ModeSpeech, SearchWindowRadius: 30, Resample: true},
		},
		{
			name: "flags override file",
			args: []string{"--config", file, "--search-window", "45", "--resample=false", "--unscaled-speech-mos"},
			want: visqol.Config{Mode: visqol.ModeSpeech, SearchWindowRadius: 45, UseUnscaledSpeechMOSMapping: true},
		},
		{
			name: "speech flag off",
			args: []string{"--config", file, "--speech-mode=false", "--model", "m.txt"},
			want: visqol.Config{Mode: visqol.ModeAudio, SearchWindowRadius: 30, ModelPath: "m.txt", Resample: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &globalFlags{}
			cmd := &cobra.Command{Use: "test"}
			bindGlobalFlags(cmd.PersistentFlags(), g)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}

			got, err := loadConfig(cmd, g)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	dir := t.TempDir()
	for _, content := range []string{"mode: [speech\n", "mode: music\n"} {
		g := &globalFlags{}
		cmd := &cobra.Command{Use: "test"}
		bindGlobalFlags(cmd.PersistentFlags(), g)
		g.configFile = writeFile(t, dir, "bad.yaml", content)

		if _, err := loadConfig(cmd, g); err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "visqol dev") || !strings.Contains(out, "cpu: ") {
		t.Errorf("unexpected version output:\n%s", out)
	}
}

func TestSIMDFeatures(t *testing.T) {
	tests := []struct {
		f    cpu.Features
		want string
	}{
		{cpu.Features{Architecture: "amd64", HasSSE2: true, HasAVX: true, HasAVX2: true}, "amd64 sse2,avx,avx2"},
		{cpu.Features{Architecture: "arm64", HasNEON: true}, "arm64 neon"},
		{cpu.Features{Architecture: "wasm"}, "wasm generic"},
	}

	for _, tt := range tests {
		if got := simdFeatures(tt.f); got != tt.want {
			t.Errorf("simdFeatures(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}
