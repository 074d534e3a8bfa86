package selector

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/cwbudde/algo-visqol/nsim"
	"github.com/cwbudde/algo-visqol/patch"
	"github.com/cwbudde/algo-visqol/spectrogram"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Errors returned by the selector.
var (
	ErrSignalsTooDifferent = errors.New("selector: no reference patch fits the degraded spectrogram")

	errPatchCount = errors.New("selector: reference patches and indices differ in length")
)

// Comparator scores two equally shaped patches. Implementations must be
// safe for concurrent use.
type Comparator interface {
	Compare(ref, deg *mat.Dense) nsim.Result
}

// Selector finds degraded matches for reference patches.
type Selector struct {
	cmp     Comparator
	builder spectrogram.Builder
	logger  *slog.Logger
	workers int
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger for dropped-patch warnings and realignment
// diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers bounds the goroutines used per search row and during
// realignment. Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New returns a Selector that scores patches with cmp and rebuilds
// spectrograms with b during fine realignment.
func New(cmp Comparator, b spectrogram.Builder, opts ...Option) *Selector {
	s := &Selector{
		cmp:     cmp,
		builder: b,
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Backtrace tags stored alongside the cumulative score.
const (
	nullMatch   int32 = -1 // patch carried its predecessor's score forward
	startOfPath int32 = -2 // first patch, no predecessor
)

type cell struct {
	score float64
	prev  int32
}

// arena is the row-major DP table, one row per reference patch and one
// column per degraded frame.
type arena struct {
	cells []cell
	cols  int
}

func newArena(rows, cols int) *arena {
	a := &arena{cells: make([]cell, rows*cols), cols: cols}
	for i := range a.cells {
		a.cells[i].prev = nullMatch
	}

	return a
}

func (a *arena) row(p int) []cell {
	return a.cells[p*a.cols : (p+1)*a.cols]
}

// CalcMaxNumPatches returns how many leading reference patches fit a
// degraded spectrogram of numDegFrames columns. Trailing patches whose
// index minus half a patch width lies past the degraded end are dropped.
func CalcMaxNumPatches(indices []int, numDegFrames, patchWidth int) int {
	n := len(indices)
	for n > 0 && indices[n-1]-patchWidth/2 > numDegFrames {
		n--
	}

	return n
}

// FindMostOptimalDegPatches matches every reference patch to a window of
// deg. Offsets are searched within searchWindowRadius patch widths of the
// reference index and chained so that successive matches move strictly
// forward in time. Times in the results are derived from frameDuration.
func (s *Selector) FindMostOptimalDegPatches(
	refPatches []*mat.Dense,
	refIndices []int,
	deg *mat.Dense,
	frameDuration float64,
	searchWindowRadius int,
) ([]nsim.Result, error) {
	if len(refPatches) != len(refIndices) {
		return nil, fmt.Errorf("%w: %d patches, %d indices", errPatchCount, len(refPatches), len(refIndices))
	}
	if len(refPatches) == 0 {
		return nil, ErrSignalsTooDifferent
	}

	bands, patchWidth := refPatches[0].Dims()
	_, numDegFrames := deg.Dims()
	window := searchWindowRadius * patchWidth
	patchDuration := frameDuration * float64(patchWidth)

	n := CalcMaxNumPatches(refIndices, numDegFrames, patchWidth)
	if n == 0 {
		return nil, fmt.Errorf("%w: %d degraded frames", ErrSignalsTooDifferent, numDegFrames)
	}
	if n < len(refIndices) {
		s.logger.Warn("degraded signal too short, dropping reference patches",
			"kept", n, "total", len(refIndices), "deg_frames", numDegFrames)
	}

	degPatches := make([]*mat.Dense, numDegFrames)
	for off := range degPatches {
		degPatches[off] = patch.Extract(deg, off, patchWidth)
	}

	dp := newArena(n, numDegFrames)
	for p := 0; p < n; p++ {
		if err := s.fillRow(dp, p, refPatches[p], degPatches, refIndices, window); err != nil {
			return nil, err
		}
	}

	last := n - 1
	lastOffset := 0
	best := -math.MaxFloat64
	lastRow := dp.row(last)
	for off := max(refIndices[last]-window, 0); off <= refIndices[last]+window && off < numDegFrames; off++ {
		if lastRow[off].score > best {
			best = lastRow[off].score
			lastOffset = off
		}
	}

	results := make([]nsim.Result, n)
	off := lastOffset
	for p := last; p >= 0; p-- {
		c := dp.row(p)[off]

		var r nsim.Result
		if c.prev == nullMatch {
			r = nsim.NullResult(bands)
		} else {
			r = s.cmp.Compare(refPatches[p], degPatches[off])
			r.DegPatchStartTime = float64(off) * frameDuration
			r.DegPatchEndTime = r.DegPatchStartTime + patchDuration
		}
		r.RefPatchStartTime = float64(refIndices[p]) * frameDuration
		r.RefPatchEndTime = r.RefPatchStartTime + patchDuration
		results[p] = r

		if c.prev >= 0 {
			off = int(c.prev)
		}
	}

	return results, nil
}

// fillRow scores every candidate offset of reference patch p. Offsets
// are split across workers; each writes only its own cells and reads the
// finished row p-1.
func (s *Selector) fillRow(dp *arena, p int, ref *mat.Dense, degPatches []*mat.Dense, refIndices []int, window int) error {
	lo := max(refIndices[p]-window, 0)
	hi := min(refIndices[p]+window, len(degPatches)-1)
	if lo > hi {
		return nil
	}

	row := dp.row(p)
	var prevRow []cell
	lower := 0
	if p > 0 {
		prevRow = dp.row(p - 1)
		lower = max(refIndices[p-1]-window, 0)
	}

	score := func(off int) {
		sim := s.cmp.Compare(ref, degPatches[off]).Similarity
		if prevRow == nil {
			row[off] = cell{score: sim, prev: startOfPath}
			return
		}

		// Ties resolve to the latest predecessor.
		highest := -math.MaxFloat64
		from := nullMatch
		for back := off - 1; back >= lower; back-- {
			if prevRow[back].score > highest {
				highest = prevRow[back].score
				from = int32(back)
			}
		}

		c := cell{score: sim + highest, prev: from}
		if prevRow[off].score > c.score {
			c = cell{score: prevRow[off].score, prev: nullMatch}
		}
		row[off] = c
	}

	span := hi - lo + 1
	if s.workers <= 1 || span <= 1 {
		for off := lo; off <= hi; off++ {
			score(off)
		}
		return nil
	}
	chunk := (span + s.workers - 1) / s.workers

	var g errgroup.Group
	for start := lo; start <= hi; start += chunk {
		end := min(start+chunk-1, hi)
		g.Go(func() error {
			for off := start; off <= end; off++ {
				score(off)
			}
			return nil
		})
	}

	return g.Wait()
}
