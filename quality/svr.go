package quality

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Errors returned while loading SVR models.
var (
	ErrInvalidModel     = errors.New("quality: invalid svr model")
	ErrUnsupportedModel = errors.New("quality: unsupported svr model")
)

// Kernel is a libsvm kernel function.
type Kernel int

// Supported kernels.
const (
	KernelLinear Kernel = iota
	KernelPoly
	KernelRBF
	KernelSigmoid
)

var kernelNames = map[string]Kernel{
	"linear":     KernelLinear,
	"polynomial": KernelPoly,
	"rbf":        KernelRBF,
	"sigmoid":    KernelSigmoid,
}

// SVRModel is a trained epsilon- or nu-SVR model. Support vectors are
// stored densely; feature i of the libsvm file lands at index i-1.
type SVRModel struct {
	Kernel         Kernel
	Gamma          float64
	Coef0          float64
	Degree         int
	Rho            float64
	Coefs          []float64
	SupportVectors [][]float64
}

// LoadSVRModelFile reads a libsvm model from path.
func LoadSVRModelFile(path string) (*SVRModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("quality: %w", err)
	}
	defer f.Close()

	m, err := LoadSVRModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// LoadSVRModel parses a libsvm text model. Only regression models with a
// single rho are accepted.
func LoadSVRModel(r io.Reader) (*SVRModel, error) {
	m := &SVRModel{Kernel: KernelRBF, Degree: 3}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		line    int
		inSV    bool
		sawRho  bool
		sawType bool
	)
	totalSV := -1

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		if inSV {
			coef, sv, err := parseSupportVector(text)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidModel, line, err)
			}
			m.Coefs = append(m.Coefs, coef)
			m.SupportVectors = append(m.SupportVectors, sv)
			continue
		}

		key, value, _ := strings.Cut(text, " ")
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "svm_type":
			if value != "epsilon_svr" && value != "nu_svr" {
				return nil, fmt.Errorf("%w: svm_type %q", ErrUnsupportedModel, value)
			}
			sawType = true
		case "kernel_type":
			k, ok := kernelNames[value]
			if !ok {
				return nil, fmt.Errorf("%w: kernel_type %q", ErrUnsupportedModel, value)
			}
			m.Kernel = k
		case "gamma":
			m.Gamma, err = strconv.ParseFloat(value, 64)
		case "coef0":
			m.Coef0, err = strconv.ParseFloat(value, 64)
		case "degree":
			m.Degree, err = strconv.Atoi(value)
		case "rho":
			if strings.Contains(value, " ") {
				return nil, fmt.Errorf("%w: multiple rho values", ErrUnsupportedModel)
			}
			m.Rho, err = strconv.ParseFloat(value, 64)
			sawRho = true
		case "total_sv":
			totalSV, err = strconv.Atoi(value)
		case "SV":
			inSV = true
		case "nr_class", "label", "nr_sv", "probA", "probB":
		default:
			return nil, fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidModel, line, key)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidModel, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	switch {
	case !sawType:
		return nil, fmt.Errorf("%w: missing svm_type", ErrInvalidModel)
	case !sawRho:
		return nil, fmt.Errorf("%w: missing rho", ErrInvalidModel)
	case !inSV || len(m.SupportVectors) == 0:
		return nil, fmt.Errorf("%w: no support vectors", ErrInvalidModel)
	case totalSV >= 0 && totalSV != len(m.SupportVectors):
		return nil, fmt.Errorf("%w: total_sv %d, found %d", ErrInvalidModel, totalSV, len(m.SupportVectors))
	}

	return m, nil
}

// parseSupportVector reads "coef idx:val idx:val ...".
func parseSupportVector(text string) (float64, []float64, error) {
	fields := strings.Fields(text)
	coef, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, nil, err
	}

	var sv []float64
	for _, f := range fields[1:] {
		idxText, valText, ok := strings.Cut(f, ":")
		if !ok {
			return 0, nil, fmt.Errorf("malformed feature %q", f)
		}
		idx, err := strconv.Atoi(idxText)
		if err != nil || idx < 1 {
			return 0, nil, fmt.Errorf("bad feature index %q", idxText)
		}
		val, err := strconv.ParseFloat(valText, 64)
		if err != nil {
			return 0, nil, err
		}
		if idx > len(sv) {
			sv = append(sv, make([]float64, idx-len(sv))...)
		}
		sv[idx-1] = val
	}

	return coef, sv, nil
}

// Predict returns sum(coef_i * K(sv_i, x)) - rho. Features missing from
// either side count as zero.
func (m *SVRModel) Predict(x []float64) float64 {
	var sum float64
	for i, sv := range m.SupportVectors {
		sum += m.Coefs[i] * m.kernel(sv, x)
	}

	return sum - m.Rho
}

func (m *SVRModel) kernel(sv, x []float64) float64 {
	switch m.Kernel {
	case KernelLinear:
		return dot(sv, x)
	case KernelPoly:
		return math.Pow(m.Gamma*dot(sv, x)+m.Coef0, float64(m.Degree))
	case KernelSigmoid:
		return math.Tanh(m.Gamma*dot(sv, x) + m.Coef0)
	default:
		return math.Exp(-m.Gamma * sqDist(sv, x))
	}
}

func dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	return floats.Dot(a[:n], b[:n])
}

func sqDist(a, b []float64) float64 {
	n := min(len(a), len(b))
	d := floats.Distance(a[:n], b[:n], 2)
	d *= d
	for _, v := range a[n:] {
		d += v * v
	}
	for _, v := range b[n:] {
		d += v * v
	}

	return d
}

// SVRMapper predicts MOS with an SVR model.
type SVRMapper struct {
	Model *SVRModel
}

// NewSVRMapper loads the model at path.
func NewSVRMapper(path string) (*SVRMapper, error) {
	m, err := LoadSVRModelFile(path)
	if err != nil {
		return nil, err
	}

	return &SVRMapper{Model: m}, nil
}

// PredictQuality returns the model output clamped to [MinMOS, MaxMOS].
func (m *SVRMapper) PredictQuality(features []float64) float64 {
	return clampMOS(m.Model.Predict(features))
}
