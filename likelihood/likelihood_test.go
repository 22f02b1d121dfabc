package likelihood

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-nest/spectrum"
)

// fakeModel returns spectra from a closure over the bound parameters.
type fakeModel struct {
	eval func(params []Param) (*spectrum.Spectrum, error)
}

func (m *fakeModel) Evaluate(params []Param) (*spectrum.Spectrum, error) {
	return m.eval(params)
}

func testData(t *testing.T) *spectrum.Spectrum {
	t.Helper()

	s, err := spectrum.New(
		[]float64{5000, 5001, 5002, 5003},
		[]float64{1.0, 0.8, 0.9, 1.1},
		[]float64{0.05, 0.04, 0.05, 0.06},
	)
	if err != nil {
		t.Fatalf("spectrum.New: %v", err)
	}

	return s
}

func constModel(flux []float64) *fakeModel {
	return &fakeModel{eval: func([]Param) (*spectrum.Spectrum, error) {
		return &spectrum.Spectrum{Flux: flux}, nil
	}}
}

func TestScorePerfectModelIsZero(t *testing.T) {
	data := testData(t)

	e, err := NewEvaluator(data, constModel(data.Flux), []string{"teff"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	ll, err := e.Score([]float64{5500})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if ll != 0 {
		t.Fatalf("log-likelihood = %g, want 0 for a perfect model", ll)
	}
}

func TestScoreKnownChiSquare(t *testing.T) {
	data, err := spectrum.New(
		[]float64{1, 2},
		[]float64{1, 2},
		[]float64{0.5, 1},
	)
	if err != nil {
		t.Fatalf("spectrum.New: %v", err)
	}

	// Residuals: (1-1.5)/0.5 = -1, (2-3)/1 = -1; chi2 = 2.
	e, err := NewEvaluator(data, constModel([]float64{1.5, 3}), []string{"x"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	ll, err := e.Score([]float64{0})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if math.Abs(ll-(-1)) > 1e-12 {
		t.Fatalf("log-likelihood = %g, want -1", ll)
	}
}

func TestScoreSignFlipInvariant(t *testing.T) {
	data := testData(t)

	delta := []float64{0.01, -0.02, 0.03, -0.01}

	plus := make([]float64, len(data.Flux))
	minus := make([]float64, len(data.Flux))
	for i := range data.Flux {
		plus[i] = data.Flux[i] + delta[i]
		minus[i] = data.Flux[i] - delta[i]
	}

	ePlus, err := NewEvaluator(data, constModel(plus), []string{"x"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	eMinus, err := NewEvaluator(data, constModel(minus), []string{"x"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	llPlus, err := ePlus.Score([]float64{0})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	llMinus, err := eMinus.Score([]float64{0})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if math.Abs(llPlus-llMinus) > 1e-12 {
		t.Fatalf("sign flip changed score: %g vs %g", llPlus, llMinus)
	}
	if llPlus >= 0 {
		t.Fatalf("imperfect model scored %g, want < 0", llPlus)
	}
}

func TestScoreBindsParametersByNameInOrder(t *testing.T) {
	data := testData(t)

	var seen []Param

	model := &fakeModel{eval: func(params []Param) (*spectrum.Spectrum, error) {
		seen = append([]Param(nil), params...)
		return &spectrum.Spectrum{Flux: data.Flux}, nil
	}}

	e, err := NewEvaluator(data, model, []string{"teff", "logg"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	_, err = e.Score([]float64{5777, 4.44})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if len(seen) != 2 || seen[0] != (Param{"teff", 5777}) || seen[1] != (Param{"logg", 4.44}) {
		t.Fatalf("model saw %v", seen)
	}
}

func TestScorePropagatesModelError(t *testing.T) {
	data := testData(t)

	gridErr := errors.New("parameter outside grid")
	model := &fakeModel{eval: func([]Param) (*spectrum.Spectrum, error) {
		return nil, gridErr
	}}

	e, err := NewEvaluator(data, model, []string{"x"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	_, err = e.Score([]float64{1e9})
	if !errors.Is(err, gridErr) {
		t.Fatalf("err = %v, want wrapped grid error", err)
	}
}

func TestScoreDimensionMismatch(t *testing.T) {
	data := testData(t)

	e, err := NewEvaluator(data, constModel(data.Flux), []string{"x", "y"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	_, err = e.Score([]float64{1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestScoreModelLengthMismatch(t *testing.T) {
	data := testData(t)

	e, err := NewEvaluator(data, constModel([]float64{1, 2}), []string{"x"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	_, err = e.Score([]float64{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestNewEvaluatorRequiresUncertainty(t *testing.T) {
	data := &spectrum.Spectrum{
		Wavelength: []float64{1, 2},
		Flux:       []float64{1, 2},
	}

	_, err := NewEvaluator(data, constModel(data.Flux), []string{"x"})
	if !errors.Is(err, ErrNoUncertainty) {
		t.Fatalf("err = %v, want ErrNoUncertainty", err)
	}
}
