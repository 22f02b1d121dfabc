// Package likelihood scores physical parameter vectors against an observed
// spectrum using a model evaluator.
//
// The chi-square log-likelihood implemented here is the default scoring
// function of the fit orchestrator; callers with non-Gaussian noise models
// can supply their own [Scorer].
package likelihood

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nest/spectrum"
)

// Errors returned by evaluator construction and scoring.
var (
	ErrNoUncertainty     = errors.New("likelihood: observed spectrum has no uncertainties")
	ErrDimensionMismatch = errors.New("likelihood: parameter count mismatch")
	ErrLengthMismatch    = errors.New("likelihood: model flux length does not match data")
)

// Param is one named parameter value, bound by position for the model.
type Param struct {
	Name  string
	Value float64
}

// ModelEvaluator produces a model spectrum for a parameter vector. The
// returned flux must be aligned to the observed wavelength grid.
//
// An error (typically a parameter outside the model grid) is fatal for the
// current sample and is propagated unchanged to the caller.
type ModelEvaluator interface {
	Evaluate(params []Param) (*spectrum.Spectrum, error)
}

// Scorer is the capability the fit orchestrator needs: a log-likelihood
// for one physical parameter vector.
type Scorer interface {
	Score(values []float64) (float64, error)
}

// Evaluator is the default chi-square scorer. It binds one observed
// spectrum and one model evaluator to a fixed parameter-name ordering:
//
//	logL = -0.5 * sum( ((obsFlux - modelFlux) / obsUncertainty)^2 )
//
// An Evaluator holds no mutable state between calls and is safe for
// concurrent use; sampling engines may score many points in parallel.
type Evaluator struct {
	data   *spectrum.Spectrum
	model  ModelEvaluator
	names  []string
	invUnc []float64

	// Residual scratch buffers, pooled so concurrent scores do not
	// contend or allocate in steady state.
	scratch sync.Pool
}

// NewEvaluator builds an Evaluator. The observed spectrum must carry
// uncertainties; names fixes the parameter order for model binding.
func NewEvaluator(data *spectrum.Spectrum, model ModelEvaluator, names []string) (*Evaluator, error) {
	err := data.Validate()
	if err != nil {
		return nil, err
	}

	if data.Uncertainty == nil {
		return nil, ErrNoUncertainty
	}

	n := data.Len()

	invUnc := make([]float64, n)
	for i, u := range data.Uncertainty {
		invUnc[i] = 1 / u
	}

	e := &Evaluator{
		data:   data,
		model:  model,
		names:  append([]string(nil), names...),
		invUnc: invUnc,
	}
	e.scratch.New = func() any {
		buf := make([]float64, n)
		return &buf
	}

	return e, nil
}

// ParameterNames returns the bound parameter names in order.
func (e *Evaluator) ParameterNames() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Score returns the chi-square log-likelihood of the parameter vector.
// A perfect model (flux identical to the data) scores exactly 0, the
// maximum; everything else is strictly negative. Model errors propagate.
func (e *Evaluator) Score(values []float64) (float64, error) {
	if len(values) != len(e.names) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(values), len(e.names))
	}

	params := make([]Param, len(values))
	for i, v := range values {
		params[i] = Param{Name: e.names[i], Value: v}
	}

	m, err := e.model.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("likelihood: model evaluation: %w", err)
	}

	if len(m.Flux) != e.data.Len() {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(m.Flux), e.data.Len())
	}

	buf := e.scratch.Get().(*[]float64)
	r := *buf

	// r = (data - model) / uncertainty, then chi2 = r . r
	vecmath.ScaleBlock(r, m.Flux, -1)
	vecmath.AddBlockInPlace(r, e.data.Flux)
	vecmath.MulBlockInPlace(r, e.invUnc)
	chi2 := vecmath.DotProduct(r, r)

	e.scratch.Put(buf)

	return -0.5 * chi2, nil
}
