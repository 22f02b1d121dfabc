package nest

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-nest/likelihood"
	"github.com/cwbudde/algo-nest/prior"
	"github.com/cwbudde/algo-nest/spectrum"
)

// Model is a spectral grid model: it declares its parameter names (fixing
// the cube order) and evaluates one spectrum per parameter vector.
type Model interface {
	likelihood.ModelEvaluator

	// Parameters returns the model's parameter names in canonical order.
	Parameters() []string
}

// Result is the headline posterior summary of a completed run. All
// vectors have one entry per free parameter, in cube order.
//
// For multi-modal posteriors Mean and Sigma come from the first reported
// mode only; secondary modes are available via [Analyzer.Stats].
type Result struct {
	Mean        []float64
	Sigma       []float64
	Evidence    float64
	EvidenceErr float64
	Sigma1      []Interval
	Sigma3      []Interval
}

// Fit drives one sampling run: it wires the prior transform and the
// likelihood scorer into the engine interface, persists the parameter
// order, and extracts the posterior summary from the engine's artifacts.
//
// Result and Analyzer are nil until Run completes; Result stays nil when
// the engine produced no statistics file.
type Fit struct {
	Result   *Result
	Stats    *Stats
	Analyzer *Analyzer

	data     *spectrum.Spectrum
	model    Model
	priors   *prior.Set
	names    []string
	scorer   likelihood.Scorer
	basename string
	sink     *sink
}

// NewFit validates the prior specification against the model's parameter
// list and builds the orchestrator. Configuration errors (unknown
// parameter names, missing uncertainties) surface here, before any
// sampling work.
//
// Without [WithLikelihood] the chi-square scorer over the observed
// spectrum is used.
func NewFit(data *spectrum.Spectrum, priors map[string]prior.Prior, model Model, opts ...FitOption) (*Fit, error) {
	cfg := ApplyFitOptions(opts...)

	set, err := prior.NewSet(priors, model.Parameters())
	if err != nil {
		return nil, err
	}

	scorer := cfg.Likelihood
	if scorer == nil {
		scorer, err = likelihood.NewEvaluator(data, model, set.Names())
		if err != nil {
			return nil, err
		}
	}

	return &Fit{
		data:     data,
		model:    model,
		priors:   set,
		names:    set.Names(),
		scorer:   scorer,
		basename: cfg.Basename,
		sink:     newSink(cfg.Sink),
	}, nil
}

// NParams returns the number of free parameters.
func (f *Fit) NParams() int {
	return f.priors.Len()
}

// ParameterNames returns the free parameter names in cube order.
func (f *Fit) ParameterNames() []string {
	return f.priors.Names()
}

// Basename returns the output prefix for engine artifacts.
func (f *Fit) Basename() string {
	return f.basename
}

// Run executes one sampling run and summarizes its output.
//
// The call blocks for the full duration of sampling. A (nil, nil) return
// means the run finished but the engine left no statistics file; result
// fields stay unset and the condition is terminal, not an error. Engine
// failures are returned as errors without retry.
func (f *Fit) Run(engine Engine, opts ...RunOption) (*Result, error) {
	settings := ApplyRunOptions(opts...)

	err := os.MkdirAll(filepath.Dir(f.basename), 0o755)
	if err != nil {
		return nil, fmt.Errorf("nest: create output directory: %w", err)
	}

	if settings.ProgressInterval > 0 {
		watcher := newProgressWatcher(f.basename, settings.ProgressInterval, f.sink)
		watcher.start()

		defer watcher.halt()
	}

	cfg := RunConfig{
		OutputPrefix: f.basename,
		Resume:       settings.Resume,
		Verbose:      settings.Verbose,
		Options:      settings.EngineOptions,
	}

	err = engine.Run(f.logLikelihood, f.priorTransform, f.NParams(), cfg)
	if err != nil {
		return nil, fmt.Errorf("nest: sampling run: %w", err)
	}

	err = f.writeParameterNames()
	if err != nil {
		return nil, err
	}

	f.Analyzer = NewAnalyzer(f.basename, f.NParams())

	return f.summarize()
}

// logLikelihood adapts the scorer to the engine callback contract.
// Evaluation errors (parameter vectors outside the model grid) mark the
// point invalid via -Inf; the engine's own policy governs from there.
func (f *Fit) logLikelihood(values []float64) float64 {
	ll, err := f.scorer.Score(values)
	if err != nil {
		f.sink.printf("nest: likelihood: %v\n", err)
		return math.Inf(-1)
	}

	return ll
}

// priorTransform adapts the prior set to the engine callback contract.
func (f *Fit) priorTransform(cube []float64) {
	err := f.priors.TransformInPlace(cube)
	if err != nil {
		f.sink.printf("nest: prior transform: %v\n", err)
	}
}

// writeParameterNames persists the cube-ordered name list next to the
// sampling output so summaries can be reloaded without the Fit object.
func (f *Fit) writeParameterNames() error {
	data, err := json.Marshal(f.names)
	if err != nil {
		return fmt.Errorf("nest: encode parameter names: %w", err)
	}

	err = os.WriteFile(f.basename+"params.json", data, 0o644)
	if err != nil {
		return fmt.Errorf("nest: write parameter names: %w", err)
	}

	return nil
}

// summarize parses the engine artifacts into a Result. Either every
// field populates or none do: any defect in the artifacts is reported
// through the sink and aborts only the summarization, leaving Result nil.
func (f *Fit) summarize() (*Result, error) {
	if !f.Analyzer.StatsAvailable() {
		return nil, nil
	}

	stats, err := f.Analyzer.Stats()
	if err != nil {
		f.sink.printf("nest: summarization skipped: %v\n", err)
		return nil, nil
	}

	marginals, err := f.Analyzer.Marginals()
	if err != nil {
		f.sink.printf("nest: summarization skipped: %v\n", err)
		return nil, nil
	}

	first := stats.Modes[0]

	res := &Result{
		Mean:        first.Mean,
		Sigma:       first.Sigma,
		Evidence:    stats.GlobalEvidence,
		EvidenceErr: stats.GlobalEvidenceErr,
		Sigma1:      make([]Interval, len(marginals)),
		Sigma3:      make([]Interval, len(marginals)),
	}
	for i, m := range marginals {
		res.Sigma1[i] = m.Sigma1
		res.Sigma3[i] = m.Sigma3
	}

	f.Stats = stats
	f.Result = res

	return res, nil
}
