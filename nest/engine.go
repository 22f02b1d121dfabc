package nest

// LogLikelihoodFunc scores one physical parameter vector. Engines treat
// -Inf as an invalid point per their own policy.
type LogLikelihoodFunc func(values []float64) float64

// PriorTransformFunc rewrites a unit hypercube point into physical
// parameter values in place, applying the i-th prior to cube[i].
type PriorTransformFunc func(cube []float64)

// RunConfig is the engine-facing configuration for one sampling run.
type RunConfig struct {
	// OutputPrefix is prepended to every artifact file the engine writes
	// (chains, statistics, live points).
	OutputPrefix string

	// Resume continues a previous run from its checkpoint files.
	Resume bool

	// Verbose enables the engine's own progress output.
	Verbose bool

	// Options carries engine-specific settings (live point count,
	// sampling efficiency, tolerance) passed through untouched.
	Options map[string]any
}

// Engine is the nested-sampling boundary. Run blocks until sampling
// converges or fails, invoking the two callbacks many times, possibly
// concurrently from internal workers; both callbacks supplied by this
// package are safe for that. Artifacts are written under
// cfg.OutputPrefix as a side effect.
type Engine interface {
	Run(logLike LogLikelihoodFunc, transform PriorTransformFunc, nDims int, cfg RunConfig) error
}
