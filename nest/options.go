package nest

import (
	"io"
	"time"

	"github.com/cwbudde/algo-nest/likelihood"
)

// FitConfig defines construction-time configuration for a [Fit].
type FitConfig struct {
	Basename   string
	Likelihood likelihood.Scorer
	Sink       io.Writer
}

// FitOption mutates a FitConfig.
type FitOption func(*FitConfig)

// DefaultFitConfig returns sensible defaults.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Basename: "chains/spectrumFit_",
	}
}

// WithBasename sets the output file prefix for all engine artifacts.
func WithBasename(basename string) FitOption {
	return func(cfg *FitConfig) {
		if basename != "" {
			cfg.Basename = basename
		}
	}
}

// WithLikelihood replaces the default chi-square scorer.
func WithLikelihood(scorer likelihood.Scorer) FitOption {
	return func(cfg *FitConfig) {
		cfg.Likelihood = scorer
	}
}

// WithSink sets the writer receiving diagnostic and progress output.
// Defaults to stderr. Writes are serialized by the fit.
func WithSink(w io.Writer) FitOption {
	return func(cfg *FitConfig) {
		cfg.Sink = w
	}
}

// ApplyFitOptions applies zero or more options to the default config.
func ApplyFitOptions(opts ...FitOption) FitConfig {
	cfg := DefaultFitConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// RunSettings defines per-run configuration.
type RunSettings struct {
	Resume           bool
	Verbose          bool
	ProgressInterval time.Duration // 0 disables the progress watcher
	EngineOptions    map[string]any
}

// RunOption mutates a RunSettings.
type RunOption func(*RunSettings)

// DefaultRunSettings returns sensible defaults.
func DefaultRunSettings() RunSettings {
	return RunSettings{}
}

// WithResume continues a previous run from the engine's checkpoints.
func WithResume(resume bool) RunOption {
	return func(s *RunSettings) {
		s.Resume = resume
	}
}

// WithVerbose enables the engine's own progress output.
func WithVerbose(verbose bool) RunOption {
	return func(s *RunSettings) {
		s.Verbose = verbose
	}
}

// WithProgress enables the live/rejected point watcher at the given
// polling interval. The watcher only reports; disabling it never affects
// results.
func WithProgress(interval time.Duration) RunOption {
	return func(s *RunSettings) {
		if interval > 0 {
			s.ProgressInterval = interval
		}
	}
}

// WithEngineOption passes one engine-specific setting through unchanged.
func WithEngineOption(key string, value any) RunOption {
	return func(s *RunSettings) {
		if s.EngineOptions == nil {
			s.EngineOptions = make(map[string]any)
		}

		s.EngineOptions[key] = value
	}
}

// ApplyRunOptions applies zero or more options to the default settings.
func ApplyRunOptions(opts ...RunOption) RunSettings {
	s := DefaultRunSettings()

	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	return s
}
