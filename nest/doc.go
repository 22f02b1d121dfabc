// Package nest fits an observed spectrum to a parametrized model grid by
// nested sampling. It owns the glue between the user's prior specification
// and a sampling engine: the prior transform and log-likelihood callbacks
// the engine invokes, and the extraction of posterior summaries from the
// engine's output artifacts.
//
// The sampling algorithm itself is external, behind the [Engine] interface.
// A typical run:
//
//	priors := map[string]prior.Prior{
//	    "teff": prior.Uniform{LBound: 4000, UBound: 7000},
//	    "logg": prior.Gaussian{Mean: 4.4, Sigma: 0.3},
//	}
//	fit, _ := nest.NewFit(obs, priors, model)
//	res, err := fit.Run(engine)
//
// After a run, res holds the headline posterior summary and fit.Analyzer
// gives access to the raw statistics and the equal-weighted posterior
// samples. A nil result with a nil error means the engine produced no
// statistics file; MultiNest-family engines silently truncate long output
// prefixes, so a missing file is a recognized terminal state, not an error.
//
// When the posterior is multi-modal only the first reported mode is
// promoted to the headline mean and sigma. This is a deliberate
// simplification kept from the original design; all modes remain available
// through [Analyzer.Stats].
package nest
