package prior

import "math"

// Prior maps one unit-interval sample to one physical parameter value.
//
// Nested-sampling engines draw points from the unit hypercube; a Prior is
// the inverse CDF (quantile function) of the chosen distribution, so that
// uniform samples on [0, 1] map to samples from that distribution.
//
// Implementations are immutable and safe for concurrent use.
type Prior interface {
	Transform(u float64) float64
}

// Uniform is a uniform distribution prior on [LBound, UBound].
//
// LBound must be below UBound; inverted bounds are not rejected, the
// transform simply runs backwards. Validating the bounds is the caller's
// responsibility.
type Uniform struct {
	LBound float64
	UBound float64
}

// Transform maps u in [0, 1] linearly onto [LBound, UBound].
func (p Uniform) Transform(u float64) float64 {
	return u*(p.UBound-p.LBound) + p.LBound
}

// Gaussian is a normal distribution prior with the given mean and sigma.
//
// Sigma must be positive. Inputs of exactly 0 or 1 map to -Inf and +Inf
// respectively; these are propagated, not clamped.
type Gaussian struct {
	Mean  float64
	Sigma float64
}

// Transform evaluates the normal quantile function at u:
//
//	x = mean + sigma * sqrt(2) * erfinv(2u - 1)
func (p Gaussian) Transform(u float64) float64 {
	return p.Mean + p.Sigma*math.Sqrt2*math.Erfinv(2*u-1)
}

// Poisson is a Poisson distribution prior with the given mean (rate).
//
// The transform returns the smallest count k whose cumulative probability
// reaches u, as a float64. Inputs at or below 0 map to 0; inputs at or
// above 1 map to +Inf (the distribution has unbounded support).
type Poisson struct {
	Mean float64
}

// Transform evaluates the Poisson quantile function at u by walking the
// CDF with the pmf recurrence p(k+1) = p(k) * mean / (k+1).
func (p Poisson) Transform(u float64) float64 {
	if u <= 0 || p.Mean <= 0 {
		return 0
	}

	if u >= 1 {
		return math.Inf(1)
	}

	pmf := math.Exp(-p.Mean)
	if pmf == 0 {
		// exp(-mean) underflows for mean beyond ~745; the distribution is
		// then indistinguishable from a normal with matching moments.
		k := math.Round(p.Mean + math.Sqrt(p.Mean)*math.Sqrt2*math.Erfinv(2*u-1))
		return math.Max(k, 0)
	}

	cdf := pmf

	k := 0.0
	for cdf < u {
		k++
		pmf *= p.Mean / k
		cdf += pmf

		// Past roughly mean + 40*sqrt(mean) the remaining tail mass is
		// below float64 resolution; cdf can no longer grow.
		if pmf == 0 {
			break
		}
	}

	return k
}

// Fixed holds a parameter constant during the fit.
type Fixed struct {
	Value float64
}

// Transform ignores u and returns the fixed value.
func (p Fixed) Transform(_ float64) float64 {
	return p.Value
}
