package prior

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by Set construction and transforms.
var (
	ErrUnknownParameter  = errors.New("prior: parameter not in model parameter list")
	ErrDimensionMismatch = errors.New("prior: cube length does not match prior count")
	ErrEmptySet          = errors.New("prior: no priors given")
)

// Set is an ordered, name-keyed collection of priors defining the full
// transform from a unit hypercube point to a physical parameter vector.
//
// The order is fixed at construction: parameters are arranged by their
// position in the model's declared parameter list, and cube index i always
// maps to the i-th parameter. The set is immutable afterwards and safe for
// concurrent transforms.
type Set struct {
	names  []string
	priors []Prior
}

// NewSet builds a Set from named priors, ordered by each name's position in
// the model's parameter list. Every prior name must appear in the list;
// an unknown name is a configuration error reported before any sampling.
func NewSet(priors map[string]Prior, parameterList []string) (*Set, error) {
	if len(priors) == 0 {
		return nil, ErrEmptySet
	}

	index := make(map[string]int, len(parameterList))
	for i, name := range parameterList {
		index[name] = i
	}

	names := make([]string, 0, len(priors))
	for name := range priors {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}

		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return index[names[i]] < index[names[j]]
	})

	s := &Set{
		names:  names,
		priors: make([]Prior, len(names)),
	}
	for i, name := range names {
		s.priors[i] = priors[name]
	}

	return s, nil
}

// Len returns the number of parameters in the set.
func (s *Set) Len() int {
	return len(s.priors)
}

// Names returns the parameter names in cube order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// At returns the prior at cube index i.
func (s *Set) At(i int) Prior {
	return s.priors[i]
}

// TransformInPlace rewrites a unit hypercube point into physical parameter
// values, applying the i-th prior to cube[i]. This is the convention nested
// samplers use for their prior-transform callback; it is invoked once per
// proposed point, so the per-index dispatch is a plain slice lookup.
func (s *Set) TransformInPlace(cube []float64) error {
	if len(cube) != len(s.priors) {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(cube), len(s.priors))
	}

	for i, p := range s.priors {
		cube[i] = p.Transform(cube[i])
	}

	return nil
}

// Transform is the allocating variant of [Set.TransformInPlace]: the cube
// is left untouched and a fresh parameter vector is returned.
func (s *Set) Transform(cube []float64) ([]float64, error) {
	if len(cube) != len(s.priors) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(cube), len(s.priors))
	}

	out := make([]float64, len(cube))
	for i, p := range s.priors {
		out[i] = p.Transform(cube[i])
	}

	return out, nil
}
