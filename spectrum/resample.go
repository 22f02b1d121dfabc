package spectrum

import (
	"fmt"
	"sort"
)

// Resample interpolates the spectrum's flux linearly onto a new wavelength
// grid. The source wavelength must be strictly increasing; target points
// outside the source range are an error rather than an extrapolation,
// matching the grid-bounds behavior of model evaluators.
//
// The result carries no uncertainty: interpolated uncertainties would be
// correlated between neighboring points and are better left to the caller.
func Resample(s *Spectrum, grid []float64) (*Spectrum, error) {
	err := s.Validate()
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(s.Wavelength); i++ {
		if s.Wavelength[i] <= s.Wavelength[i-1] {
			return nil, fmt.Errorf("%w: index %d", ErrUnsortedWavelength, i)
		}
	}

	lo := s.Wavelength[0]
	hi := s.Wavelength[len(s.Wavelength)-1]

	out := &Spectrum{
		Wavelength: make([]float64, len(grid)),
		Flux:       make([]float64, len(grid)),
	}
	copy(out.Wavelength, grid)

	for i, w := range grid {
		if w < lo || w > hi {
			return nil, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, w, lo, hi)
		}

		// Index of the first grid point at or above w.
		j := sort.SearchFloat64s(s.Wavelength, w)
		if j == 0 || s.Wavelength[j] == w {
			out.Flux[i] = s.Flux[j]
			continue
		}

		w0, w1 := s.Wavelength[j-1], s.Wavelength[j]
		t := (w - w0) / (w1 - w0)
		out.Flux[i] = s.Flux[j-1]*(1-t) + s.Flux[j]*t
	}

	return out, nil
}
