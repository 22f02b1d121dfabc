// Package spectrum provides the one-dimensional spectrum data model used
// throughout the fitting pipeline, plus the grid conditioning helpers
// (resampling, instrumental broadening) applied to model spectra before
// they are compared against observations.
package spectrum

import (
	"errors"
	"fmt"
)

// Errors returned by spectrum validation and conditioning.
var (
	ErrEmpty              = errors.New("spectrum: empty spectrum")
	ErrLengthMismatch     = errors.New("spectrum: arrays must have equal length")
	ErrNonPositiveSigma   = errors.New("spectrum: uncertainty values must be positive")
	ErrUnsortedWavelength = errors.New("spectrum: wavelength must be strictly increasing")
	ErrOutOfRange         = errors.New("spectrum: wavelength outside spectrum range")
	ErrNonUniformGrid     = errors.New("spectrum: wavelength grid must be uniformly spaced")
	ErrInvalidKernelWidth = errors.New("spectrum: kernel width must be positive")
)

// Spectrum is a one-dimensional spectrum: flux sampled on a wavelength
// grid, with optional per-point uncertainties.
//
// All slices are aligned element-wise. Uncertainty may be nil (model
// spectra carry none); when present it must match the grid length and be
// strictly positive.
type Spectrum struct {
	Wavelength  []float64
	Flux        []float64
	Uncertainty []float64
}

// New validates the arrays and returns a Spectrum. uncertainty may be nil.
func New(wavelength, flux, uncertainty []float64) (*Spectrum, error) {
	s := &Spectrum{
		Wavelength:  wavelength,
		Flux:        flux,
		Uncertainty: uncertainty,
	}

	err := s.Validate()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the element-wise alignment invariants.
func (s *Spectrum) Validate() error {
	if len(s.Wavelength) == 0 {
		return ErrEmpty
	}

	if len(s.Flux) != len(s.Wavelength) {
		return fmt.Errorf("%w: %d wavelengths vs %d fluxes",
			ErrLengthMismatch, len(s.Wavelength), len(s.Flux))
	}

	if s.Uncertainty != nil {
		if len(s.Uncertainty) != len(s.Wavelength) {
			return fmt.Errorf("%w: %d wavelengths vs %d uncertainties",
				ErrLengthMismatch, len(s.Wavelength), len(s.Uncertainty))
		}

		for i, u := range s.Uncertainty {
			if u <= 0 {
				return fmt.Errorf("%w: %g at index %d", ErrNonPositiveSigma, u, i)
			}
		}
	}

	return nil
}

// Len returns the number of spectral points.
func (s *Spectrum) Len() int {
	return len(s.Wavelength)
}
