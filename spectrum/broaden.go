package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// GaussianBroaden convolves the flux with a normalized Gaussian kernel of
// standard deviation sigma (in wavelength units), the usual model for
// instrumental line broadening. The wavelength grid must be uniformly
// spaced; the kernel is truncated at 5 sigma and the convolution is done
// via FFT, so the cost is O(n log n) regardless of kernel width.
//
// Flux is treated as zero outside the spectrum, so features within a few
// sigma of the edges lose a little flux to the boundary. Total flux is
// otherwise preserved. The result carries no uncertainty.
func GaussianBroaden(s *Spectrum, sigma float64) (*Spectrum, error) {
	err := s.Validate()
	if err != nil {
		return nil, err
	}

	if sigma <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidKernelWidth, sigma)
	}

	n := len(s.Wavelength)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points", ErrEmpty)
	}

	step := s.Wavelength[1] - s.Wavelength[0]
	if step <= 0 {
		return nil, ErrUnsortedWavelength
	}

	const relTol = 1e-6
	for i := 2; i < n; i++ {
		d := s.Wavelength[i] - s.Wavelength[i-1]
		if math.Abs(d-step) > relTol*step {
			return nil, fmt.Errorf("%w: step %g at index %d, expected %g",
				ErrNonUniformGrid, d, i, step)
		}
	}

	kernel := gaussianKernel(sigma/step, n)
	half := len(kernel) / 2

	fftSize := nextPowerOf2(n + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: create FFT plan: %w", err)
	}

	fluxC := make([]complex128, fftSize)
	for i, v := range s.Flux {
		fluxC[i] = complex(v, 0)
	}

	kernelC := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelC[i] = complex(v, 0)
	}

	err = plan.Forward(fluxC, fluxC)
	if err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT: %w", err)
	}

	err = plan.Forward(kernelC, kernelC)
	if err != nil {
		return nil, fmt.Errorf("spectrum: kernel FFT: %w", err)
	}

	for i := range fluxC {
		fluxC[i] *= kernelC[i]
	}

	err = plan.Inverse(fluxC, fluxC)
	if err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT: %w", err)
	}

	out := &Spectrum{
		Wavelength: make([]float64, n),
		Flux:       make([]float64, n),
	}
	copy(out.Wavelength, s.Wavelength)

	// The full linear convolution is n+len(kernel)-1 long; the segment
	// aligned with the input starts at the kernel center.
	for i := range out.Flux {
		out.Flux[i] = real(fluxC[i+half])
	}

	return out, nil
}

// gaussianKernel samples a unit-area Gaussian with the given standard
// deviation (in samples), truncated at 5 sigma and capped at the spectrum
// length so the kernel never dominates the padded FFT buffer.
func gaussianKernel(sigmaSamples float64, maxHalf int) []float64 {
	half := int(math.Ceil(5 * sigmaSamples))
	if half < 1 {
		half = 1
	}

	if half > maxHalf {
		half = maxHalf
	}

	kernel := make([]float64, 2*half+1)
	for i := range kernel {
		x := float64(i-half) / sigmaSamples
		kernel[i] = math.Exp(-0.5 * x * x)
	}

	vecmath.ScaleBlockInPlace(kernel, 1/vecmath.Sum(kernel))

	return kernel
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
