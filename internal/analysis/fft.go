package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum removes the mean and returns the magnitudes of bins
// 0..len(data)/2 of the transform. Any length works.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(data)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency returns the strongest non-DC frequency of data in
// cycles per frame, where consecutive samples are framesPerSample apart.
// It returns 0 when there is no oscillation to find.
func DominantFrequency(data []float64, framesPerSample float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || framesPerSample <= 0 {
		return 0
	}

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	// residue of the mean removal
	if ps[best] < 1e-9 {
		return 0
	}

	return float64(best) / (float64(len(data)) * framesPerSample)
}
