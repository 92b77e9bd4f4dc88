package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/motionlab/internal/spring"
)

type Bin struct {
	Freq  float64
	Power float64
}

// Spectrum returns the one-sided power spectrum of samples taken at
// sampleRate Hz. The mean is removed first so bin 0 only reflects drift.
func Spectrum(samples []float64, sampleRate float64) []Bin {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	bins := make([]Bin, n/2+1)
	for k := range bins {
		bins[k] = Bin{
			Freq:  float64(k) * sampleRate / float64(n),
			Power: cmplx.Abs(coeffs[k]),
		}
	}
	return bins
}

// DominantFrequency is the frequency of the strongest bin above DC. It is
// false when the curve is flat.
func DominantFrequency(samples []float64, sampleRate float64) (float64, bool) {
	bins := Spectrum(samples, sampleRate)
	best := -1
	for k := 1; k < len(bins); k++ {
		if best < 0 || bins[k].Power > bins[best].Power {
			best = k
		}
	}
	if best < 0 || bins[best].Power < 1e-12 {
		return 0, false
	}
	return bins[best].Freq, true
}

// DampedFrequency is the ringing frequency in Hz of an underdamped spring,
// or 0 when the spring is critically damped or overdamped.
func DampedFrequency(cfg spring.Config) float64 {
	zeta := cfg.DampingRatio()
	if zeta >= 1 {
		return 0
	}
	return cfg.AngularFrequency() * math.Sqrt(1-zeta*zeta) / (2 * math.Pi)
}

// Crossings counts sign changes of samples-level, ignoring samples that sit
// exactly on the level.
func Crossings(samples []float64, level float64) int {
	count := 0
	prev := 0.0
	for _, v := range samples {
		d := v - level
		if d == 0 {
			continue
		}
		if prev != 0 && (d > 0) != (prev > 0) {
			count++
		}
		prev = d
	}
	return count
}
