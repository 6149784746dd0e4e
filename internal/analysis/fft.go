package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum returns the one-sided magnitude spectrum of data sampled at
// sampleHz, after removing the mean and applying a Hann window.
func Spectrum(data []float64, sampleHz float64) (freqs, mags []float64) {
	n := len(data)
	if n < 2 || sampleHz <= 0 {
		return nil, nil
	}

	x := detrend(data)
	window.Apply(x, window.Hann)
	coeffs := fft.FFTReal(x)

	half := n/2 + 1
	freqs = make([]float64, half)
	mags = make([]float64, half)
	for i := 0; i < half; i++ {
		freqs[i] = float64(i) * sampleHz / float64(n)
		mags[i] = cmplx.Abs(coeffs[i])
	}
	return freqs, mags
}

// DominantFrequency is the strongest component above DC.
func DominantFrequency(data []float64, sampleHz float64) (freq, mag float64) {
	freqs, mags := Spectrum(data, sampleHz)
	for i := 1; i < len(mags); i++ {
		if mags[i] > mag {
			freq, mag = freqs[i], mags[i]
		}
	}
	return freq, mag
}

// Welch estimates the power spectral density with overlapping segments of
// nfft samples.
func Welch(data []float64, sampleHz float64, nfft int) (freqs, pxx []float64) {
	if len(data) < 2 || sampleHz <= 0 {
		return nil, nil
	}
	nfft = max(2, min(nfft, len(data)))
	pxx, freqs = spectral.Pwelch(detrend(data), sampleHz, &spectral.PwelchOptions{
		NFFT:     nfft,
		Noverlap: nfft / 2,
		Window:   window.Hann,
	})
	return freqs, pxx
}

// SampleRate is the mean step rate of a series with the given timestamps in
// seconds.
func SampleRate(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	span := times[len(times)-1] - times[0]
	if span <= 0 {
		return 0
	}
	return float64(len(times)-1) / span
}

func detrend(data []float64) []float64 {
	var sum float64
	for _, v := range data {
		sum += v
	}
	m := sum / float64(len(data))
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - m
	}
	return out
}
