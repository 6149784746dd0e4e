// Package analysis looks for periodic structure in recorded frame series.
//
//   - [Spectrum]: Hann-windowed magnitude spectrum of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC component
//   - [Welch]: averaged power spectral density for long, noisy recordings
//   - [SampleRate]: the effective step rate of a recording
//
// Ember fields drift slowly, so their spectrum sits near DC. Flicker fields
// re-roll at a rate set by flicker_chance, which shows up as broadband
// power rather than a peak:
//
//	freq, _ := analysis.DominantFrequency(series, analysis.SampleRate(times))
package analysis
