// Package analysis extracts signal features from recorded runs.
//
//   - [FFT]: radix-2 fast Fourier transform
//   - [PowerSpectrum]: spectral magnitudes of a real series
//   - [DominantPeriod]: strongest cycle length in a sampled series
//
// The period estimate backs the analyze command: feed it a pair
// separation series from a recorded run and it reports the orbital
// period the spectrum favors.
package analysis
