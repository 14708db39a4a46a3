package analysis

// DominantPeriod estimates the strongest cycle in series, sampled
// every dt seconds. It returns zero when the series is too short or
// carries no oscillation.
func DominantPeriod(series []float64, dt float64) float64 {
	if dt <= 0 || len(series) < 4 {
		return 0
	}

	// The transform needs a power-of-two length; take the largest
	// prefix that fits.
	n := 1
	for n*2 <= len(series) {
		n *= 2
	}
	data := make([]float64, n)
	copy(data, series[:n])

	// Remove the mean so the DC bin does not swamp the peaks.
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)
	for i := range data {
		data[i] -= mean
	}

	ps := PowerSpectrum(data)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if ps[best] == 0 {
		return 0
	}

	return float64(n) * dt / float64(best)
}
