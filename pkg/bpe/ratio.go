package bpe

// EstimateSplit derives the per-beat systole:diastole time split from the
// beat's own samples instead of assuming the default 1:2.
//
// The beat is smoothed with a centered moving average (window scales with
// sample count, clamped to [3, 7]), the peak is located within the first
// 20% of samples, and the trough within the window from the peak up to
// 80% of the beat (the trailing 20% may already belong to the next
// upstroke). The split follows from the peak-to-trough time over the IBI.
//
// Falls back to the default 1:2 split when the beat is too short, the
// trough lands implausibly, or either ratio leaves [0.1, 0.9] - this
// guards against spurious trough detection on flat or double-peaked
// segments.
func EstimateSplit(values []float64, times []int64, ibiMs float64) (systoleRatio, diastoleRatio float64) {
	n := len(values)
	if n < 3 || len(times) != n || ibiMs <= 0 {
		return DefaultSystoleRatio, DefaultDiastoleRatio
	}

	window := n / 10
	if window < 3 {
		window = 3
	}
	if window > 7 {
		window = 7
	}
	smoothed := SmoothMovingAverage(values, window)

	// Peak within the first 20% of the beat.
	searchRange := int(float64(n) * 0.2)
	if searchRange < 3 {
		searchRange = 3
	}
	if searchRange > n {
		searchRange = n
	}
	peakIndex := 0
	for i := 1; i < searchRange; i++ {
		if smoothed[i] > smoothed[peakIndex] {
			peakIndex = i
		}
	}

	// Trough from the peak up to 80% of the beat.
	valleyEnd := int(float64(n) * 0.8)
	if valleyEnd > n-1 {
		valleyEnd = n - 1
	}
	valleyIndex := peakIndex
	for i := peakIndex; i <= valleyEnd; i++ {
		if smoothed[i] < smoothed[valleyIndex] {
			valleyIndex = i
		}
	}

	diastoleTime := float64(times[valleyIndex] - times[peakIndex])
	if diastoleTime < 0 || diastoleTime > ibiMs*0.9 {
		return DefaultSystoleRatio, DefaultDiastoleRatio
	}

	diastoleRatio = diastoleTime / ibiMs
	systoleRatio = 1 - diastoleRatio
	if diastoleRatio < 0.1 || diastoleRatio > 0.9 || systoleRatio < 0.1 || systoleRatio > 0.9 {
		return DefaultSystoleRatio, DefaultDiastoleRatio
	}
	return systoleRatio, diastoleRatio
}

// beatLandmarks locates the smoothed peak and trough indices of a beat,
// using the same search windows as EstimateSplit. Used by the feature
// tracker for relTTP and amplitude features.
func beatLandmarks(values []float64) (peakIndex, valleyIndex int, ok bool) {
	n := len(values)
	if n < 3 {
		return 0, 0, false
	}

	window := n / 10
	if window < 3 {
		window = 3
	}
	if window > 7 {
		window = 7
	}
	smoothed := SmoothMovingAverage(values, window)

	searchRange := int(float64(n) * 0.2)
	if searchRange < 3 {
		searchRange = 3
	}
	if searchRange > n {
		searchRange = n
	}
	for i := 1; i < searchRange; i++ {
		if smoothed[i] > smoothed[peakIndex] {
			peakIndex = i
		}
	}

	valleyEnd := int(float64(n) * 0.8)
	if valleyEnd > n-1 {
		valleyEnd = n - 1
	}
	valleyIndex = peakIndex
	for i := peakIndex; i <= valleyEnd; i++ {
		if smoothed[i] < smoothed[valleyIndex] {
			valleyIndex = i
		}
	}
	if valleyIndex <= peakIndex {
		return peakIndex, valleyIndex, false
	}
	return peakIndex, valleyIndex, true
}
