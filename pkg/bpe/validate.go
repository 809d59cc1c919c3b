package bpe

// ValidBeat reports whether a beat is physiologically plausible:
// IBI within [MinIBIMs, MaxIBIMs], fitted amplitude within
// [MinAmplitude, MaxAmplitude], and (when a previous valid IBI exists)
// a relative IBI change of at most MaxIBIChange.
func ValidBeat(ibiMs, amplitude, prevValidIBIMs float64) bool {
	if ibiMs < MinIBIMs || ibiMs > MaxIBIMs {
		return false
	}
	if amplitude < MinAmplitude || amplitude > MaxAmplitude {
		return false
	}
	if prevValidIBIMs > 0 {
		change := ibiMs - prevValidIBIMs
		if change < 0 {
			change = -change
		}
		if change/prevValidIBIMs > MaxIBIChange {
			return false
		}
	}
	return true
}

// ValidBP is the physiological validity gate: both pressures within
// bounds, SBP strictly above DBP, and pulse pressure within
// [MinPulsePressure, MaxPulsePressure]. Rejected pairs are dropped
// without touching history or notifying the listener.
func ValidBP(sbp, dbp float64) bool {
	if sbp < MinSBP || sbp > MaxSBP {
		return false
	}
	if dbp < MinDBP || dbp > MaxDBP {
		return false
	}
	if sbp <= dbp {
		return false
	}
	pp := sbp - dbp
	return pp >= MinPulsePressure && pp <= MaxPulsePressure
}

// ConstrainBP enforces SBP >= DBP+10 and then clamps both pressures to
// their physiological ranges, in that order.
func ConstrainBP(sbp, dbp float64) (float64, float64) {
	if sbp < dbp+10 {
		sbp = dbp + 10
	}
	return clamp(sbp, MinSBP, MaxSBP), clamp(dbp, MinDBP, MaxDBP)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
