package bpe

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CalibCoefficients are the linear coefficients of the guided
// calibration estimate: intercept, heart rate weight, mNPV weight.
type CalibCoefficients struct {
	Intercept float64
	HR        float64
	NPV       float64
}

// DefaultCalibSBP and DefaultCalibDBP are the built-in calibration
// coefficients, used when no externally trained set is loaded.
var (
	DefaultCalibSBP = CalibCoefficients{Intercept: 55, HR: 0.5, NPV: 0.03}
	DefaultCalibDBP = CalibCoefficients{Intercept: 40, HR: 0.3, NPV: 0.02}
)

// Calibration produces a one-shot baseline estimate from a guided
// three-block measurement: the subject holds three contact pressure
// levels in sequence, and each block contributes its mean pulse
// amplitude. The mean normalized pulse volume (mNPV) over the blocks
// plus the mean heart rate feed a linear regression.
type Calibration struct {
	sbp CalibCoefficients
	dbp CalibCoefficients

	blockAmps []float64
	sumAmp    float64
	ampCount  int

	ibis []float64
}

// NewCalibration creates a calibration session with the built-in
// coefficients.
func NewCalibration() *Calibration {
	return &Calibration{sbp: DefaultCalibSBP, dbp: DefaultCalibDBP}
}

// SetCoefficients replaces the regression coefficients, typically with
// an externally trained set loaded via ParseCalibCoefficients.
func (c *Calibration) SetCoefficients(sbp, dbp CalibCoefficients) {
	c.sbp = sbp
	c.dbp = dbp
}

// AddAmplitude records one pulse amplitude sample within the current
// pressure block.
func (c *Calibration) AddAmplitude(amp float64) {
	c.sumAmp += amp
	c.ampCount++
}

// CloseBlock finalizes the current pressure block: its mean amplitude is
// appended and the accumulator cleared for the next block.
func (c *Calibration) CloseBlock() {
	mean := 0.0
	if c.ampCount > 0 {
		mean = c.sumAmp / float64(c.ampCount)
	}
	c.blockAmps = append(c.blockAmps, mean)
	c.sumAmp = 0
	c.ampCount = 0
}

// AddIBI records one inter-beat interval observed during the session.
func (c *Calibration) AddIBI(ibiMs float64) {
	if ibiMs > 0 {
		c.ibis = append(c.ibis, ibiMs)
	}
}

// Blocks returns the number of closed pressure blocks.
func (c *Calibration) Blocks() int {
	return len(c.blockAmps)
}

// Estimate computes the calibration baseline. With no recorded IBIs the
// heart rate defaults to 75 bpm; with no closed blocks the mNPV defaults
// to 1.
func (c *Calibration) Estimate() Estimate {
	hr := 75.0
	if len(c.ibis) > 0 {
		hr = 60000.0 / stat.Mean(c.ibis, nil)
	}
	npv := 1.0
	if len(c.blockAmps) > 0 {
		npv = stat.Mean(c.blockAmps, nil)
	}

	return Estimate{
		SBP: c.sbp.Intercept + c.sbp.HR*hr + c.sbp.NPV*npv,
		DBP: c.dbp.Intercept + c.dbp.HR*hr + c.dbp.NPV*npv,
	}
}

// Reset clears all recorded blocks and intervals.
func (c *Calibration) Reset() {
	c.blockAmps = c.blockAmps[:0]
	c.sumAmp = 0
	c.ampCount = 0
	c.ibis = c.ibis[:0]
}

// ParseCalibCoefficients parses one comma-separated coefficient line:
// "intercept,hr,npv".
func ParseCalibCoefficients(line string) (CalibCoefficients, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 3 {
		return CalibCoefficients{}, fmt.Errorf("calib: expected 3 coefficients, got %d", len(parts))
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return CalibCoefficients{}, fmt.Errorf("calib: coefficient %d: %w", i, err)
		}
		vals[i] = v
	}
	return CalibCoefficients{Intercept: vals[0], HR: vals[1], NPV: vals[2]}, nil
}
