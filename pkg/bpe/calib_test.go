package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibration_DefaultsWithoutData(t *testing.T) {
	c := NewCalibration()

	est := c.Estimate()

	// HR defaults to 75, mNPV to 1.
	assert.InDelta(t, 55+0.5*75+0.03*1, est.SBP, 1e-9)
	assert.InDelta(t, 40+0.3*75+0.02*1, est.DBP, 1e-9)
}

func TestCalibration_ThreeBlockSession(t *testing.T) {
	c := NewCalibration()

	for _, amp := range []float64{10, 20, 30} {
		for i := 0; i < 5; i++ {
			c.AddAmplitude(amp)
		}
		c.CloseBlock()
	}
	// Steady 800 ms rhythm: 75 bpm.
	for i := 0; i < 10; i++ {
		c.AddIBI(800)
	}

	require.Equal(t, 3, c.Blocks())
	est := c.Estimate()

	// mNPV = mean(10, 20, 30) = 20.
	assert.InDelta(t, 55+0.5*75+0.03*20, est.SBP, 1e-9)
	assert.InDelta(t, 40+0.3*75+0.02*20, est.DBP, 1e-9)
}

func TestCalibration_EmptyBlockContributesZero(t *testing.T) {
	c := NewCalibration()
	c.CloseBlock()

	require.Equal(t, 1, c.Blocks())
	est := c.Estimate()
	assert.InDelta(t, 55+0.5*75, est.SBP, 1e-9)
}

func TestCalibration_IgnoresNonPositiveIBI(t *testing.T) {
	c := NewCalibration()
	c.AddIBI(0)
	c.AddIBI(-100)
	c.AddIBI(1000)

	est := c.Estimate()
	// Only the 1000 ms interval counts: 60 bpm.
	assert.InDelta(t, 55+0.5*60+0.03*1, est.SBP, 1e-9)
}

func TestCalibration_Reset(t *testing.T) {
	c := NewCalibration()
	c.AddAmplitude(10)
	c.CloseBlock()
	c.AddIBI(1000)

	c.Reset()

	assert.Equal(t, 0, c.Blocks())
	est := c.Estimate()
	assert.InDelta(t, 55+0.5*75+0.03*1, est.SBP, 1e-9)
}

func TestCalibration_CustomCoefficients(t *testing.T) {
	c := NewCalibration()
	c.SetCoefficients(
		CalibCoefficients{Intercept: 100, HR: 0, NPV: 0},
		CalibCoefficients{Intercept: 70, HR: 0, NPV: 0},
	)

	est := c.Estimate()
	assert.Equal(t, 100.0, est.SBP)
	assert.Equal(t, 70.0, est.DBP)
}

func TestParseCalibCoefficients(t *testing.T) {
	coef, err := ParseCalibCoefficients("55, 0.5, 0.03")

	require.NoError(t, err)
	assert.Equal(t, CalibCoefficients{Intercept: 55, HR: 0.5, NPV: 0.03}, coef)
}

func TestParseCalibCoefficients_Errors(t *testing.T) {
	_, err := ParseCalibCoefficients("55, 0.5")
	assert.Error(t, err)

	_, err = ParseCalibCoefficients("55, abc, 0.03")
	assert.Error(t, err)
}
