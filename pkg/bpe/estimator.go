package bpe

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// EstimatorConfig configures one pressure estimation pipeline.
type EstimatorConfig struct {
	// BufferSize is the sample ring capacity. 0 means
	// DefaultBufferSize (90 samples, 3 s at 30 Hz).
	BufferSize int

	// FitSamples is the resample length for waveform fits. 0 means
	// DefaultFitSamples (64).
	FitSamples int

	// HistorySize is the robust-average window in accepted beats.
	// 0 means DefaultHistorySize (10).
	HistorySize int

	// PeakConfig configures peak detection.
	PeakConfig PeakDetectorConfig

	// QualityFloor overrides the model's minimum signal quality score.
	// 0 means use the model's own floor.
	QualityFloor float64

	// DropGapBeats discards beats whose interval spans a quality-gate
	// ingestion gap or whose start has already been evicted from the
	// buffer, instead of estimating from contaminated data.
	DropGapBeats bool

	// EventBuffer is the capacity of the Events channel. 0 means 16.
	EventBuffer int

	// Logger receives per-beat diagnostics. nil means no logging.
	Logger *zap.Logger
}

// DefaultEstimatorConfig returns default configuration.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		BufferSize:   DefaultBufferSize,
		FitSamples:   DefaultFitSamples,
		HistorySize:  DefaultHistorySize,
		PeakConfig:   DefaultPeakDetectorConfig(),
		DropGapBeats: true,
		EventBuffer:  16,
	}
}

// Estimator is the per-sample entry point for one estimation strategy.
// It owns the sample buffer, peak detection, beat segmentation, waveform
// fitting, validation and the robust history; the FeatureModel supplies
// only the beat-to-pressure mapping.
//
// Not safe for concurrent use; feed it from a single goroutine in
// timestamp order.
type Estimator struct {
	config EstimatorConfig
	model  FeatureModel
	log    *zap.Logger

	buf      *SampleBuffer
	detector *PeakDetector

	// Peak bookkeeping for the one-beat delay. lastPeak is the most
	// recent confirmed peak; prevPeak the one before it (delay models
	// only estimate the prevPeak..lastPeak beat once a newer peak
	// arrives).
	prevPeak Peak
	lastPeak Peak
	numPeaks int

	features FeatureProvider
	listener Listener
	events   chan BeatUpdate

	sbpHist *History
	dbpHist *History

	signalQuality float64
	hasQuality    bool
	gapOpen       bool
	gapEndMs      int64
	lastValidIBI  float64

	// Diagnostics from the most recent accepted beat.
	lastEstimate Estimate
	lastAverage  Estimate
	lastFit      SineFit
	lastIBIMs    float64
	lastDist     float64
}

// NewEstimator creates an estimator driving the given model.
// Zero-valued config fields fall back to defaults.
func NewEstimator(config EstimatorConfig, model FeatureModel) *Estimator {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.FitSamples <= 0 {
		config.FitSamples = DefaultFitSamples
	}
	if config.HistorySize <= 0 {
		config.HistorySize = DefaultHistorySize
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 16
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Estimator{
		config:   config,
		model:    model,
		log:      log.With(zap.String("model", model.Name())),
		buf:      NewSampleBuffer(config.BufferSize),
		detector: NewPeakDetector(config.PeakConfig),
		features: StaticFeatures{},
		events:   make(chan BeatUpdate, config.EventBuffer),
		sbpHist:  NewHistory(config.HistorySize),
		dbpHist:  NewHistory(config.HistorySize),
	}
}

// SetListener registers the callback invoked for every accepted beat.
// Call before feeding samples.
func (e *Estimator) SetListener(l Listener) {
	e.listener = l
}

// SetFeatureProvider wires the external vascular feature source.
// When unset, zero features are used and heart rate falls back to the
// beat's own IBI.
func (e *Estimator) SetFeatureProvider(p FeatureProvider) {
	if p == nil {
		p = StaticFeatures{}
	}
	e.features = p
}

// SetSignalQuality updates the upstream signal quality score. While the
// score is below the model's floor (or the configured override) samples
// are ignored entirely; with DropGapBeats the first beat spanning the
// resulting timestamp gap is discarded too. Until the first call,
// quality gating is disabled.
func (e *Estimator) SetSignalQuality(q float64) {
	e.signalQuality = q
	e.hasQuality = true
}

// Events returns the channel carrying one BeatUpdate per accepted beat.
// Sends never block; updates are dropped when the channel is full.
func (e *Estimator) Events() <-chan BeatUpdate {
	return e.events
}

// Update feeds one sample. This is the main entry point - call it for
// every sample, in timestamp order.
func (e *Estimator) Update(value float64, timestampMs int64) {
	if e.hasQuality && e.signalQuality < e.qualityFloor() {
		e.gapOpen = true
		return
	}
	if e.gapOpen {
		e.gapOpen = false
		e.gapEndMs = timestampMs
	}

	e.buf.Push(Sample{Value: value, TimestampMs: timestampMs})

	peak, ok := e.detector.OnSample(e.buf)
	if !ok {
		return
	}
	e.numPeaks++

	switch {
	case e.numPeaks == 1:
		e.lastPeak = peak
		return
	case e.model.OneBeatDelay():
		// The beat closed by this peak is only estimated once the
		// following peak confirms it.
		if e.numPeaks >= 3 {
			e.processBeat(e.prevPeak, e.lastPeak)
		}
		e.prevPeak = e.lastPeak
		e.lastPeak = peak
	default:
		e.processBeat(e.lastPeak, peak)
		e.lastPeak = peak
	}
}

// qualityFloor returns the effective minimum signal quality.
func (e *Estimator) qualityFloor() float64 {
	if e.config.QualityFloor > 0 {
		return e.config.QualityFloor
	}
	return e.model.QualityFloor()
}

// processBeat runs segmentation, fitting, validation and estimation for
// the beat between two consecutive peaks. Rejections at any stage leave
// detector and peak state advanced so the stream continues uninterrupted.
func (e *Estimator) processBeat(start, end Peak) {
	ibiMs := float64(end.TimestampMs - start.TimestampMs)

	if e.config.DropGapBeats {
		// A beat is contaminated when its interval spans a quality-gate
		// gap or its start has already been evicted from the buffer.
		if e.gapEndMs != 0 && start.TimestampMs < e.gapEndMs && end.TimestampMs >= e.gapEndMs {
			e.log.Debug("beat dropped: spans ingestion gap",
				zap.Int64("startMs", start.TimestampMs),
				zap.Int64("gapEndMs", e.gapEndMs))
			return
		}
		if e.buf.Len() > 0 && start.TimestampMs < e.buf.At(0).TimestampMs {
			e.log.Debug("beat dropped: start evicted from buffer",
				zap.Int64("startMs", start.TimestampMs))
			return
		}
	}

	rawValues, rawTimes := ExtractBeat(e.buf, start.TimestampMs, end.TimestampMs)
	if len(rawValues) == 0 {
		return
	}

	beat := BeatFeatures{
		IBIMs:         ibiMs,
		RawValues:     rawValues,
		RawTimes:      rawTimes,
		SystoleRatio:  DefaultSystoleRatio,
		DiastoleRatio: DefaultDiastoleRatio,
	}

	amplitude := e.fitBeat(&beat)

	if !ValidBeat(ibiMs, amplitude, e.lastValidIBI) {
		e.log.Debug("beat rejected by validator",
			zap.Float64("ibiMs", ibiMs),
			zap.Float64("amplitude", amplitude))
		return
	}

	ext := e.features.Features()
	hr := 60000.0 / ibiMs
	if ext.HasSmoothedIBI && ext.SmoothedIBIMs > 0 {
		hr = 60000.0 / ext.SmoothedIBIMs
	}

	sbp, dbp, ok := e.model.Estimate(beat, ext, hr)
	if !ok {
		return
	}
	sbp, dbp = ConstrainBP(sbp, dbp)
	if !ValidBP(sbp, dbp) {
		e.log.Debug("estimate rejected by physiological gate",
			zap.Float64("sbp", sbp), zap.Float64("dbp", dbp))
		return
	}

	e.sbpHist.Push(sbp)
	e.dbpHist.Push(dbp)
	sbpAvg := RobustAverage(e.sbpHist.Values())
	dbpAvg := RobustAverage(e.dbpHist.Values())

	e.lastEstimate = Estimate{SBP: sbp, DBP: dbp}
	e.lastAverage = Estimate{SBP: sbpAvg, DBP: dbpAvg}
	e.lastFit = beat.Fit
	e.lastIBIMs = ibiMs
	e.lastDist = beat.Distortion
	e.lastValidIBI = ibiMs

	e.log.Debug("beat accepted",
		zap.Float64("sbp", sbp), zap.Float64("dbp", dbp),
		zap.Float64("sbpAvg", sbpAvg), zap.Float64("dbpAvg", dbpAvg),
		zap.Float64("ibiMs", ibiMs))

	if e.listener != nil {
		e.listener(sbp, dbp, sbpAvg, dbpAvg)
	}
	select {
	case e.events <- BeatUpdate{SBP: sbp, DBP: dbp, SBPAvg: sbpAvg, DBPAvg: dbpAvg}:
	default:
	}
}

// fitBeat performs the model's waveform fit in place and returns the
// amplitude used for beat validation (the raw excursion for NoFit,
// the fitted amplitude otherwise).
func (e *Estimator) fitBeat(beat *BeatFeatures) float64 {
	switch e.model.Fit() {
	case NoFit:
		beat.Values = beat.RawValues
		return floats.Max(beat.RawValues) - floats.Min(beat.RawValues)

	case SymmetricFit:
		beat.Values = ResampleLinear(beat.RawValues, e.config.FitSamples)
		beat.Fit = FitSymmetric(beat.Values)
		beat.Distortion = DistortionSymmetric(beat.Values, beat.Fit.Mean, beat.Fit.Amplitude, beat.Fit.Phase)

	case SymmetricDCFit:
		// The sine-parameter regression was trained on the raw,
		// unresampled beat.
		beat.Values = beat.RawValues
		beat.Fit = FitSymmetricDC(beat.Values)
		beat.Distortion = DistortionSymmetric(beat.Values, beat.Fit.Mean, beat.Fit.Amplitude, beat.Fit.Phase)

	case AsymmetricFit:
		beat.SystoleRatio, beat.DiastoleRatio = EstimateSplit(beat.RawValues, beat.RawTimes, beat.IBIMs)
		beat.Values = ResampleLinear(beat.RawValues, e.config.FitSamples)
		beat.Fit = FitSymmetric(beat.Values)
		beat.Distortion = DistortionAsymmetric(beat.Values, beat.Fit.Mean, beat.Fit.Amplitude,
			beat.IBIMs, beat.SystoleRatio, beat.DiastoleRatio)
	}
	return beat.Fit.Amplitude
}

// LastEstimate returns the most recent accepted per-beat estimate.
func (e *Estimator) LastEstimate() Estimate {
	return e.lastEstimate
}

// LastAverage returns the robust average over the current history.
func (e *Estimator) LastAverage() Estimate {
	return e.lastAverage
}

// LastFit returns the sine fit of the most recent accepted beat.
func (e *Estimator) LastFit() SineFit {
	return e.lastFit
}

// LastIBIMs returns the inter-beat interval of the most recent accepted
// beat, 0 before the first.
func (e *Estimator) LastIBIMs() float64 {
	return e.lastIBIMs
}

// LastDistortion returns the fit residual of the most recent accepted
// beat.
func (e *Estimator) LastDistortion() float64 {
	return e.lastDist
}

// LastStiffness returns the vascular stiffness proxy
// distortion * sqrt(amplitude) of the most recent accepted beat.
func (e *Estimator) LastStiffness() float64 {
	return e.lastDist * math.Sqrt(e.lastFit.Amplitude)
}

// Reset returns the estimator to its initial state. Call it when the
// sample stream restarts or after extended signal loss.
func (e *Estimator) Reset() {
	e.buf.Reset()
	e.detector.Reset()
	e.model.Reset()
	e.prevPeak = Peak{}
	e.lastPeak = Peak{}
	e.numPeaks = 0
	e.sbpHist.Reset()
	e.dbpHist.Reset()
	e.gapOpen = false
	e.gapEndMs = 0
	e.lastValidIBI = 0
	e.lastEstimate = Estimate{}
	e.lastAverage = Estimate{}
	e.lastFit = SineFit{}
	e.lastIBIMs = 0
	e.lastDist = 0
}
