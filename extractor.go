package galton

import (
	"math"
	"math/bits"
)

const (
	historySize = 16

	predSlow      = 0
	predFast      = 1
	predTrigram   = 2
	predLag1      = 3
	numLags       = 10
	numPredictors = predLag1 + numLags

	// Period thresholds (in samples) for the audio-rate mode
	// hysteresis: below the low threshold prediction is pointless and
	// the extractor filters frequency directly.
	audioPeriodLow  = 96
	audioPeriodHigh = 128

	minFreq = 1e-7
	maxFreq = 0.5

	accuracySharpness = 100
	accuracyDecay     = 0.5
	accuracyAttack    = 0.1
)

type pulseInfo struct {
	onDuration    int
	totalDuration int
	bucket        int
	pulseWidth    float64
}

type predictor struct {
	period   float64 // prediction made at the previous edge
	accuracy float64
}

// A RampExtractor turns an irregular stream of gate edges into a
// smooth, predicted phase ramp in [0,1).  Each rising edge closes the
// current pulse, scores a bank of period predictors against the
// measured duration, and retargets frequency from the most accurate
// one.  Very fast clocks bypass prediction entirely and low-pass the
// frequency instead.
type RampExtractor struct {
	freq  float64
	phase float64

	onCount    int
	totalCount int

	history    [historySize]pulseInfo
	historyPos int
	numPulses  int

	predictors [numPredictors]predictor
	trigram    [64]float64

	targetPeriod  float64
	resetInterval float64
	audioMode     bool

	ratio        Ratio
	pendingRatio Ratio
	havePending  bool
	edgeCount    int
	synced       bool
}

func NewRampExtractor() *RampExtractor {
	e := &RampExtractor{}
	e.ratio = Ratio{1, 1}
	e.Reset()
	return e
}

func (e *RampExtractor) Reset() {
	e.freq = minFreq
	e.phase = 0
	e.onCount = 0
	e.totalCount = 0
	e.history = [historySize]pulseInfo{}
	e.historyPos = 0
	e.numPulses = 0
	e.predictors = [numPredictors]predictor{}
	e.trigram = [64]float64{}
	e.targetPeriod = 0
	e.resetInterval = 1e9
	e.audioMode = false
	e.edgeCount = 0
	e.synced = false
}

// SetRatio requests a new master-to-clock ratio.  The change is
// staggered to the next pattern boundary so an in-progress master
// cycle is never truncated.
func (e *RampExtractor) SetRatio(r Ratio) {
	r = r.Reduce()
	if e.numPulses == 0 {
		e.ratio = r
		return
	}
	e.pendingRatio = r
	e.havePending = true
}

func (e *RampExtractor) Ratio() Ratio  { return e.ratio }
func (e *RampExtractor) Freq() float64 { return e.freq }

// Tick consumes one edge-tagged clock sample and returns the phase.
func (e *RampExtractor) Tick(f GateFlags) float64 {
	e.totalCount++
	if f.High() {
		e.onCount++
	}
	if f.Rising() {
		e.risingEdge()
	} else if f.Falling() {
		e.fallingEdge()
	}

	e.phase += e.freq
	if e.phase >= 1 {
		e.phase -= 1
	}
	return e.phase
}

func (e *RampExtractor) risingEdge() {
	period := e.totalCount
	defer func() {
		e.onCount = 0
		e.totalCount = 0
	}()

	if float64(period) >= e.resetInterval {
		// The clock stopped; restart blind.
		ratio, pending, have := e.ratio, e.pendingRatio, e.havePending
		e.Reset()
		e.ratio, e.pendingRatio, e.havePending = ratio, pending, have
		return
	}
	if !e.synced {
		// First edge ever seen: nothing before it to measure.
		e.synced = true
		e.phase = 0
		return
	}

	width := float64(e.onCount) / float64(period)
	e.record(pulseInfo{e.onCount, period, durationBucket(period), width})
	e.scorePredictors(float64(period))
	e.predict(float64(period))
	e.targetPeriod = math.Max(e.bestPrediction(), 1)

	if period < audioPeriodLow {
		e.audioMode = true
	} else if period > audioPeriodHigh {
		e.audioMode = false
	}

	if e.audioMode {
		target := 1 / float64(period)
		diff := math.Abs(target - e.freq)
		c := 0.05 + 0.9*clamp(diff/(e.freq+minFreq), 0, 1)
		e.freq = clampFreq(e.freq + c*(target-e.freq))
		return
	}

	e.edgeCount++
	if e.edgeCount >= e.ratio.Q {
		e.edgeCount = 0
		if e.havePending {
			e.ratio = e.pendingRatio
			e.havePending = false
		}
		e.phase = 0
		e.freq = clampFreq(e.ratio.Float() / e.targetPeriod)
		return
	}
	// Mid-span edge: warp frequency by the gap between expected and
	// actual phase so the remaining edges land on the wrap.
	remaining := float64(e.ratio.Q-e.edgeCount) * e.targetPeriod
	e.freq = clampFreq(float64(e.ratio.P) * (1 - e.phase) / remaining)
}

// fallingEdge applies pulse-width correction: if the clock's duty
// cycle is stable, the falling edge carries half-period information
// that can trim frequency before the next rising edge arrives.
func (e *RampExtractor) fallingEdge() {
	if e.audioMode || e.numPulses < 2 || e.onCount == 0 || e.targetPeriod <= 0 {
		return
	}
	w := e.averageWidth()
	if w < 0.05 || w > 0.95 {
		return
	}
	// onCount was reset on the rising sample, so the run is one longer.
	expected := w * e.targetPeriod
	c := clamp(expected/float64(e.onCount+1), 0.75, 1.33)
	e.freq = clampFreq(e.freq * math.Pow(c, 0.25))
}

func (e *RampExtractor) record(p pulseInfo) {
	e.history[e.historyPos] = p
	e.historyPos = (e.historyPos + 1) % historySize
	if e.numPulses < historySize {
		e.numPulses++
	}
	e.resetInterval = 4 * float64(p.totalDuration)
}

// pulseAgo returns the pulse recorded k edges back, k >= 1.
func (e *RampExtractor) pulseAgo(k int) pulseInfo {
	return e.history[(e.historyPos-k+2*historySize)%historySize]
}

func (e *RampExtractor) averageWidth() float64 {
	n := min(e.numPulses, 4)
	sum := 0.0
	for k := 1; k <= n; k++ {
		sum += e.pulseAgo(k).pulseWidth
	}
	return sum / float64(n)
}

func (e *RampExtractor) averagePeriod(n int) float64 {
	n = min(n, e.numPulses)
	sum := 0.0
	for k := 1; k <= n; k++ {
		sum += float64(e.pulseAgo(k).totalDuration)
	}
	return sum / float64(n)
}

// scorePredictors compares each predictor's standing prediction with
// the period that actually elapsed.  Accuracy decays faster than it
// recovers, so a predictor that has been wrong stays distrusted.
func (e *RampExtractor) scorePredictors(actual float64) {
	for i := range e.predictors {
		p := &e.predictors[i]
		if p.period <= 0 {
			continue
		}
		err := (p.period - actual) / actual
		inst := 1 / (1 + accuracySharpness*err*err)
		if inst < p.accuracy {
			p.accuracy += accuracyDecay * (inst - p.accuracy)
		} else {
			p.accuracy += accuracyAttack * (inst - p.accuracy)
		}
	}
}

// predict refreshes every predictor's estimate of the next period.
func (e *RampExtractor) predict(actual float64) {
	e.predictors[predSlow].period = e.averagePeriod(8)
	e.predictors[predFast].period = e.averagePeriod(2)

	// Trigram: learn what followed the previous bucket pair, then
	// look up the pair just completed.
	if e.numPulses >= 3 {
		k := trigramKey(e.pulseAgo(3).bucket, e.pulseAgo(2).bucket)
		if e.trigram[k] <= 0 {
			e.trigram[k] = actual
		} else {
			e.trigram[k] += 0.5 * (actual - e.trigram[k])
		}
	}
	if e.numPulses >= 2 {
		k := trigramKey(e.pulseAgo(2).bucket, e.pulseAgo(1).bucket)
		if e.trigram[k] > 0 {
			e.predictors[predTrigram].period = e.trigram[k]
		} else {
			e.predictors[predTrigram].period = actual
		}
	}

	// Periodicity detectors: lag k predicts a repeat of the period
	// measured k pulses ago.
	for lag := 1; lag <= numLags; lag++ {
		if lag <= e.numPulses {
			e.predictors[predLag1+lag-1].period = float64(e.pulseAgo(lag).totalDuration)
		}
	}
}

// bestPrediction selects the highest-accuracy predictor; ties keep the
// fast moving average.
func (e *RampExtractor) bestPrediction() float64 {
	best := predFast
	for i := range e.predictors {
		if e.predictors[i].period > 0 && e.predictors[i].accuracy > e.predictors[best].accuracy {
			best = i
		}
	}
	return e.predictors[best].period
}

func trigramKey(b1, b2 int) int {
	return (b1*31 + b2*17) & 63
}

func durationBucket(period int) int {
	return bits.Len(uint(period))
}

func clampFreq(f float64) float64 {
	return clamp(f, minFreq, maxFreq)
}
