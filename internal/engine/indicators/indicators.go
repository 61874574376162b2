package indicators

import (
	"math"

	"nse-option-sentry/pkg/types"
)

// Calculator derives RSI, MACD and cumulative VWAP from an OHLCV
// series. Warm-up bars get NaN for indicators that are not yet
// defined.
type Calculator struct {
	rsiPeriod    int
	macdFast     int
	macdSlow     int
	macdSmoothed int
}

// NewCalculator creates a calculator with the standard 14 / 12-26-9
// parameters.
func NewCalculator() *Calculator {
	return &Calculator{
		rsiPeriod:    14,
		macdFast:     12,
		macdSlow:     26,
		macdSmoothed: 9,
	}
}

// Compute returns one snapshot per bar, aligned by index with the
// input. It returns nil when the series has fewer than 2 bars or any
// bar is missing a field; upstream data-fetch failures are absorbed
// here, not propagated.
func (c *Calculator) Compute(bars []types.Bar) []types.IndicatorSnapshot {
	if len(bars) < 2 {
		return nil
	}
	for _, b := range bars {
		if !validBar(b) {
			return nil
		}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	rsi := c.computeRSI(closes)
	macd, signal := c.computeMACD(closes)
	vwap := computeVWAP(bars)

	snapshots := make([]types.IndicatorSnapshot, len(bars))
	for i := range bars {
		snapshots[i] = types.IndicatorSnapshot{
			RSI:        rsi[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
			VWAP:       vwap[i],
		}
	}
	return snapshots
}

func validBar(b types.Bar) bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || v <= 0 {
			return false
		}
	}
	return !math.IsNaN(b.Volume) && b.Volume >= 0
}

// computeRSI is the standard Wilder RSI: the first average gain/loss
// is a simple mean over the warm-up window, then smoothed.
func (c *Calculator) computeRSI(closes []float64) []float64 {
	n := len(closes)
	rsi := nanSlice(n)
	if n <= c.rsiPeriod {
		return rsi
	}

	var avgGain, avgLoss float64
	for i := 1; i <= c.rsiPeriod; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(c.rsiPeriod)
	avgLoss /= float64(c.rsiPeriod)
	rsi[c.rsiPeriod] = rsiValue(avgGain, avgLoss)

	for i := c.rsiPeriod + 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(c.rsiPeriod-1) + gain) / float64(c.rsiPeriod)
		avgLoss = (avgLoss*float64(c.rsiPeriod-1) + loss) / float64(c.rsiPeriod)
		rsi[i] = rsiValue(avgGain, avgLoss)
	}
	return rsi
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// computeMACD returns the 12/26 EMA difference and its 9-period EMA
// signal line.
func (c *Calculator) computeMACD(closes []float64) (macd, signal []float64) {
	fast := ema(closes, c.macdFast, 0)
	slow := ema(closes, c.macdSlow, 0)

	n := len(closes)
	macd = nanSlice(n)
	for i := c.macdSlow - 1; i < n; i++ {
		macd[i] = fast[i] - slow[i]
	}
	signal = ema(macd, c.macdSmoothed, c.macdSlow-1)
	return macd, signal
}

// ema computes an SMA-seeded exponential moving average. first is the
// index of the first defined input value; everything before
// first+period-1 in the output is NaN.
func ema(vals []float64, period, first int) []float64 {
	n := len(vals)
	out := nanSlice(n)
	if first+period > n {
		return out
	}

	var sum float64
	for i := first; i < first+period; i++ {
		sum += vals[i]
	}
	prev := sum / float64(period)
	out[first+period-1] = prev

	alpha := 2.0 / float64(period+1)
	for i := first + period; i < n; i++ {
		prev = (vals[i]-prev)*alpha + prev
		out[i] = prev
	}
	return out
}

// computeVWAP is the cumulative session-unbounded VWAP over the held
// window: sum(volume * typical price) / sum(volume) from the first
// bar, not reset daily.
func computeVWAP(bars []types.Bar) []float64 {
	out := nanSlice(len(bars))
	var cumPV, cumVol float64
	for i, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3
		cumPV += b.Volume * typical
		cumVol += b.Volume
		if cumVol > 0 {
			out[i] = cumPV / cumVol
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
