package audio

import (
	"math"
	"time"
)

// Recognizer-style energy gate. Calibration listens to the leading window,
// pulling the threshold towards ambient energy times DynamicEnergyRatio.
const (
	DefaultEnergyThreshold = 300.0
	DynamicEnergyDamping   = 0.15
	DynamicEnergyRatio     = 1.5
	ChunkSize              = 1024
	CalibrationWindow      = time.Second
)

// rms is the root-mean-square amplitude of a chunk.
func rms(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		v := float64(s)
		sumSquares += v * v
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}

// CalibrateAmbient returns the energy threshold after adjusting for the
// ambient noise in the first window of the clip. The clip is not consumed.
func CalibrateAmbient(c *Clip, window time.Duration) float64 {
	threshold := DefaultEnergyThreshold
	if c.SampleRate <= 0 || len(c.Samples) == 0 {
		return threshold
	}

	secondsPerBuffer := float64(ChunkSize) / float64(c.SampleRate)
	damping := math.Pow(DynamicEnergyDamping, secondsPerBuffer)

	elapsed := 0.0
	for start := 0; start < len(c.Samples); start += ChunkSize {
		elapsed += secondsPerBuffer
		if elapsed > window.Seconds() {
			break
		}
		end := min(start+ChunkSize, len(c.Samples))
		target := rms(c.Samples[start:end]) * DynamicEnergyRatio
		threshold = threshold*damping + target*(1-damping)
	}
	return threshold
}

// PeakEnergy is the loudest chunk of the clip.
func PeakEnergy(c *Clip) float64 {
	peak := 0.0
	for start := 0; start < len(c.Samples); start += ChunkSize {
		end := min(start+ChunkSize, len(c.Samples))
		if e := rms(c.Samples[start:end]); e > peak {
			peak = e
		}
	}
	return peak
}

// HasSpeech reports whether any chunk rises above the calibrated threshold.
func HasSpeech(c *Clip, threshold float64) bool {
	return PeakEnergy(c) > threshold
}
