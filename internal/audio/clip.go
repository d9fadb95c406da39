// Package audio turns uploaded recordings into mono 16-bit PCM clips that can
// be checked for speech and shipped to a recognizer.
package audio

import "time"

// Clip is mono, signed 16-bit PCM.
type Clip struct {
	SampleRate int
	Samples    []int16
}

func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// to16 rescales a sample of the given bit depth into the int16 range.
func to16(v, bitDepth int) int16 {
	switch {
	case bitDepth == 8:
		// 8-bit PCM is unsigned
		return int16((v - 128) << 8)
	case bitDepth > 16:
		return int16(v >> (bitDepth - 16))
	case bitDepth < 16:
		return int16(v << (16 - bitDepth))
	default:
		return int16(v)
	}
}
