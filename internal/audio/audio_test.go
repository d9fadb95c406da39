package audio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, path string, sampleRate, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

// noise alternates ±amp, giving an RMS of exactly amp.
func noise(n, amp int) []int {
	out := make([]int, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = amp
		} else {
			out[i] = -amp
		}
	}
	return out
}

func tone(n, amp, sampleRate int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = int(float64(amp) * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}
	return out
}

func toClip(sampleRate int, data []int) *Clip {
	samples := make([]int16, len(data))
	for i, v := range data {
		samples[i] = int16(v)
	}
	return &Clip{SampleRate: sampleRate, Samples: samples}
}

func TestDecodeFile_MonoWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.wav")
	data := []int{0, 100, -100, 32767, -32768, 42}
	writeWAV(t, path, 16000, 1, data)

	clip, err := DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 16000, clip.SampleRate)
	require.Len(t, clip.Samples, len(data))
	for i, v := range data {
		assert.Equal(t, int16(v), clip.Samples[i])
	}
}

func TestDecodeFile_StereoWAVIsDownmixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeWAV(t, path, 44100, 2, []int{100, 300, -200, -400})

	clip, err := DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 44100, clip.SampleRate)
	assert.Equal(t, []int16{200, -300}, clip.Samples)
}

func TestDecodeFile_RejectsUnsupportedContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3 not really mp3"), 0o600))

	_, err := DecodeFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeFile_RejectsGarbageWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff data"), 0o600))

	_, err := DecodeFile(path)
	assert.Error(t, err)
}

func TestCalibrateAmbient_SilenceHasNoSpeech(t *testing.T) {
	clip := toClip(16000, make([]int, 32000))

	threshold := CalibrateAmbient(clip, CalibrationWindow)

	assert.Less(t, threshold, DefaultEnergyThreshold)
	assert.False(t, HasSpeech(clip, threshold))
}

func TestCalibrateAmbient_SteadyNoiseHasNoSpeech(t *testing.T) {
	clip := toClip(16000, noise(48000, 50))

	threshold := CalibrateAmbient(clip, CalibrationWindow)

	assert.Greater(t, threshold, 50.0)
	assert.False(t, HasSpeech(clip, threshold))
}

func TestCalibrateAmbient_VoiceAfterNoiseIsDetected(t *testing.T) {
	data := append(noise(16000, 50), tone(16000, 8000, 16000)...)
	clip := toClip(16000, data)

	threshold := CalibrateAmbient(clip, CalibrationWindow)

	assert.True(t, HasSpeech(clip, threshold))
	// calibration must not consume the clip
	assert.Len(t, clip.Samples, 32000)
}

func TestClipDuration(t *testing.T) {
	clip := toClip(16000, make([]int, 8000))
	assert.Equal(t, 500*time.Millisecond, clip.Duration())
	assert.Equal(t, time.Duration(0), (&Clip{}).Duration())
}

func TestEncodeFLAC_RoundTrip(t *testing.T) {
	data := tone(10000, 6000, 16000)
	clip := toClip(16000, data)

	encoded, err := EncodeFLAC(clip)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(encoded, []byte("fLaC")))

	decoded, err := DecodeFLAC(bytes.NewReader(encoded))
	require.NoError(t, err)

	assert.Equal(t, 16000, decoded.SampleRate)
	assert.Equal(t, clip.Samples, decoded.Samples)
}

func TestEncodeFLAC_EmptyClip(t *testing.T) {
	_, err := EncodeFLAC(&Clip{SampleRate: 16000})
	assert.Error(t, err)
}
