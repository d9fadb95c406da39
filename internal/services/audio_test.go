package services

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbot-backend/internal/models"
)

type fakeRecognizer struct {
	text       string
	err        error
	calls      int
	sampleRate int
	flac       []byte
}

func (f *fakeRecognizer) Recognize(_ context.Context, flacData []byte, sampleRate int) (string, error) {
	f.calls++
	f.flac = flacData
	f.sampleRate = sampleRate
	return f.text, f.err
}

// wavBytes renders a 16-bit mono WAV: one second of quiet noise followed by a tone.
func wavBytes(t *testing.T, sampleRate, toneAmp int) []byte {
	t.Helper()
	data := make([]int, 0, 2*sampleRate)
	for i := 0; i < sampleRate; i++ {
		if i%2 == 0 {
			data = append(data, 20)
		} else {
			data = append(data, -20)
		}
	}
	for i := 0; i < sampleRate; i++ {
		data = append(data, int(float64(toneAmp)*math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))))
	}

	path := filepath.Join(t.TempDir(), "recording.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	return out
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary audio files were left behind")
}

func TestAudioExtractor_Recognized(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecognizer{text: " I have had a fever since yesterday "}

	got := NewAudioExtractor(rec, dir).Extract(context.Background(), "recording.wav", wavBytes(t, 16000, 8000))

	assert.Equal(t, models.TranscriptRecognized, got.Kind)
	assert.Equal(t, "I have had a fever since yesterday", got.ContextText())
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 16000, rec.sampleRate)
	assert.Equal(t, "fLaC", string(rec.flac[:4]))
	assertNoTempFiles(t, dir)
}

func TestAudioExtractor_SilenceSkipsRecognizer(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecognizer{text: "unused"}

	got := NewAudioExtractor(rec, dir).Extract(context.Background(), "recording.wav", wavBytes(t, 16000, 0))

	assert.Equal(t, models.TranscriptUnintelligible, got.Kind)
	assert.Zero(t, rec.calls)
	assertNoTempFiles(t, dir)
}

func TestAudioExtractor_NoSpeech(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecognizer{err: ErrNoSpeech}

	got := NewAudioExtractor(rec, dir).Extract(context.Background(), "recording.wav", wavBytes(t, 16000, 8000))

	assert.Equal(t, models.TranscriptUnintelligible, got.Kind)
	assert.Equal(t, "Could not understand the audio. Please try speaking more clearly or check the audio quality.", got.ContextText())
	assertNoTempFiles(t, dir)
}

func TestAudioExtractor_ServiceFailure(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecognizer{err: &SpeechServiceError{StatusCode: 500, Err: errors.New("recognition request failed: 500 Internal Server Error")}}

	got := NewAudioExtractor(rec, dir).Extract(context.Background(), "recording.wav", wavBytes(t, 16000, 8000))

	assert.Equal(t, models.TranscriptServiceFailure, got.Kind)
	assert.Equal(t, "Error with speech recognition service: recognition request failed: 500 Internal Server Error", got.ContextText())
	assertNoTempFiles(t, dir)
}

func TestAudioExtractor_UndecodableAudio(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecognizer{text: "unused"}

	got := NewAudioExtractor(rec, dir).Extract(context.Background(), "recording.wav", []byte("RIFF but not really"))

	assert.Equal(t, models.TranscriptProcessingFailure, got.Kind)
	assert.Contains(t, got.ContextText(), "Error processing audio: ")
	assert.Zero(t, rec.calls)
	assertNoTempFiles(t, dir)
}

func TestAudioExtractor_CompressedFormatUnsupported(t *testing.T) {
	dir := t.TempDir()

	got := NewAudioExtractor(&fakeRecognizer{}, dir).Extract(context.Background(), "voice.mp3", []byte("ID3 mp3 bytes"))

	assert.Equal(t, models.TranscriptProcessingFailure, got.Kind)
	assertNoTempFiles(t, dir)
}

func TestAudioExtractor_NotConfigured(t *testing.T) {
	dir := t.TempDir()
	e := NewAudioExtractor(nil, dir)
	assert.False(t, e.Ready())

	got := e.Extract(context.Background(), "recording.wav", wavBytes(t, 16000, 8000))

	assert.Equal(t, models.TranscriptServiceFailure, got.Kind)
	assert.Contains(t, got.ContextText(), "not configured")
	assertNoTempFiles(t, dir)
}
