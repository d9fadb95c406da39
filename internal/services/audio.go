package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"medbot-backend/internal/audio"
	"medbot-backend/internal/logger"
	"medbot-backend/internal/metrics"
	"medbot-backend/internal/models"
)

// SpeechRecognizer transcribes a FLAC clip.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, flacData []byte, sampleRate int) (string, error)
}

// AudioExtractor turns an uploaded recording into prompt context.
type AudioExtractor struct {
	recognizer SpeechRecognizer
	tempDir    string
}

// NewAudioExtractor creates an extractor. tempDir "" means os.TempDir().
func NewAudioExtractor(recognizer SpeechRecognizer, tempDir string) *AudioExtractor {
	return &AudioExtractor{recognizer: recognizer, tempDir: tempDir}
}

func (e *AudioExtractor) Ready() bool {
	return e != nil && e.recognizer != nil
}

// Extract never fails: every fault is folded into the transcript outcome.
func (e *AudioExtractor) Extract(ctx context.Context, filename string, data []byte) models.Transcript {
	result := e.transcribe(ctx, filename, data)
	metrics.ExtractionsTotal.WithLabelValues(string(models.InputAudio), result.Outcome()).Inc()
	return result
}

func (e *AudioExtractor) transcribe(ctx context.Context, filename string, data []byte) models.Transcript {
	path, cleanup, err := writeTempAudio(e.tempDir, filepath.Ext(filename), data)
	if err != nil {
		logger.Error(ctx, "Audio processing error", err)
		return processingFailure(err)
	}
	defer cleanup()

	clip, err := audio.DecodeFile(path)
	if err != nil {
		logger.Error(ctx, "Audio processing error", err, "filename", filename)
		return processingFailure(err)
	}

	threshold := audio.CalibrateAmbient(clip, audio.CalibrationWindow)
	if !audio.HasSpeech(clip, threshold) {
		logger.Info(ctx, "No speech above ambient level", "threshold", threshold, "duration", clip.Duration())
		return models.Transcript{Kind: models.TranscriptUnintelligible}
	}

	if !e.Ready() {
		return models.Transcript{Kind: models.TranscriptServiceFailure, Detail: "speech recognition is not configured"}
	}

	flacData, err := audio.EncodeFLAC(clip)
	if err != nil {
		logger.Error(ctx, "Audio processing error", err)
		return processingFailure(err)
	}

	text, err := e.recognizer.Recognize(ctx, flacData, clip.SampleRate)
	if errors.Is(err, ErrNoSpeech) {
		return models.Transcript{Kind: models.TranscriptUnintelligible}
	}
	if err != nil {
		logger.Error(ctx, "Speech recognition service error", err)
		return models.Transcript{Kind: models.TranscriptServiceFailure, Detail: err.Error()}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Transcript{Kind: models.TranscriptUnintelligible}
	}
	return models.Transcript{Kind: models.TranscriptRecognized, Text: text}
}

func processingFailure(err error) models.Transcript {
	return models.Transcript{Kind: models.TranscriptProcessingFailure, Detail: err.Error()}
}

// writeTempAudio stores the upload in a transient file. The returned cleanup
// must be called on every path once the file has been created.
func writeTempAudio(dir, ext string, data []byte) (string, func(), error) {
	f, err := os.CreateTemp(dir, "medbot-audio-*"+strings.ToLower(ext))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary audio file: %w", err)
	}
	path := f.Name()
	cleanup := func() { os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temporary audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write temporary audio file: %w", err)
	}

	return path, cleanup, nil
}
