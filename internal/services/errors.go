package services

import "errors"

// ErrGeneratorUnavailable is returned when no text model client could be created.
var ErrGeneratorUnavailable = errors.New("text generation is not available")

// ErrNoSpeech means the recognizer heard nothing it could transcribe.
var ErrNoSpeech = errors.New("no speech recognized")

// EmptyResponseError is returned when Gemini answers without any text,
// e.g. because the candidate was stopped by a safety filter.
type EmptyResponseError struct{ Reason string }

func (e *EmptyResponseError) Error() string { return "empty model response: " + e.Reason }

// SpeechServiceError wraps a failure of the speech backend itself
// (network, quota, malformed reply).
type SpeechServiceError struct {
	StatusCode int
	Err        error
}

func (e *SpeechServiceError) Error() string { return e.Err.Error() }

func (e *SpeechServiceError) Unwrap() error { return e.Err }
