package models

// Extraction is the context derived from a non-text input. It always carries
// text, even on failure, so it can be spliced into the prompt.
type Extraction interface {
	ContextText() string
	Outcome() string
}

type ImageOutcome int

const (
	ImageDescribed ImageOutcome = iota
	ImageDecodeFailure
	ImageServiceFailure
)

func (o ImageOutcome) String() string {
	switch o {
	case ImageDescribed:
		return "described"
	case ImageDecodeFailure:
		return "decode_failure"
	case ImageServiceFailure:
		return "service_failure"
	default:
		return "unknown"
	}
}

// ImageExtraction is the result of running an uploaded image through the vision model.
type ImageExtraction struct {
	Kind   ImageOutcome
	Text   string
	Detail string
}

func (e ImageExtraction) ContextText() string {
	if e.Kind == ImageDescribed {
		return e.Text
	}
	return "Unable to process image: " + e.Detail
}

func (e ImageExtraction) Outcome() string { return e.Kind.String() }

type TranscriptOutcome int

const (
	TranscriptRecognized TranscriptOutcome = iota
	TranscriptUnintelligible
	TranscriptServiceFailure
	TranscriptProcessingFailure
)

func (o TranscriptOutcome) String() string {
	switch o {
	case TranscriptRecognized:
		return "recognized"
	case TranscriptUnintelligible:
		return "unintelligible"
	case TranscriptServiceFailure:
		return "service_failure"
	case TranscriptProcessingFailure:
		return "processing_failure"
	default:
		return "unknown"
	}
}

const unintelligibleAudioMessage = "Could not understand the audio. Please try speaking more clearly or check the audio quality."

// Transcript is the result of running an uploaded audio clip through speech recognition.
type Transcript struct {
	Kind   TranscriptOutcome
	Text   string
	Detail string
}

func (t Transcript) ContextText() string {
	switch t.Kind {
	case TranscriptRecognized:
		return t.Text
	case TranscriptUnintelligible:
		return unintelligibleAudioMessage
	case TranscriptServiceFailure:
		return "Error with speech recognition service: " + t.Detail
	default:
		return "Error processing audio: " + t.Detail
	}
}

func (t Transcript) Outcome() string { return t.Kind.String() }
