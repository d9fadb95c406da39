package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medbot-backend/internal/metrics"
)

type speechAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type speechResult struct {
	Alternative []speechAlternative `json:"alternative"`
	Final       bool                `json:"final"`
}

type speechResponse struct {
	Result []speechResult `json:"result"`
}

// GoogleSpeechClient talks to the Google Web Speech v2 recognize endpoint.
type GoogleSpeechClient struct {
	endpoint   string
	apiKey     string
	language   string
	httpClient *http.Client
}

func NewGoogleSpeechClient(endpoint, apiKey, language string) *GoogleSpeechClient {
	return &GoogleSpeechClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		language:   language,
		httpClient: &http.Client{},
	}
}

// Recognize submits a FLAC clip and returns the best transcript.
// It returns ErrNoSpeech when the service heard nothing and a
// *SpeechServiceError when the service itself failed.
func (c *GoogleSpeechClient) Recognize(ctx context.Context, flacData []byte, sampleRate int) (string, error) {
	start := time.Now()
	text, err := c.recognize(ctx, flacData, sampleRate)

	outcome := "recognized"
	switch {
	case err == ErrNoSpeech:
		outcome = "no_speech"
	case err != nil:
		outcome = "error"
	}
	metrics.SpeechCallDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return text, err
}

func (c *GoogleSpeechClient) recognize(ctx context.Context, flacData []byte, sampleRate int) (string, error) {
	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", c.language)
	q.Set("key", c.apiKey)
	q.Set("pFilter", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+q.Encode(), bytes.NewReader(flacData))
	if err != nil {
		return "", &SpeechServiceError{Err: fmt.Errorf("failed to build recognition request: %w", err)}
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/x-flac; rate=%d", sampleRate))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SpeechServiceError{Err: fmt.Errorf("recognition connection failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SpeechServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read recognition response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &SpeechServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("recognition request failed: %s", resp.Status)}
	}

	return parseRecognition(string(body))
}

// parseRecognition reads the newline-delimited JSON reply. The first line is
// usually an empty {"result":[]}; the first non-empty result wins.
func parseRecognition(body string) (string, error) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var response speechResponse
		if err := json.Unmarshal([]byte(line), &response); err != nil {
			return "", &SpeechServiceError{Err: fmt.Errorf("recognition response malformed: %w", err)}
		}
		if len(response.Result) == 0 {
			continue
		}

		best, ok := bestAlternative(response.Result[0].Alternative)
		if !ok {
			return "", ErrNoSpeech
		}
		return strings.TrimSpace(best.Transcript), nil
	}
	return "", ErrNoSpeech
}

func bestAlternative(alternatives []speechAlternative) (speechAlternative, bool) {
	if len(alternatives) == 0 {
		return speechAlternative{}, false
	}

	best := alternatives[0]
	for _, alt := range alternatives[1:] {
		if alt.Confidence > best.Confidence {
			best = alt
		}
	}

	if strings.TrimSpace(best.Transcript) == "" {
		return speechAlternative{}, false
	}
	return best, true
}
