package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"medbot-backend/internal/metrics"
)

type GeminiService struct {
	client          *genai.Client
	textModel       *genai.GenerativeModel
	visionModel     *genai.GenerativeModel
	textModelName   string
	visionModelName string
	rateChan        chan struct{} // Token bucket
}

func NewGeminiService(apiKey, textModelName, visionModelName string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if concurrentReqs <= 0 {
		concurrentReqs = 1
	}

	// Token bucket for concurrent calls
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:          client,
		textModel:       client.GenerativeModel(textModelName),
		visionModel:     client.GenerativeModel(visionModelName),
		textModelName:   textModelName,
		visionModelName: visionModelName,
		rateChan:        rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	if s == nil {
		return
	}
	s.client.Close()
}

// acquireRate blocks until a call slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini call slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateAnswer sends the assembled prompt to the text model once and
// returns the full answer.
func (s *GeminiService) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	if s == nil {
		return "", ErrGeneratorUnavailable
	}
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	start := time.Now()
	resp, err := s.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err == nil {
		err = checkResponse(resp)
	}
	metrics.LLMCallDuration.WithLabelValues(s.textModelName, "generate", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return extractText(resp), nil
}

// DescribeImage sends the instruction and the image to the vision model in a
// single call. format is the image subtype, e.g. "png" or "jpeg".
func (s *GeminiService) DescribeImage(ctx context.Context, prompt, format string, data []byte) (string, error) {
	if s == nil {
		return "", ErrGeneratorUnavailable
	}
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	start := time.Now()
	resp, err := s.visionModel.GenerateContent(ctx, genai.Text(prompt), genai.ImageData(format, data))
	if err == nil {
		err = checkResponse(resp)
	}
	metrics.LLMCallDuration.WithLabelValues(s.visionModelName, "describe_image", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("Gemini vision error: %w", err)
	}

	return strings.TrimSpace(extractText(resp)), nil
}

func checkResponse(resp *genai.GenerateContentResponse) error {
	if extractText(resp) != "" {
		return nil
	}
	reason := "no candidates"
	if resp != nil && len(resp.Candidates) > 0 {
		reason = resp.Candidates[0].FinishReason.String()
	}
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		reason = "prompt blocked: " + resp.PromptFeedback.BlockReason.String()
	}
	return &EmptyResponseError{Reason: reason}
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
