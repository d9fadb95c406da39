package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"medbot-backend/internal/logger"
	"medbot-backend/internal/metrics"
	"medbot-backend/internal/models"
	"medbot-backend/internal/services"
)

const (
	defaultImageMessage = "Can you help me understand this image?"
	defaultAudioMessage = "Can you help me with what I described?"

	multipartMemory = 32 << 20
)

// Generator produces the final answer for an assembled prompt.
type Generator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

type ImageContextExtractor interface {
	Extract(ctx context.Context, data []byte) models.ImageExtraction
}

type AudioContextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) models.Transcript
}

type ChatHandler struct {
	generator Generator
	images    ImageContextExtractor
	audio     AudioContextExtractor
	policy    UploadPolicy
}

// NewChatHandler wires the chat endpoint. A nil generator makes every chat
// call answer 503.
func NewChatHandler(generator Generator, images ImageContextExtractor, audio AudioContextExtractor, policy UploadPolicy) *ChatHandler {
	return &ChatHandler{
		generator: generator,
		images:    images,
		audio:     audio,
		policy:    policy,
	}
}

// chatInput is a validated request: a message plus an optional classified upload.
type chatInput struct {
	kind    models.InputType
	message string
	upload  *models.Upload
}

// requestError is a client-facing rejection produced while parsing input.
type requestError struct {
	status  int
	title   string
	message string
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.generator == nil {
		h.reject(w, r, models.InputText, &requestError{
			status:  http.StatusServiceUnavailable,
			title:   "Service unavailable",
			message: "AI model is not available. Please check your API configuration.",
		})
		return
	}

	if r.ContentLength > h.policy.MaxFileSize {
		h.reject(w, r, models.InputText, h.fileTooLarge())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.policy.MaxFileSize)
	in, reqErr := h.parseInput(r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if reqErr != nil {
		h.reject(w, r, in.kind, reqErr)
		return
	}

	var extracted *string
	contextText := ""
	switch in.kind {
	case models.InputImage:
		contextText = h.images.Extract(ctx, in.upload.Data).ContextText()
		extracted = &contextText
	case models.InputAudio:
		contextText = h.audio.Extract(ctx, in.upload.Filename, in.upload.Data).ContextText()
		extracted = &contextText
	}

	prompt := services.BuildMedicalPrompt(in.message, contextText)
	answer, err := h.generator.GenerateAnswer(ctx, prompt)
	if errors.Is(err, services.ErrGeneratorUnavailable) {
		h.reject(w, r, in.kind, &requestError{
			status:  http.StatusServiceUnavailable,
			title:   "Service unavailable",
			message: "AI model is not available. Please check your API configuration.",
		})
		return
	}
	if err != nil {
		logger.Error(ctx, "Error generating response", err, "input_type", in.kind)
		h.reject(w, r, in.kind, &requestError{
			status:  http.StatusInternalServerError,
			title:   "Internal server error",
			message: "Sorry, I encountered an error while processing your request. Please try again.",
		})
		return
	}

	metrics.ChatRequestsTotal.WithLabelValues(string(in.kind), strconv.Itoa(http.StatusOK)).Inc()
	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response:         answer,
		InputType:        in.kind,
		ExtractedContext: extracted,
		Disclaimer:       models.Disclaimer,
		Success:          true,
	})
}

func (h *ChatHandler) reject(w http.ResponseWriter, r *http.Request, kind models.InputType, e *requestError) {
	if kind == "" {
		kind = models.InputText
	}
	metrics.ChatRequestsTotal.WithLabelValues(string(kind), strconv.Itoa(e.status)).Inc()
	writeJSON(w, e.status, errorResp(e.title, e.message, r))
}

func (h *ChatHandler) parseInput(r *http.Request) (chatInput, *requestError) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		return h.parseMultipart(r)
	case "application/json":
		return h.parseJSON(r)
	default:
		return chatInput{}, invalidFormat()
	}
}

func (h *ChatHandler) parseJSON(r *http.Request) (chatInput, *requestError) {
	in := chatInput{kind: models.InputText}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			return in, h.fileTooLarge()
		}
		return in, invalidFormat()
	}

	in.message = strings.TrimSpace(req.Message)
	if in.message == "" {
		return in, emptyInput()
	}
	return in, nil
}

func (h *ChatHandler) parseMultipart(r *http.Request) (chatInput, *requestError) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			return chatInput{}, h.fileTooLarge()
		}
		return chatInput{}, invalidFormat()
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		// A file part sent without a filename is stored as a plain value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			return chatInput{}, emptyInput()
		}
		return chatInput{}, invalidFormat()
	}
	if err != nil {
		return chatInput{}, invalidFormat()
	}
	defer file.Close()

	if header.Filename == "" {
		return chatInput{}, emptyInput()
	}

	filename := secureFilename(header.Filename)
	kind, ok := h.policy.Classify(filename)
	if !ok {
		return chatInput{}, &requestError{
			status:  http.StatusBadRequest,
			title:   "Invalid file type",
			message: h.policy.invalidTypeMessage(),
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return chatInput{kind: kind}, invalidFormat()
	}

	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		message = defaultImageMessage
		if kind == models.InputAudio {
			message = defaultAudioMessage
		}
	}

	return chatInput{
		kind:    kind,
		message: message,
		upload:  &models.Upload{Kind: kind, Filename: filename, Data: data},
	}, nil
}

func (h *ChatHandler) fileTooLarge() *requestError {
	return &requestError{
		status:  http.StatusRequestEntityTooLarge,
		title:   "File too large",
		message: fmt.Sprintf("Uploads are limited to %s.", humanize.IBytes(uint64(h.policy.MaxFileSize))),
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func invalidFormat() *requestError {
	return &requestError{
		status:  http.StatusBadRequest,
		title:   "Invalid request format",
		message: "Please provide a message or file upload.",
	}
}

func emptyInput() *requestError {
	return &requestError{
		status:  http.StatusBadRequest,
		title:   "Empty input",
		message: "Please provide a message or meaningful file content.",
	}
}
