package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"

	"medbot-backend/internal/models"
)

const (
	serviceName = "Multimodal Medical Chatbot API"
	apiVersion  = "2.0.0"
)

// Readiness reports which upstream clients came up at startup.
type Readiness struct {
	TextModel   bool
	VisionModel bool
	Speech      bool
}

type ServiceHandler struct {
	readiness Readiness
	policy    UploadPolicy
	staticDir string
}

func NewServiceHandler(readiness Readiness, policy UploadPolicy, staticDir string) *ServiceHandler {
	return &ServiceHandler{readiness: readiness, policy: policy, staticDir: staticDir}
}

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:           "healthy",
		Service:          serviceName,
		TextModelReady:   h.readiness.TextModel,
		VisionModelReady: h.readiness.VisionModel,
		SpeechReady:      h.readiness.Speech,
		SupportedInputs:  models.SupportedInputs,
	})
}

func (h *ServiceHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.InfoResponse{
		Name:    serviceName,
		Version: apiVersion,
		Endpoints: map[string]string{
			"GET /":           "Web chat interface",
			"POST /api/chat":  "Chat with text, image, or audio input",
			"GET /api/health": "Service health check",
			"GET /api/info":   "This information",
			"GET /metrics":    "Prometheus metrics",
		},
		SupportedInputs: models.SupportedInputs,
		FileLimits: models.FileLimits{
			MaxSize:      humanize.IBytes(uint64(h.policy.MaxFileSize)),
			MaxSizeBytes: h.policy.MaxFileSize,
			ImageFormats: slices.Clone(h.policy.ImageExtensions),
			AudioFormats: slices.Clone(h.policy.AudioExtensions),
		},
		Description: "A multimodal medical Q&A chatbot using Google Gemini AI",
	})
}

// Index serves the browser chat page.
func (h *ServiceHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(page); err != nil {
		NotFound(w, r)
		return
	}
	http.ServeFile(w, r, page)
}

// Static serves the assets referenced by the chat page under /static/.
func (h *ServiceHandler) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir)))
}
