package models

// InputType classifies what the user submitted to the chat endpoint.
type InputType string

const (
	InputText  InputType = "text"
	InputImage InputType = "image"
	InputAudio InputType = "audio"
)

// SupportedInputs lists every input kind the chat endpoint accepts.
var SupportedInputs = []InputType{InputText, InputImage, InputAudio}

// Disclaimer is attached verbatim to every successful chat response.
const Disclaimer = "⚠️ Important: This information is for educational purposes only and is not medical advice. Always consult with a qualified healthcare professional for medical concerns."

// ChatRequest is the JSON payload for text-only chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// Upload is a classified file attached to a multipart chat request.
type Upload struct {
	Kind     InputType
	Filename string
	Data     []byte
}

// ChatResponse is the success envelope of POST /api/chat.
type ChatResponse struct {
	Response         string    `json:"response"`
	InputType        InputType `json:"input_type"`
	ExtractedContext *string   `json:"extracted_context"`
	Disclaimer       string    `json:"disclaimer"`
	Success          bool      `json:"success"`
}

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	RequestID string `json:"request_id,omitempty"`
}
