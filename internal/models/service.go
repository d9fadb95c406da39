package models

type HealthResponse struct {
	Status           string      `json:"status"`
	Service          string      `json:"service"`
	TextModelReady   bool        `json:"text_model_ready"`
	VisionModelReady bool        `json:"vision_model_ready"`
	SpeechReady      bool        `json:"speech_ready"`
	SupportedInputs  []InputType `json:"supported_inputs"`
}

type FileLimits struct {
	MaxSize      string   `json:"max_size"`
	MaxSizeBytes int64    `json:"max_size_bytes"`
	ImageFormats []string `json:"image_formats"`
	AudioFormats []string `json:"audio_formats"`
}

type InfoResponse struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Endpoints       map[string]string `json:"endpoints"`
	SupportedInputs []InputType       `json:"supported_inputs"`
	FileLimits      FileLimits        `json:"file_limits"`
	Description     string            `json:"description"`
}
