package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medbot-backend/internal/models"
)

func TestSecureFilename(t *testing.T) {
	tests := map[string]string{
		"My cool movie.mov":          "My_cool_movie.mov",
		"../../../etc/passwd":        "etc_passwd",
		"i contain cool ümläuts.txt": "i_contain_cool_umlauts.txt",
		"résumé.png":                 "resume.png",
		"C:\\Users\\me\\x.wav":       "C_Users_me_x.wav",
		"   ":                        "",
		".hidden.jpg":                "hidden.jpg",
	}

	for in, want := range tests {
		assert.Equal(t, want, secureFilename(in), "input %q", in)
	}
}

func TestUploadPolicy_Classify(t *testing.T) {
	p := UploadPolicy{
		ImageExtensions: []string{"png", "jpg"},
		AudioExtensions: []string{"wav", "png"},
	}

	tests := []struct {
		name     string
		wantKind models.InputType
		wantOK   bool
	}{
		{"scan.PNG", models.InputImage, true},
		{"photo.jpg", models.InputImage, true},
		{"recording.wav", models.InputAudio, true},
		{"notes.txt", "", false},
		{"noextension", "", false},
		{"trailingdot.", "", false},
	}

	for _, tc := range tests {
		kind, ok := p.Classify(tc.name)
		assert.Equal(t, tc.wantOK, ok, tc.name)
		assert.Equal(t, tc.wantKind, kind, tc.name)
	}
}
