package handlers

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"medbot-backend/internal/models"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// secureFilename reduces a client-supplied name to a flat ASCII file name:
// accents are folded, path separators and whitespace become underscores and
// anything outside [A-Za-z0-9_.-] is dropped. "../../etc/passwd" → "etc_passwd".
func secureFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// fileExtension returns the lower-cased text after the last dot, or "" when
// the name has none.
func fileExtension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// UploadPolicy is the request size limit and the extension whitelists.
type UploadPolicy struct {
	MaxFileSize     int64
	ImageExtensions []string
	AudioExtensions []string
}

// Classify maps a sanitized filename to an input type. Image extensions are
// checked before audio ones.
func (p UploadPolicy) Classify(filename string) (models.InputType, bool) {
	ext := fileExtension(filename)
	if ext == "" {
		return "", false
	}
	switch {
	case slices.Contains(p.ImageExtensions, ext):
		return models.InputImage, true
	case slices.Contains(p.AudioExtensions, ext):
		return models.InputAudio, true
	default:
		return "", false
	}
}

func (p UploadPolicy) invalidTypeMessage() string {
	return fmt.Sprintf("Please upload a valid image (%s) or audio file (%s).",
		strings.Join(sortedCopy(p.ImageExtensions), ", "),
		strings.Join(sortedCopy(p.AudioExtensions), ", "))
}

func sortedCopy(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}
