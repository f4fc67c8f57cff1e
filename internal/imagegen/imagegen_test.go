package imagegen

import (
	"strings"
	"testing"
)

func TestImageFilename(t *testing.T) {
	got := imageFilename("Edge Computing!")

	if !strings.HasPrefix(got, "Edge_Computing_") {
		t.Errorf("Expected sanitized topic prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("Expected .png extension, got %q", got)
	}
	for _, r := range strings.TrimSuffix(got, ".png") {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			t.Errorf("Unexpected character %q in filename %q", r, got)
		}
	}
}

func TestImageFilenameTruncatesLongTopics(t *testing.T) {
	got := imageFilename(strings.Repeat("verylongtopic", 10))

	stem := strings.TrimSuffix(got, ".png")
	if idx := strings.LastIndex(stem, "_"); idx > 20 {
		t.Errorf("Expected topic portion capped at 20 chars, got %q", got)
	}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(nil, "", "", "out"); err == nil {
		t.Error("Expected error for missing API key")
	}
}
