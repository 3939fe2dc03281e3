package pdftext

import (
	"errors"
	"testing"

	"github.com/doeshing/bizlens/internal/domain"
)

func TestExtractTextRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("<html>definitely not a pdf</html>")},
		{"truncated header", []byte("%PDF-1.4\n")},
	}

	e := NewExtractor(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ExtractText(tt.body)
			if !errors.Is(err, domain.ErrParseFailure) {
				t.Fatalf("ExtractText() error = %v, want parse failure", err)
			}
		})
	}
}
