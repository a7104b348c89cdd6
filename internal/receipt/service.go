package receipt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ihanakangas/jako/internal/models"
)

// Service processes uploaded receipt files into line-item candidates.
type Service struct {
	extractor Extractor
}

// NewService creates a receipt service on top of the given extractor.
func NewService(extractor Extractor) *Service {
	return &Service{extractor: extractor}
}

// Process writes the upload to a temp file, runs OCR through the
// extractor and parses the text into candidates. The candidate order is
// whatever the parser produced; callers must not rely on it.
func (s *Service) Process(ctx context.Context, filename string, file io.Reader) ([]models.ReceiptCandidate, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".png", ".jpg", ".jpeg":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	tmp, err := os.CreateTemp("", "jako-upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	text, err := s.extractor.ExtractText(ctx, tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	items := ParseItems(text)
	slog.Info("Receipt processed", "file", filename, "candidates", len(items))
	return items, nil
}
