package receipt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are not pdf/png/jpg/jpeg.
var ErrUnsupportedFormat = errors.New("unsupported receipt format, expected pdf, png, jpg or jpeg")

// Extractor produces the raw OCR text of a receipt file. The OCR engine
// is an external collaborator; implementations only bridge to it.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// TesseractExtractor shells out to the tesseract binary, converting PDFs
// to page images with pdftoppm first. Multi-page PDFs are concatenated.
type TesseractExtractor struct {
	TesseractPath string
	PdftoppmPath  string
}

// NewTesseractExtractor returns an extractor using the given binaries,
// defaulting to whatever is on PATH.
func NewTesseractExtractor(tesseractPath, pdftoppmPath string) *TesseractExtractor {
	if tesseractPath == "" {
		tesseractPath = "tesseract"
	}
	if pdftoppmPath == "" {
		pdftoppmPath = "pdftoppm"
	}
	return &TesseractExtractor{TesseractPath: tesseractPath, PdftoppmPath: pdftoppmPath}
}

// ExtractText runs OCR on the file at path.
func (e *TesseractExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg":
		return e.ocr(ctx, path)
	case ".pdf":
		return e.ocrPDF(ctx, path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ocr runs tesseract on one image, output to stdout.
func (e *TesseractExtractor) ocr(ctx context.Context, imagePath string) (string, error) {
	out, err := exec.CommandContext(ctx, e.TesseractPath, imagePath, "stdout").Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return string(out), nil
}

// ocrPDF renders each PDF page to a png and runs OCR on every page.
func (e *TesseractExtractor) ocrPDF(ctx context.Context, pdfPath string) (string, error) {
	dir, err := os.MkdirTemp("", "jako-receipt-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, e.PdftoppmPath, "-png", "-r", "300", pdfPath, prefix)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w", err)
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", fmt.Errorf("failed to glob pages: %w", err)
	}
	if len(pages) == 0 {
		return "", errors.New("pdf produced no pages")
	}
	sort.Strings(pages)

	var text strings.Builder
	for _, page := range pages {
		pageText, err := e.ocr(ctx, page)
		if err != nil {
			return "", err
		}
		text.WriteString(pageText)
		text.WriteString("\n\n")
	}
	return text.String(), nil
}
