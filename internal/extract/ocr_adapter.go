package extract

import (
	"context"

	"github.com/atlanticofertlog/cargo-docs/internal/ocr"
)

// OCRAdapter exposes an ocr.Extractor as a TextSource.
type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextResult, error) {
	r, err := a.e.Extract(ctx, path)
	return TextResult{
		Text:       r.Text,
		Pages:      r.Pages,
		SourceType: r.SourceType,
		Method:     r.Method,
		Language:   r.Language,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}, err
}
