package extract

import (
	"context"
	"time"
)

// TextSource turns a document file into page-ordered UTF-8 text.
type TextSource interface {
	Extract(ctx context.Context, path string) (TextResult, error)
}

type TextResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TEXT
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "plain"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32 // 0..1; 1 for text layers
}
