// Package bootstrap wires configuration into the components the commands share.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/internal/citylocator"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/extract"
	"github.com/atlanticofertlog/cargo-docs/internal/gazetteer"
	"github.com/atlanticofertlog/cargo-docs/internal/ocr"
	"github.com/atlanticofertlog/cargo-docs/internal/repository"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

// NewLogger builds the slog logger from LOG_LEVEL (debug|info|warn|error) and
// LOG_FORMAT (json|text).
func NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewEngine loads the rule tables and the gazetteer and builds the engine.
func NewEngine(cfg *common.Config, chooser citylocator.Chooser, logger *slog.Logger) (*extract.Engine, error) {
	r, err := rules.Load(cfg.Data.RulesPath)
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "load rules", err)
	}
	g, err := gazetteer.Load(cfg.Data.GazetteerPath, cfg.Data.GazetteerSheet, logger)
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "load gazetteer", err)
	}
	if g.Len() == 0 {
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("gazetteer %s has no usable rows", cfg.Data.GazetteerPath), common.ErrInvalidInput)
	}
	locator := citylocator.New(g, r.Locator, chooser, logger.With("component", "citylocator"))
	return extract.NewEngine(r, locator, logger), nil
}

// NewTextSource builds the poppler/tesseract text source.
func NewTextSource(cfg common.OCRConfig, logger *slog.Logger) extract.TextSource {
	return extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.Pdftotext,
		Pdftoppm:      cfg.Pdftoppm,
		Tesseract:     cfg.Tesseract,
		TesseractLang: cfg.TesseractLang,
		DPI:           cfg.DPI,
		MaxPages:      cfg.MaxPages,
		TessdataDir:   cfg.TessdataDir,
	}, logger.With("component", "ocr")))
}

// OpenStore opens the extract_job store.
func OpenStore(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (*repository.DB, error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, common.WrapError(err, fmt.Sprintf("open store (%s)", repository.DialectFor(cfg.DSN)))
	}
	return db, nil
}
