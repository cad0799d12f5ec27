package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/bootstrap"
	"github.com/atlanticofertlog/cargo-docs/internal/citylocator"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/extract"
	"github.com/atlanticofertlog/cargo-docs/internal/pipeline"
)

type output struct {
	Kind          constants.DocumentKind `json:"kind"`
	Source        string                 `json:"source"`
	Method        string                 `json:"method,omitempty"`
	Records       int                    `json:"records"`
	Record        any                    `json:"record"`
	ReviewReasons []string               `json:"review_reasons,omitempty"`
}

func main() {
	var (
		kindFlag = flag.String("kind", "", "document kind: "+strings.Join(constants.Kinds(), ", "))
		file     = flag.String("file", "", "document to read (pdf, image or txt); stdin text when empty")
		ask      = flag.Bool("ask", false, "prompt on the terminal when several cities match")
	)
	flag.Parse()

	logger := bootstrap.NewLogger(os.Stderr)
	kind, ok := constants.ParseDocumentKind(*kindFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: --kind must be one of %s\n", strings.Join(constants.Kinds(), ", "))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	var chooser citylocator.Chooser = citylocator.FirstChooser{}
	if *ask && *file != "" {
		chooser = citylocator.ChooserFunc(citylocator.PromptResolver(os.Stdin, os.Stderr))
	}
	engine, err := bootstrap.NewEngine(cfg, chooser, logger)
	if err != nil {
		logger.Error("failed to build extraction engine", "error", err)
		os.Exit(1)
	}

	var text extract.TextResult
	source := "stdin"
	if *file != "" {
		source = *file
		text, err = bootstrap.NewTextSource(cfg.OCR, logger).Extract(ctx, *file)
	} else {
		var raw []byte
		raw, err = io.ReadAll(os.Stdin)
		text = extract.TextResult{Text: string(raw), SourceType: constants.TEXT, Method: "plain", Confidence: 1}
	}
	if err != nil {
		logger.Error("failed to read document text", "source", source, "error", err)
		os.Exit(1)
	}

	res, err := engine.Extract(ctx, kind, text.Text)
	if err != nil {
		logger.Error("extraction failed", "doc_kind", kind, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(output{
		Kind:          kind,
		Source:        source,
		Method:        text.Method,
		Records:       res.Records,
		Record:        res.Record,
		ReviewReasons: pipeline.ReviewReasons(res, text),
	}); err != nil {
		logger.Error("failed to write output", "error", err)
		os.Exit(1)
	}
}
