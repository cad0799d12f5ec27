package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/bootstrap"
	"github.com/atlanticofertlog/cargo-docs/internal/citylocator"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/export"
	"github.com/atlanticofertlog/cargo-docs/internal/ingest"
	"github.com/atlanticofertlog/cargo-docs/internal/pipeline"
	"github.com/atlanticofertlog/cargo-docs/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir         = flag.String("dir", "", "directory with loading-order documents (required)")
		kindFlag    = flag.String("kind", string(constants.KindOrder), "ORDER or HERINGER_ORDER")
		out         = flag.String("out", "", "order workbook path (default ORDERS_XLSX)")
		date        = flag.String("date", time.Now().Format("02/01/2006"), "loading date dd/mm/yyyy")
		driver      = flag.String("driver", "", "driver name to assign to the extracted orders")
		plate       = flag.String("plate", "", "tractor plate to assign with --driver")
		driverSheet = flag.String("driver-sheet", "", "also write a workbook with only this batch for the driver")
	)
	flag.Parse()

	// Validate required flags
	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	kind, ok := constants.ParseDocumentKind(*kindFlag)
	if !ok || (kind != constants.KindOrder && kind != constants.KindHeringerOrder) {
		printError("Error: --kind must be ORDER or HERINGER_ORDER\n")
		os.Exit(1)
	}
	if _, err := time.Parse("02/01/2006", *date); err != nil {
		printError("Error: invalid --date, use dd/mm/yyyy: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; the terminal prompt shares it with the user
	logger := bootstrap.NewLogger(os.Stderr)
	cfg := common.LoadConfig()
	if *out == "" {
		*out = cfg.Data.OrdersWorkbook
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := bootstrap.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	dispatcher := citylocator.NewDispatcher()
	engine, err := bootstrap.NewEngine(cfg, dispatcher, logger)
	if err != nil {
		logger.Error("failed to build extraction engine", "error", err)
		os.Exit(1)
	}
	jobs := repository.NewExtractJobRepository(db, logger)
	proc := pipeline.NewProcessor(logger,
		pipeline.NewTextStage(jobs, bootstrap.NewTextSource(cfg.OCR, logger), logger),
		pipeline.NewExtractStage(jobs, engine, logger))

	files, stats, err := ingest.ScanDirectory(*dir, ingest.ScanOptions{Extensions: []string{"pdf", "txt"}, SkipHidden: true}, logger)
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		os.Exit(1)
	}

	batchID := uuid.New()
	var (
		mu       sync.Mutex
		outcomes []pipeline.Outcome
		failures int
	)
	queue := pipeline.NewQueue(proc, logger,
		pipeline.WithWorkers(cfg.Queue.Workers),
		pipeline.WithQueueSize(cfg.Queue.Size),
		pipeline.WithBaseContext(ctx),
		// a prompt may wait on the user, so no per-document timeout
		pipeline.WithProcessTimeout(0),
		pipeline.WithResultHandler(func(o pipeline.Outcome, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				return
			}
			outcomes = append(outcomes, o)
		}),
	)

	// Workers run in the background; city choices are asked here, on the main goroutine
	serveCtx, stopServe := context.WithCancel(ctx)
	go func() {
		defer stopServe()
		for _, f := range files {
			if f.Err != "" || f.Duplicate {
				continue
			}
			doc := pipeline.Document{Path: f.Path, Kind: kind, BatchID: &batchID}
			if err := queue.Enqueue(ctx, doc); err != nil {
				logger.Warn("enqueue failed", "path", f.Path, "error", err)
				break
			}
		}
		queue.Shutdown(context.Background())
	}()
	if err := dispatcher.Serve(serveCtx, citylocator.PromptResolver(os.Stdin, os.Stderr)); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("city prompt stopped", "error", err)
	}
	if ctx.Err() != nil {
		logger.Warn("interrupted; workbook not written")
		os.Exit(130)
	}

	// Keep document order stable in the workbook
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Document.Path < outcomes[j].Document.Path })
	var items []entity.OrderLineItem
	review := 0
	for _, o := range outcomes {
		if o.NeedsReview() {
			review++
		}
		if lines, ok := o.Result.Record.([]entity.OrderLineItem); ok {
			items = append(items, lines...)
		}
	}

	wb := export.NewWorkbook(*out, logger)
	written, err := wb.AppendOrders(items, *date)
	if err != nil {
		logger.Error("failed to write order workbook", "error", err)
		os.Exit(1)
	}
	if *driver != "" {
		numbers := make([]string, 0, len(items))
		for _, it := range items {
			numbers = append(numbers, it.OrderNumber)
		}
		if _, err := wb.AssignDriver(*driver, *plate, numbers); err != nil {
			logger.Error("failed to assign driver", "error", err)
			os.Exit(1)
		}
		if *driverSheet != "" {
			if err := wb.WriteDriverSheet(*driverSheet, items, *date, *driver, *plate); err != nil {
				logger.Error("failed to write driver sheet", "error", err)
				os.Exit(1)
			}
		}
	}

	logger.Info("batch processing complete",
		"batch_id", batchID,
		"matched", stats.Matched,
		"duplicates", stats.Duplicates,
		"documents", len(outcomes),
		"failures", failures,
		"needs_review", review,
		"items", len(items),
		"rows_written", written,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents processed: %d\n", len(outcomes))
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Needing review: %d\n", review)
	fmt.Printf("- Order lines: %d (%d written)\n", len(items), written)
	fmt.Printf("- Output: %s\n", *out)
	fmt.Printf("- Batch: %s (dbhealth -batch %s)\n", batchID, batchID)
}
