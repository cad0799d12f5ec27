package gazetteer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// Load reads a spreadsheet whose columns are city, state code, locality code
// (no header row). An empty sheet name selects the first sheet.
func Load(path, sheet string, logger *slog.Logger) (*Gazetteer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("close gazetteer workbook", "path", path, "error", cerr)
		}
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer sheet %q: %w", sheet, err)
	}

	rows := make([]Row, 0, len(raw))
	for _, cols := range raw {
		rows = append(rows, Row{City: col(cols, 0), State: col(cols, 1), Code: col(cols, 2)})
	}
	g := FromRows(rows, logger)

	logger.Info("gazetteer loaded",
		"path", path,
		"sheet", sheet,
		"cities", g.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return g, nil
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}
