// Package export writes extracted order lines into the loading-order workbook.
package export

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
)

const SheetName = "Ordem de Carregamento"

// Column headers of the loading-order sheet, in sheet order.
const (
	HeaderCustomer    = "Cliente"
	HeaderLoadingDate = "Data de Carregamento"
	HeaderPlate       = "Placa cavalo mecânico"
	HeaderDriver      = "Nome do condutor"
	HeaderOrderNumber = "Número do pedido"
	HeaderProduct     = "Produto"
	HeaderPackage     = "Embalagem"
	HeaderQuantity    = "Quantidade"
	HeaderCity        = "Cidade/UF"
)

var Headers = []string{
	HeaderCustomer,
	HeaderLoadingDate,
	HeaderPlate,
	HeaderDriver,
	HeaderOrderNumber,
	HeaderProduct,
	HeaderPackage,
	HeaderQuantity,
	HeaderCity,
}

const (
	firstDataRow   = 3
	lastClearedRow = 20
	lastOrderRow   = 14
	lastDriverRow  = 99
)

// Workbook is the shared loading-order spreadsheet at Path.
type Workbook struct {
	Path   string
	logger *slog.Logger
}

func NewWorkbook(path string, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{Path: path, logger: logger}
}

// open loads the workbook, creating the file, sheet or header row when missing.
func (w *Workbook) open() (*excelize.File, error) {
	if _, err := os.Stat(w.Path); errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", SheetName); err != nil {
			return nil, err
		}
		if err := writeHeaders(f); err != nil {
			return nil, err
		}
		w.logger.Info("export.workbook.created", "path", w.Path)
		return f, nil
	}

	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return nil, err
		}
		return f, writeHeaders(f)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return f, writeHeaders(f)
	}
	return f, nil
}

func writeHeaders(f *excelize.File) error {
	return f.SetSheetRow(SheetName, "A1", &Headers)
}

func (w *Workbook) save(f *excelize.File) error {
	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// sheetLayout reads the header row and the number of used rows.
func sheetLayout(f *excelize.File) ([]string, int, error) {
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, len(rows), nil
}

func clearRows(f *excelize.File, from, to, maxRow, cols int) error {
	for row := from; row <= to && row <= maxRow; row++ {
		for col := 1; col <= cols; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			if err := f.SetCellValue(SheetName, cell, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRow(f *excelize.File, headers []string, row int, values map[string]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(SheetName, cell, values[h]); err != nil {
			return err
		}
	}
	return nil
}

func packageLabel(item entity.OrderLineItem) string {
	if item.PackageLabel != "" {
		return item.PackageLabel
	}
	return item.PackageType.Label()
}

// orderNumberCell stores numeric order numbers as numbers so lookups match either way.
func orderNumberCell(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

// AppendOrders replaces the order block with items, at most rows 3 to 14.
// Rows 3 to 20 are cleared first.
func (w *Workbook) AppendOrders(items []entity.OrderLineItem, loadingDate string) (int, error) {
	start := time.Now()
	f, err := w.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	headers, maxRow, err := sheetLayout(f)
	if err != nil {
		return 0, err
	}
	if err := clearRows(f, firstDataRow, lastClearedRow, maxRow, len(headers)); err != nil {
		return 0, err
	}

	written := 0
	for i, item := range items {
		row := firstDataRow + i
		if row > lastOrderRow {
			w.logger.Warn("export.orders.truncated", "items", len(items), "written", written)
			break
		}
		err := writeRow(f, headers, row, map[string]any{
			HeaderCustomer:    item.Customer,
			HeaderLoadingDate: loadingDate,
			HeaderOrderNumber: orderNumberCell(item.OrderNumber),
			HeaderProduct:     item.ProductName,
			HeaderPackage:     packageLabel(item),
			HeaderQuantity:    strings.ReplaceAll(FormatWeight(item.WeightTons), ".", ","),
			HeaderCity:        item.City,
		})
		if err != nil {
			return written, err
		}
		written++
	}

	if err := w.save(f); err != nil {
		return written, err
	}
	w.logger.Info("export.orders.ok",
		"path", w.Path,
		"rows", written,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return written, nil
}

// AssignDriver fills driver and plate on every row whose order number is in orderNumbers.
func (w *Workbook) AssignDriver(driver, plate string, orderNumbers []string) (int, error) {
	if len(orderNumbers) == 0 {
		return 0, nil
	}
	wanted := make(map[string]struct{}, len(orderNumbers))
	for _, n := range orderNumbers {
		wanted[strings.TrimSpace(n)] = struct{}{}
	}

	f, err := w.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	headers, maxRow, err := sheetLayout(f)
	if err != nil {
		return 0, err
	}
	col := func(name string) (int, error) {
		for i, h := range headers {
			if h == name {
				return i + 1, nil
			}
		}
		return 0, common.NewAppError("MISSING_COLUMN", fmt.Sprintf("column %q not found in %s", name, SheetName), common.ErrInvalidInput)
	}
	orderCol, err := col(HeaderOrderNumber)
	if err != nil {
		return 0, err
	}
	driverCol, err := col(HeaderDriver)
	if err != nil {
		return 0, err
	}
	plateCol, err := col(HeaderPlate)
	if err != nil {
		return 0, err
	}

	updated := 0
	for row := 2; row <= maxRow; row++ {
		cell, _ := excelize.CoordinatesToCellName(orderCol, row)
		v, err := f.GetCellValue(SheetName, cell)
		if err != nil {
			return updated, err
		}
		if _, ok := wanted[strings.TrimSpace(v)]; !ok || v == "" {
			continue
		}
		driverCell, _ := excelize.CoordinatesToCellName(driverCol, row)
		plateCell, _ := excelize.CoordinatesToCellName(plateCol, row)
		if err := f.SetCellValue(SheetName, driverCell, driver); err != nil {
			return updated, err
		}
		if err := f.SetCellValue(SheetName, plateCell, plate); err != nil {
			return updated, err
		}
		updated++
	}

	if err := w.save(f); err != nil {
		return updated, err
	}
	w.logger.Info("export.driver.assigned", "path", w.Path, "rows", updated)
	return updated, nil
}

// WriteDriverSheet copies the workbook to outPath holding only items, each tagged with driver and plate.
func (w *Workbook) WriteDriverSheet(outPath string, items []entity.OrderLineItem, loadingDate, driver, plate string) error {
	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	headers, maxRow, err := sheetLayout(f)
	if err != nil {
		return err
	}
	if err := clearRows(f, firstDataRow, lastDriverRow, maxRow, len(headers)); err != nil {
		return err
	}
	for i, item := range items {
		err := writeRow(f, headers, firstDataRow+i, map[string]any{
			HeaderCustomer:    item.Customer,
			HeaderLoadingDate: loadingDate,
			HeaderPlate:       plate,
			HeaderDriver:      driver,
			HeaderOrderNumber: item.OrderNumber,
			HeaderProduct:     item.ProductName,
			HeaderPackage:     packageLabel(item),
			HeaderQuantity:    item.WeightTons,
			HeaderCity:        item.City,
		})
		if err != nil {
			return err
		}
	}
	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	w.logger.Info("export.driver_sheet.ok", "path", outPath, "rows", len(items), "driver", driver)
	return nil
}
