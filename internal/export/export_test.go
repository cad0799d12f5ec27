package export

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
)

func sampleItems(n int) []entity.OrderLineItem {
	items := make([]entity.OrderLineItem, n)
	for i := range items {
		items[i] = entity.OrderLineItem{
			Customer:    "FAZENDA BOA VISTA",
			OrderNumber: "4512" + string(rune('0'+i%10)),
			ProductName: "FERTILIZANTE NPK 04-14-08",
			WeightTons:  32.5,
			PackageType: constants.PackageBigBag,
			City:        "Rio Verde-GO",
		}
	}
	return items
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{32, "32"},
		{32.5, "32.5"},
		{1.2345, "1.234"},
		{0.0004, "0"},
		{0, "0"},
		{12.05, "12.05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWeight(tt.in), "FormatWeight(%v)", tt.in)
	}
}

func TestAppendOrdersCreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordens.xlsx")
	wb := NewWorkbook(path, nil)

	n, err := wb.AppendOrders(sampleItems(2), "17/10/2026")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := readRows(t, path)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, "FAZENDA BOA VISTA", rows[2][0])
	assert.Equal(t, "17/10/2026", rows[2][1])
	assert.Equal(t, "45120", rows[2][4])
	assert.Equal(t, "BIG BAG", rows[2][6])
	assert.Equal(t, "32,5", rows[2][7])
	assert.Equal(t, "Rio Verde-GO", rows[2][8])
	assert.Equal(t, "45121", rows[3][4])
}

func TestAppendOrdersCapsAndClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordens.xlsx")
	wb := NewWorkbook(path, nil)

	n, err := wb.AppendOrders(sampleItems(15), "01/10/2026")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Len(t, readRows(t, path), 14)

	n, err = wb.AppendOrders(sampleItems(1), "02/10/2026")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows := readRows(t, path)
	assert.Equal(t, "02/10/2026", rows[2][1])
	for _, row := range rows[3:] {
		for _, cell := range row {
			assert.Empty(t, cell)
		}
	}
}

func TestAssignDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordens.xlsx")
	wb := NewWorkbook(path, nil)
	_, err := wb.AppendOrders(sampleItems(3), "17/10/2026")
	require.NoError(t, err)

	updated, err := wb.AssignDriver("JOAO DA SILVA", "ABC1D23", []string{" 45120 ", "45122"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	rows := readRows(t, path)
	assert.Equal(t, "ABC1D23", rows[2][2])
	assert.Equal(t, "JOAO DA SILVA", rows[2][3])
	assert.Empty(t, rows[3][3])
	assert.Equal(t, "JOAO DA SILVA", rows[4][3])

	updated, err = wb.AssignDriver("X", "Y", nil)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestAssignDriverMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", SheetName))
	require.NoError(t, f.SetSheetRow(SheetName, "A1", &[]string{"Cliente", "Produto"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewWorkbook(path, nil).AssignDriver("JOAO", "ABC1D23", []string{"1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestWriteDriverSheet(t *testing.T) {
	dir := t.TempDir()
	template := NewWorkbook(filepath.Join(dir, "modelo.xlsx"), nil)
	_, err := template.AppendOrders(sampleItems(5), "01/10/2026")
	require.NoError(t, err)

	out := filepath.Join(dir, "motorista.xlsx")
	items := sampleItems(2)
	require.NoError(t, template.WriteDriverSheet(out, items, "17/10/2026", "MARIA SOUZA", "XYZ9A87"))

	rows := readRows(t, out)
	require.Len(t, rows, 4)
	assert.Equal(t, "XYZ9A87", rows[2][2])
	assert.Equal(t, "MARIA SOUZA", rows[3][3])
	assert.Equal(t, "32.5", rows[3][7])

	// template untouched
	assert.Len(t, readRows(t, template.Path), 7)
}
