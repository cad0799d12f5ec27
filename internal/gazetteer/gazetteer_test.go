package gazetteer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFromRows_SkipsIncompleteRows(t *testing.T) {
	g := FromRows([]Row{
		{City: "São Paulo", State: "sp", Code: "3550308"},
		{City: "", State: "SP", Code: "1"},
		{City: "Santo André", State: "SP", Code: "3547809"},
		{City: "Salvador", State: "BA", Code: ""},
		{City: "Feira de Santana", State: "BA", Code: "2910800"},
	}, nil)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"BA", "SP"}, g.States())
	assert.Equal(t, []City{
		{Name: "Santo André", Code: "3547809"},
		{Name: "São Paulo", Code: "3550308"},
	}, g.Cities("SP"))
}

func TestCities_ReturnsCopy(t *testing.T) {
	g := FromRows([]Row{{City: "Rio Verde", State: "GO", Code: "5218805"}}, nil)
	cs := g.Cities("GO")
	cs[0].Name = "changed"
	assert.Equal(t, "Rio Verde", g.Cities("go")[0].Name)
}

func TestEach_Order(t *testing.T) {
	g := FromRows([]Row{
		{City: "B", State: "SP", Code: "2"},
		{City: "A", State: "SP", Code: "1"},
		{City: "C", State: "BA", Code: "3"},
	}, nil)
	var got []string
	g.Each(func(state string, c City) { got = append(got, state+":"+c.Name) })
	assert.Equal(t, []string{"BA:C", "SP:A", "SP:B"}, got)
}

func TestLoad_FromWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cidades.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"São Paulo", "SP", "3550308"},
		{"Rio Verde", "GO", "5218805"},
		{"Incompleta", "BA"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	g, err := Load(path, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []City{{Name: "Rio Verde", Code: "5218805"}}, g.Cities("GO"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.xlsx"), "", nil)
	require.Error(t, err)
}
