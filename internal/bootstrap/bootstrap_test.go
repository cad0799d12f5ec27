package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/citylocator"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}

func TestNewLoggerFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "info")
	var buf bytes.Buffer
	NewLogger(&buf).Info("hello", "doc_kind", "ORDER")
	assert.Contains(t, buf.String(), "doc_kind=ORDER")

	t.Setenv("LOG_FORMAT", "")
	buf.Reset()
	NewLogger(&buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func writeGazetteer(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "municipios.xlsx")
	f := excelize.NewFile()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestNewEngine(t *testing.T) {
	cfg := &common.Config{Data: common.DataConfig{
		GazetteerPath: writeGazetteer(t, [][]any{{"Rio Verde", "GO", "5218805"}}),
	}}
	engine, err := NewEngine(cfg, citylocator.FirstChooser{}, slog.Default())
	require.NoError(t, err)

	res, err := engine.Extract(context.Background(), constants.KindOrder,
		"Nr. Pedido 77\nCLIENTE: SITIO NOVO\nRIO VERDE/GO\n001 : UREIA GRANEL 30,000")
	require.NoError(t, err)
	items := res.Record.([]entity.OrderLineItem)
	require.Len(t, items, 1)
	assert.Equal(t, "Rio Verde-GO", items[0].City)
}

func TestNewEngineErrors(t *testing.T) {
	cfg := &common.Config{Data: common.DataConfig{GazetteerPath: filepath.Join(t.TempDir(), "missing.xlsx")}}
	_, err := NewEngine(cfg, nil, slog.Default())
	assert.Error(t, err)

	cfg.Data.GazetteerPath = writeGazetteer(t, [][]any{{"", "GO", "1"}})
	_, err = NewEngine(cfg, nil, slog.Default())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestOpenStore(t *testing.T) {
	db, err := OpenStore(context.Background(), common.StoreConfig{DSN: ":memory:"}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { db.SQL.Close() })
	assert.NoError(t, db.SQL.Ping())
}

func TestOpenStoreWrapsOpenError(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "missing", "jobs.db")
	_, err := OpenStore(context.Background(), common.StoreConfig{DSN: dsn}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open store (sqlite)")
}
