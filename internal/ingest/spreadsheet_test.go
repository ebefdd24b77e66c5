package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	require.NoError(t, f.SaveAs(path))

	return path
}

func TestLoadDeliveries_ParsesRows(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"Package ID", "Address", "lat", "long"},
		{"1", "1 Rue de Paris", "49.44", "1.09"},
		{"2", "2 Rue de Lyon", "49.45", "1.10"},
	})

	deliveries, err := LoadDeliveries(path)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, "PKG0001", deliveries[0].TrackingID())
	assert.Equal(t, 49.45, deliveries[1].Location.Lat)
}

func TestLoadDeliveries_MissingColumn(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"Package ID", "Address", "lat"},
		{"1", "1 Rue de Paris", "49.44"},
	})

	_, err := LoadDeliveries(path)
	require.Error(t, err)
}

func TestLoadDeliveries_SkipsBlankRows(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"Package ID", "Address", "lat", "long"},
		{"1", "1 Rue de Paris", "49.44", "1.09"},
		{"", "", "", ""},
	})

	deliveries, err := LoadDeliveries(path)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}
