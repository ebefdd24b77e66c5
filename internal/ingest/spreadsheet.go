// Package ingest reads the operator-supplied delivery manifest. This is
// an external-interface boundary: the manifest format (columns, header
// row) is an operator contract, not part of the tested routing core.
package ingest

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"tourplanner/internal/domain"
)

const defaultSheetIndex = 0

var requiredColumns = []string{"Package ID", "Address", "lat", "long"}

// LoadDeliveries reads a delivery manifest spreadsheet from path. The
// first row must be a header naming, in any order, the four required
// columns; every subsequent non-empty row becomes one domain.Delivery.
func LoadDeliveries(path string) ([]domain.Delivery, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrInputMalformed, "open manifest %s: %v", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(domain.ErrInputMalformed, "manifest has no sheets")
	}

	rows, err := f.GetRows(sheets[defaultSheetIndex])
	if err != nil {
		return nil, errors.Wrapf(domain.ErrInputMalformed, "read sheet %s: %v", sheets[defaultSheetIndex], err)
	}
	if len(rows) < 1 {
		return nil, errors.Wrap(domain.ErrInputMalformed, "manifest has no header row")
	}

	colIdx, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var deliveries []domain.Delivery
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		d, err := parseRow(row, colIdx)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrInputMalformed, "manifest row %d: %v", i+2, err)
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, cell := range header {
		idx[strings.TrimSpace(cell)] = i
	}

	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, errors.Wrapf(domain.ErrInputMalformed, "missing required column %q", col)
		}
	}

	return idx, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func parseRow(row []string, colIdx map[string]int) (domain.Delivery, error) {
	get := func(col string) string {
		i := colIdx[col]
		if i >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[i])
	}

	lat, err := strconv.ParseFloat(get("lat"), 64)
	if err != nil {
		return domain.Delivery{}, errors.Wrap(err, "invalid lat")
	}

	lon, err := strconv.ParseFloat(get("long"), 64)
	if err != nil {
		return domain.Delivery{}, errors.Wrap(err, "invalid long")
	}

	return domain.Delivery{
		PackageID: get("Package ID"),
		Address:   get("Address"),
		Location:  domain.Coordinate{Lat: lat, Lon: lon},
	}, nil
}
