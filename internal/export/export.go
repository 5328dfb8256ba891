// Package export renders detainee search results as downloadable
// reports.  The rows arrive pre-materialized (resolved room/prison names
// and age/fine projections) so rendering is pure formatting.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/guuleed/prison-records/internal/repository"
)

// MaxExportRows caps how many records a single report may contain.
const MaxExportRows = 1000

// Header lists the report columns, shared by the CSV and XLSX renderers.
var Header = []string{
	"No",
	"Code",
	"Full Name",
	"National ID",
	"Prison",
	"Room",
	"Status",
	"Crime Type",
	"Age",
	"Fine",
	"Paid",
	"Remaining",
}

// record flattens one row into report cells.
func record(i int, d repository.DetaineeRow) []string {
	crime := d.CrimeType
	if d.CrimeTypeOther != "" {
		crime += " - " + d.CrimeTypeOther
	}
	age := ""
	if d.Age != nil {
		age = strconv.Itoa(*d.Age)
	}
	return []string{
		strconv.Itoa(i + 1),
		d.Code,
		d.FullName,
		d.NationalID,
		d.PrisonName,
		d.RoomName,
		d.Status,
		crime,
		age,
		fmt.Sprintf("%.2f", d.FineAmount),
		fmt.Sprintf("%.2f", d.PaidTotal),
		fmt.Sprintf("%.2f", d.RemainingFine),
	}
}

// CSV renders the rows as a comma-separated report with a header line.
func CSV(rows []repository.DetaineeRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for i, d := range rows {
		if err := w.Write(record(i, d)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX renders the rows as an Excel workbook with a single styled sheet.
func XLSX(rows []repository.DetaineeRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Detainees"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for col, h := range Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, d := range rows {
		for col, v := range record(i, d) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
