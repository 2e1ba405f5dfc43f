// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"

	"compliance-tools/internal/formatters"
	"compliance-tools/internal/formatters/csv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Results"

// Formatter implements Excel workbook output
type Formatter struct{}

// NewFormatter creates a new XLSX formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "xlsx"
}

func (f *Formatter) Description() string {
	return "Excel workbook with one row per entry (requires --output)"
}

func (f *Formatter) FileExtension() string {
	return ".xlsx"
}

func (f *Formatter) Binary() bool {
	return true
}

func (f *Formatter) Format(doc formatters.Document, options formatters.FormatterOptions) ([]byte, error) {
	table := doc.Table()

	wb := excelize.NewFile()
	defer wb.Close()

	if _, err := wb.NewSheet(sheetName); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	index, err := wb.GetSheetIndex(sheetName)
	if err != nil {
		return nil, fmt.Errorf("locate sheet: %w", err)
	}
	wb.SetActiveSheet(index)
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := wb.SetCellStyle(sheetName, cell, cell, bold); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}
	for r, row := range table.Rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := wb.SetCellStr(sheetName, cell, csv.SanitizeFormulaInjection(value)); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}
	if len(table.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(table.Headers))
		if err := wb.SetColWidth(sheetName, "A", last, 28); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
