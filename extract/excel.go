package extract

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"

	"ragsearch/types"
)

// extractXLSXText flattens every sheet into lines, prefixing each sheet
// with its name and keeping the header row as context for the data rows.
func extractXLSXText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", types.NewInvalidDocumentError("not a readable XLSX workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		writeSheetText(&b, sheet, rows)
	}
	return b.String(), nil
}

// extractXLSText does the same for legacy BIFF workbooks.
func extractXLSText(data []byte) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", types.NewInvalidDocumentError("not a readable XLS workbook: %v", err)
	}

	var b strings.Builder
	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		xlsRows := sheet.GetRows()
		rows := make([][]string, 0, len(xlsRows))
		for _, row := range xlsRows {
			rows = append(rows, xlsRowValues(row.GetCols()))
		}
		if len(rows) == 0 {
			continue
		}
		writeSheetText(&b, sheet.GetName(), rows)
	}
	return b.String(), nil
}

func writeSheetText(b *strings.Builder, sheet string, rows [][]string) {
	b.WriteString("Sheet ")
	b.WriteString(sheet)
	b.WriteString(": ")
	b.WriteString(strings.Join(rows[0], "\t"))
	b.WriteByte('\n')
	for _, row := range rows[1:] {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
}

func xlsRowValues(cols []structure.CellData) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		val := col.GetString()
		if val == "" {
			if num := col.GetFloat64(); num != 0 {
				val = strconv.FormatFloat(num, 'f', -1, 64)
			} else if in := col.GetInt64(); in != 0 {
				val = strconv.FormatInt(in, 10)
			}
		}
		out = append(out, val)
	}
	return out
}
