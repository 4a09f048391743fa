package google

import (
	"fmt"
	"strings"
)

// toValues converts string rows into the matrix the Sheets API expects.
func toValues(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

// fromValues converts a values matrix to strings, dropping blank rows.
func fromValues(values [][]any) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cols := make([]string, len(row))
		blank := true
		for i, v := range row {
			cols[i] = strings.TrimSpace(fmt.Sprint(v))
			if cols[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, cols)
	}
	return out
}

// rangeFor returns the A1 range covering rows written from A1.
func rangeFor(sheet string, rows [][]string) string {
	width := 1
	for _, r := range rows {
		width = max(width, len(r))
	}
	return fmt.Sprintf("%s!A1:%s%d", sheet, columnName(width), len(rows))
}

// columnName maps 1 to A, 26 to Z, 27 to AA.
func columnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
