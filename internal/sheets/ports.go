// Package sheets defines the spreadsheet export sink.
package sheets

import "context"

// Ports for outbound adapters.
type (
	// RowWriter replaces the whole content of the target sheet with rows.
	RowWriter interface {
		ReplaceRows(ctx context.Context, rows [][]string) (rangeRef string, err error)
	}

	// RowReader returns the current content of the target sheet.
	RowReader interface {
		ReadRows(ctx context.Context) ([][]string, error)
	}

	RowStore interface {
		RowWriter
		RowReader
	}
)
