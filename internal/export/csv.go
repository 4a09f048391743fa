// Package export serializes transaction lists to CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"fintrack/internal/core"
)

// UnknownCategory is written when a category id cannot be resolved.
const UnknownCategory = "Unknown"

// Header is the column order of every exported row.
var Header = []string{"Date", "Amount", "Type", "Category", "Description"}

// Options controls the output layout.
type Options struct {
	Header bool
}

// DefaultOptions writes the header row.
func DefaultOptions() Options {
	return Options{Header: true}
}

// Rows converts txs to CSV records in the given order. The input is neither
// filtered nor modified.
func Rows(txs []core.Transaction, reg *core.CategoryRegistry, opts Options) [][]string {
	rows := make([][]string, 0, len(txs)+1)
	if opts.Header {
		rows = append(rows, append([]string(nil), Header...))
	}
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.Date.String(),
			tx.Amount.String(),
			string(tx.Type),
			categoryName(reg, tx.CategoryID),
			tx.Description,
		})
	}
	return rows
}

// Write streams txs as CSV to w. Fields containing a comma, quote or newline
// are quoted with internal quotes doubled.
func Write(w io.Writer, txs []core.Transaction, reg *core.CategoryRegistry, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(txs, reg, opts)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Marshal returns the CSV text for txs.
func Marshal(txs []core.Transaction, reg *core.CategoryRegistry, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, txs, reg, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename names an export taken at t, in t's location.
func Filename(t time.Time) string {
	return "expense-tracker-" + t.Format("20060102-150405") + ".csv"
}

func categoryName(reg *core.CategoryRegistry, id string) string {
	if reg != nil {
		if c, ok := reg.Lookup(id); ok {
			return c.Name
		}
	}
	return UnknownCategory
}
