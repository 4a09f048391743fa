package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func sample() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Amount: core.Money{Cents: 450}, Date: core.NewDate(2026, 1, 5), Type: core.Expense, CategoryID: "food", Description: "Coffee, Tea"},
		{ID: "2", Amount: core.Money{Cents: 300000}, Date: core.NewDate(2026, 1, 1), Type: core.Income, CategoryID: "salary", Description: `He said "hi"`},
		{ID: "3", Amount: core.Money{Cents: 7}, Date: core.NewDate(2026, 1, 9), Type: core.Expense, CategoryID: "gone", Description: "line\nbreak"},
	}
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(sample(), core.DefaultRegistry(), DefaultOptions())
	require.NoError(t, err)

	want := "Date,Amount,Type,Category,Description\n" +
		"2026-01-05,4.50,expense,Food & Dining,\"Coffee, Tea\"\n" +
		"2026-01-01,3000.00,income,Salary,\"He said \"\"hi\"\"\"\n" +
		"2026-01-09,0.07,expense,Unknown,\"line\nbreak\"\n"
	assert.Equal(t, want, string(out))
}

func TestMarshalWithoutHeader(t *testing.T) {
	out, err := Marshal(sample()[:1], core.DefaultRegistry(), Options{})
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(out), "Date,"))
	assert.Equal(t, 1, strings.Count(string(out), "\n"))
}

func TestMarshalEmpty(t *testing.T) {
	out, err := Marshal(nil, core.DefaultRegistry(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Date,Amount,Type,Category,Description\n", string(out))
}

func TestRowsDoNotReorderOrMutate(t *testing.T) {
	txs := sample()
	before := append([]core.Transaction(nil), txs...)
	rows := Rows(txs, core.DefaultRegistry(), Options{})
	require.Len(t, rows, 3)
	assert.Equal(t, "2026-01-05", rows[0][0])
	assert.Equal(t, "2026-01-01", rows[1][0])
	assert.Equal(t, before, txs)
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 5, 3, 0, time.Local)
	assert.Equal(t, "expense-tracker-20261018-090503.csv", Filename(ts))
}
