package aggregation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func date(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestStartOfWeek(t *testing.T) {
	cases := map[string]string{
		"2026-10-12": "2026-10-12", // Monday
		"2026-10-14": "2026-10-12", // Wednesday
		"2026-10-18": "2026-10-12", // Sunday
		"2026-01-01": "2025-12-29", // Thursday across a year boundary
	}
	for in, want := range cases {
		assert.Equal(t, want, StartOfWeek(date(t, in)).String(), in)
	}
}

func TestCurrentRange(t *testing.T) {
	tests := []struct {
		period     core.PeriodType
		anchor     string
		start, end string
	}{
		{core.PeriodDay, "2026-10-14", "2026-10-14", "2026-10-14"},
		{core.PeriodWeek, "2026-10-14", "2026-10-12", "2026-10-18"},
		{core.PeriodMonth, "2026-02-10", "2026-02-01", "2026-02-28"},
		{core.PeriodMonth, "2024-02-29", "2024-02-01", "2024-02-29"},
		{core.PeriodMonth, "2026-12-31", "2026-12-01", "2026-12-31"},
	}
	for _, tt := range tests {
		r := CurrentRange(tt.period, date(t, tt.anchor))
		assert.Equal(t, tt.start, r.Start.String(), "%s %s start", tt.period, tt.anchor)
		assert.Equal(t, tt.end, r.End.String(), "%s %s end", tt.period, tt.anchor)
	}
}

func TestTrendRange(t *testing.T) {
	r := TrendRange(core.PeriodDay, date(t, "2026-10-18"))
	assert.Equal(t, "2026-09-19", r.Start.String())
	assert.Equal(t, "2026-10-18", r.End.String())

	r = TrendRange(core.PeriodWeek, date(t, "2026-10-14"))
	assert.Equal(t, "2026-07-27", r.Start.String())

	r = TrendRange(core.PeriodMonth, date(t, "2026-10-14"))
	assert.Equal(t, "2025-11-01", r.Start.String())
	assert.Equal(t, "2026-10-14", r.End.String())
}

func TestBucketCounts(t *testing.T) {
	anchors := []string{"2026-10-12", "2026-10-14", "2026-10-18", "2024-02-29", "2026-01-31", "2026-03-31"}
	want := map[core.PeriodType]int{
		core.PeriodDay:   TrendDays,
		core.PeriodWeek:  TrendWeeks,
		core.PeriodMonth: TrendMonths,
	}
	for _, a := range anchors {
		for p, n := range want {
			keys := Buckets(p, TrendRange(p, date(t, a)))
			require.Len(t, keys, n, "%s anchored at %s", p, a)
			for i := 1; i < len(keys); i++ {
				assert.True(t, keys[i].After(keys[i-1]), "keys must be strictly increasing")
			}
			assert.Equal(t, BucketKey(date(t, a), p), keys[len(keys)-1], "last bucket holds the anchor")
		}
	}
}

func TestParsePeriod(t *testing.T) {
	anchor, err := ParsePeriod(core.TimePeriod{Type: core.PeriodWeek, AnchorDate: "2026-10-14"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", anchor.String())

	_, err = ParsePeriod(core.TimePeriod{Type: "year", AnchorDate: "2026-02-30"})
	var ve *core.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has(core.FieldType))
	assert.True(t, ve.Has(FieldAnchorDate))
}
