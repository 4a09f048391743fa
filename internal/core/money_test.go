package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{" 2.50 ", 250, true},
		{"999999999.99", MaxAmountCents, true},
		{"1000000000", 0, false},
		{"1.005", 0, false},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyFormatting(t *testing.T) {
	cases := map[int64]string{
		0:       "0.00",
		5:       "0.05",
		1234:    "12.34",
		-1234:   "-12.34",
		100_000: "1000.00",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Fatalf("%d formatted as %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	if got := MoneyFromDecimal(decimal.RequireFromString("19.99")); got.Cents != 1999 {
		t.Fatalf("got %d", got.Cents)
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	for _, in := range []string{`12.5`, `"12.50"`} {
		var m Money
		if err := m.UnmarshalJSON([]byte(in)); err != nil || m.Cents != 1250 {
			t.Fatalf("%s decoded to %d (err=%v)", in, m.Cents, err)
		}
	}
	var m Money
	if err := m.UnmarshalJSON([]byte(`"x"`)); err == nil {
		t.Fatalf("expected error")
	}
}
