package utils

import "testing"

func TestFormatIndianCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{1000, "₹1,000.00"},
		{100000, "₹1,00,000.00"},
		{12345678.9, "₹1,23,45,678.90"},
		{-4500.5, "-₹4,500.50"},
	}
	for _, tc := range cases {
		if got := FormatIndianCurrency(tc.in); got != tc.want {
			t.Errorf("FormatIndianCurrency(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(250); got != "+₹250.00" {
		t.Errorf("FormatPnL(250) = %s", got)
	}
	if got := FormatPnL(-250); got != "-₹250.00" {
		t.Errorf("FormatPnL(-250) = %s", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(2.5); got != "+2.50%" {
		t.Errorf("FormatPercent(2.5) = %s", got)
	}
	if got := FormatPercent(-1.25); got != "-1.25%" {
		t.Errorf("FormatPercent(-1.25) = %s", got)
	}
}
