package calculator

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"5.", 5},
		{".5", 0.5},
		{"5.2", 5.2},
		{"-1", -1},
		{"5-1", 5},
		{"-1-1", -1},
		{"1e+21", 1e21},
		{"1e", 1},
		{"2e-7", 2e-7},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseNumber(tc.in); got != tc.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseNumberNaN(t *testing.T) {
	for _, in := range []string{"", ".", "-", "--1", "NaN", "-.", "abc"} {
		if got := ParseNumber(in); !math.IsNaN(got) {
			t.Errorf("ParseNumber(%q) = %v, want NaN", in, got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{0.1 + 0.2, "0.30000000000000004"},
		{-2.5, "-2.5"},
		{math.Copysign(0, -1), "0"},
		{1e21, "1e+21"},
		{123456789012345680000, "123456789012345680000"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			if got := FormatNumber(tc.in); got != tc.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
