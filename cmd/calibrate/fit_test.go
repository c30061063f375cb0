package main

import (
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/d20/hull"
)

func TestSolveMatchesCompiledTable(t *testing.T) {
	cal, err := NewCalibrator(2000)
	if err != nil {
		t.Fatalf("NewCalibrator: %v", err)
	}

	fits, err := cal.SolveAll()
	if err != nil {
		t.Fatalf("SolveAll: %v", err)
	}
	if len(fits) != hull.NumFaces {
		t.Fatalf("got %d fits, want %d", len(fits), hull.NumFaces)
	}

	for _, f := range fits {
		if f.Residual > 1e-10 {
			t.Errorf("value %d residual %g too large", f.Value, f.Residual)
		}
	}
	if drifted := Drift(fits, hull.SpinAngles, 1e-4); len(drifted) > 0 {
		t.Errorf("fits drifted from compiled table: %+v", drifted)
	}
}

func TestResidualAtCompiledSpin(t *testing.T) {
	cal, err := NewCalibrator(100)
	if err != nil {
		t.Fatalf("NewCalibrator: %v", err)
	}
	for v, spin := range hull.SpinAngles {
		if r := cal.Residual(v, spin); r > 1e-12 {
			t.Errorf("value %d residual %g at compiled spin", v, r)
		}
		// Upside down is the worst reading
		if r := cal.Residual(v, spin+math.Pi); math.Abs(r-4) > 1e-9 {
			t.Errorf("value %d flipped residual %g, want 4", v, r)
		}
	}
}

func TestSolveRejectsUnknownValue(t *testing.T) {
	cal, err := NewCalibrator(100)
	if err != nil {
		t.Fatalf("NewCalibrator: %v", err)
	}
	if _, err := cal.Solve(21); err == nil {
		t.Error("expected error for value 21")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := wrap(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("wrap(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestFormatTable(t *testing.T) {
	got := FormatTable([]Fit{{Value: 1, Spin: 0.5}, {Value: 12, Spin: -1}})
	want := "var SpinAngles = map[int]float64{\n\t1:  0.5,\n\t12: -1,\n}\n"
	if got != want {
		t.Errorf("FormatTable =\n%s\nwant\n%s", got, want)
	}
	if !strings.HasPrefix(got, "var SpinAngles") {
		t.Error("table should declare SpinAngles")
	}
}
