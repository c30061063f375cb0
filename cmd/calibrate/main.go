// Command calibrate regenerates the per-value spin table that makes each
// numeral read upright once its face is turned to the top.
//
// Usage: go run ./cmd/calibrate [-out hull/calibration_spin.txt] [-report fits.csv] [-check]
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/d20/hull"
)

func main() {
	out := flag.String("out", "", "Write the generated table here (empty = stdout)")
	report := flag.String("report", "", "Write per-value fit results as CSV")
	check := flag.Bool("check", false, "Compare against the compiled table and exit non-zero on drift")
	tolerance := flag.Float64("tolerance", 1e-6, "Allowed drift in radians for -check")
	maxEvals := flag.Int("max-evals", 2000, "Function evaluation cap per start")
	flag.Parse()

	cal, err := NewCalibrator(*maxEvals)
	if err != nil {
		log.Fatal(err)
	}

	fits, err := cal.SolveAll()
	if err != nil {
		log.Fatalf("calibration failed: %v", err)
	}

	worst := 0.0
	for _, f := range fits {
		if f.Residual > worst {
			worst = f.Residual
		}
	}
	fmt.Fprintf(os.Stderr, "Calibrated %d values (table version %d), worst residual %.3g\n",
		len(fits), hull.CalibrationVersion, worst)

	if *report != "" {
		data, err := gocsv.MarshalBytes(fits)
		if err != nil {
			log.Fatalf("failed to marshal report: %v", err)
		}
		if err := os.WriteFile(*report, data, 0644); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
	}

	if *check {
		drifted := Drift(fits, hull.SpinAngles, *tolerance)
		for _, f := range drifted {
			fmt.Fprintf(os.Stderr, "value %d: compiled %.12f, fit %.12f\n", f.Value, hull.SpinAngles[f.Value], f.Spin)
		}
		if len(drifted) > 0 {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Compiled table is current")
		return
	}

	table := FormatTable(fits)
	if *out == "" {
		fmt.Print(table)
		return
	}
	if err := os.WriteFile(*out, []byte(table), 0644); err != nil {
		log.Fatalf("failed to write table: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Table saved to: %s\n", *out)
}

// FormatTable renders fits as the Go map literal used by the hull package.
func FormatTable(fits []Fit) string {
	var b bytes.Buffer
	b.WriteString("var SpinAngles = map[int]float64{\n")
	for _, f := range fits {
		fmt.Fprintf(&b, "\t%d:%s%v,\n", f.Value, pad(f.Value), f.Spin)
	}
	b.WriteString("}\n")
	return b.String()
}

// pad aligns single-digit keys the way gofmt does.
func pad(v int) string {
	if v < 10 {
		return "  "
	}
	return " "
}

// Drift returns the fits whose spin differs from table by more than tol.
func Drift(fits []Fit, table map[int]float64, tol float64) []Fit {
	var out []Fit
	for _, f := range fits {
		if angleDiff(f.Spin, table[f.Value]) > tol {
			out = append(out, f)
		}
	}
	return out
}
