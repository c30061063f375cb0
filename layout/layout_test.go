package layout

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/config"
)

func heights(n int) []r3.Vec {
	out := make([]r3.Vec, n)
	for i := range out {
		out[i] = r3.Vec{X: float64(i * 7), Y: 0.8 + float64(i)*0.1, Z: 3}
	}
	return out
}

func TestPositions(t *testing.T) {
	l := FromConfig(config.Default())
	minX := l.Arena.Left + l.Arena.Margin
	maxX := l.Arena.Right - l.Arena.Margin

	for _, row := range []Row{RowStored, RowStaged, RowScore} {
		for n := 1; n <= 9; n++ {
			cur := heights(n)
			got := l.Positions(row, cur)
			if len(got) != n {
				t.Fatalf("%s n=%d: got %d slots", row, n, len(got))
			}

			var gap float64
			for i, p := range got {
				if p.X < minX || p.X > maxX {
					t.Errorf("%s n=%d slot %d: x=%f outside [%f, %f]", row, n, i, p.X, minX, maxX)
				}
				if p.Y != cur[i].Y {
					t.Errorf("%s n=%d slot %d: height %f not preserved", row, n, i, p.Y)
				}
				if p.Z != l.Depth(row) {
					t.Errorf("%s n=%d slot %d: depth %f, want %f", row, n, i, p.Z, l.Depth(row))
				}
				if i == 0 {
					continue
				}
				d := p.X - got[i-1].X
				if d <= 0 {
					t.Errorf("%s n=%d: x not strictly increasing at %d", row, n, i)
				}
				if i == 1 {
					gap = d
				} else if math.Abs(d-gap) > 1e-9 {
					t.Errorf("%s n=%d: uneven spacing %f vs %f", row, n, d, gap)
				}
			}
		}
	}
}

func TestPositionsCentering(t *testing.T) {
	l := Layout{Arena: Arena{Left: -10, Right: 10, Margin: 1}}
	got := l.Positions(RowScore, heights(3))
	want := []float64{-6, 0, 6}
	for i := range want {
		if math.Abs(got[i].X-want[i]) > 1e-12 {
			t.Errorf("slot %d: x=%f, want %f", i, got[i].X, want[i])
		}
	}
}

func TestPositionsEmpty(t *testing.T) {
	l := FromConfig(config.Default())
	if got := l.Positions(RowStored, nil); got != nil {
		t.Errorf("expected no slots, got %v", got)
	}
}

func TestRowZones(t *testing.T) {
	if RowScore.String() != "score" {
		t.Errorf("unexpected name %q", RowScore.String())
	}
}
