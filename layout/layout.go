// Package layout computes slot positions for dice laid out in rows.
//
// Rows run along X at a fixed depth (Z). The tray holds two rows, one for
// stored dice and one for dice staged for the next discard or score; the
// scoring area holds a single row. Every function here is pure.
package layout

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/config"
)

// Row names a layout row.
type Row uint8

const (
	RowStored Row = iota
	RowStaged
	RowScore
)

func (r Row) String() string {
	switch r {
	case RowStored:
		return "stored"
	case RowStaged:
		return "staged"
	case RowScore:
		return "score"
	}
	return "unknown"
}

// Arena is the horizontal extent rows are fitted into.
type Arena struct {
	Left, Right float64
	Margin      float64
}

// Layout maps rows to depths within an arena.
type Layout struct {
	Arena  Arena
	Depths [3]float64 // Indexed by Row
}

// FromConfig builds the layout from the arena and layout sections.
func FromConfig(cfg *config.Config) Layout {
	return Layout{
		Arena: Arena{
			Left:   cfg.Arena.Left,
			Right:  cfg.Arena.Right,
			Margin: cfg.Arena.Margin,
		},
		Depths: [3]float64{
			RowStored: cfg.Layout.StoredDepth,
			RowStaged: cfg.Layout.StagedDepth,
			RowScore:  cfg.Layout.ScoreDepth,
		},
	}
}

// Depth returns the Z coordinate of a row.
func (l Layout) Depth(row Row) float64 {
	return l.Depths[row]
}

// Positions returns one slot per entry in current, in order. Slots are evenly
// spaced inside the margin-inset arena, with slot i centered at
// left + spacing*(i+0.5). Each slot keeps the height (Y) of the matching
// entry in current.
func (l Layout) Positions(row Row, current []r3.Vec) []r3.Vec {
	n := len(current)
	if n == 0 {
		return nil
	}

	left := l.Arena.Left + l.Arena.Margin
	right := l.Arena.Right - l.Arena.Margin
	spacing := (right - left) / float64(n)
	z := l.Depth(row)

	out := make([]r3.Vec, n)
	for i, p := range current {
		out[i] = r3.Vec{
			X: left + spacing*(float64(i)+0.5),
			Y: p.Y,
			Z: z,
		}
	}
	return out
}
