package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/geom"
	"github.com/pthm-cable/d20/hull"
)

// away is where the top of an upright numeral points: straight back from a
// viewer on +Z.
var away = r3.Vec{Z: -1}

// starts seeds the search from each quadrant so the fit never settles on the
// upside-down reading.
var starts = []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2}

// Fit is one calibrated value.
type Fit struct {
	Value    int     `csv:"value"`
	Spin     float64 `csv:"spin"`
	Residual float64 `csv:"residual"`
	Evals    int     `csv:"evals"`
}

// Calibrator searches the spin for each value of an unspun hull.
type Calibrator struct {
	hull     *hull.Hull
	settings *optimize.Settings
}

// NewCalibrator builds a calibrator over the D20 topology with no spin
// table, so AlignUp alone decides where each numeral starts.
func NewCalibrator(maxEvals int) (*Calibrator, error) {
	h, err := hull.New(hull.D20.Vertices(), hull.D20.Faces(), hull.FaceValues, nil)
	if err != nil {
		return nil, fmt.Errorf("building unspun hull: %w", err)
	}
	return &Calibrator{
		hull: h,
		settings: &optimize.Settings{
			FuncEvaluations: maxEvals,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-30,
				Iterations: 50,
			},
		},
	}, nil
}

// Residual is the squared distance between the numeral top and away after
// turning value's aligned face by spin.
func (c *Calibrator) Residual(value int, spin float64) float64 {
	face, _ := c.hull.FaceOf(value)
	q := geom.Compose(c.hull.AlignUp(value), geom.FromAxisAngle(geom.Up, spin))
	top := geom.Rotate(q, c.hull.LocalTangent(face))
	d := r3.Sub(top, away)
	return r3.Dot(d, d)
}

// Solve finds the spin for one value with Nelder-Mead from every start and
// keeps the best.
func (c *Calibrator) Solve(value int) (Fit, error) {
	if _, ok := c.hull.FaceOf(value); !ok {
		return Fit{}, fmt.Errorf("no face carries value %d", value)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return c.Residual(value, x[0]) },
	}

	best := Fit{Value: value, Residual: math.Inf(1)}
	for _, s := range starts {
		result, err := optimize.Minimize(problem, []float64{s}, c.settings, &optimize.NelderMead{})
		if err != nil && result == nil {
			return Fit{}, fmt.Errorf("value %d: %w", value, err)
		}
		best.Evals += result.Stats.FuncEvaluations
		if result.F < best.Residual {
			best.Spin = wrap(result.X[0])
			best.Residual = result.F
		}
	}
	return best, nil
}

// SolveAll calibrates every value in order.
func (c *Calibrator) SolveAll() ([]Fit, error) {
	fits := make([]Fit, 0, c.hull.NumFaces())
	for v := 1; v <= c.hull.NumFaces(); v++ {
		fit, err := c.Solve(v)
		if err != nil {
			return nil, err
		}
		fits = append(fits, fit)
	}
	return fits, nil
}

// wrap maps an angle into (-π, π].
func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	}
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// angleDiff is the absolute difference between two angles on the circle.
func angleDiff(a, b float64) float64 {
	return math.Abs(wrap(a - b))
}
