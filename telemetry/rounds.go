package telemetry

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Round event kinds.
const (
	EventSettle  = "settle"
	EventScore   = "score"
	EventDiscard = "discard"
)

// RoundStats describes one settle, score, or discard.
type RoundStats struct {
	Round    int    `csv:"round"`
	Event    string `csv:"event"`
	ClockMS  int64  `csv:"clock_ms"` // Game time the event happened
	Thrown   int    `csv:"thrown"`   // Dice in the throw that settled
	Forced   bool   `csv:"forced"`   // Settle came from the timeout
	SettleMS int64  `csv:"settle_ms"`
	Values   Values `csv:"values"` // Face values in tray or scoring order
	Sum      int    `csv:"sum"`
}

// Values is a list of face values that renders as a space-separated CSV
// field.
type Values []int

// MarshalCSV implements gocsv.TypeMarshaller.
func (v Values) MarshalCSV() (string, error) {
	return v.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (v *Values) UnmarshalCSV(s string) error {
	out := Values{}
	for _, f := range strings.Fields(s) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return err
		}
		out = append(out, n)
	}
	*v = out
	return nil
}

func (v Values) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// Sum adds the values.
func (v Values) Sum() int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}

// LogValue implements slog.LogValuer.
func (s RoundStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("round", s.Round),
		slog.String("event", s.Event),
		slog.Int64("clock_ms", s.ClockMS),
		slog.String("values", s.Values.String()),
		slog.Int("sum", s.Sum),
	}
	if s.Event == EventSettle {
		attrs = append(attrs,
			slog.Int("thrown", s.Thrown),
			slog.Bool("forced", s.Forced),
			slog.Int64("settle_ms", s.SettleMS),
		)
	}
	return slog.GroupValue(attrs...)
}

// Summary aggregates settle times and scores over a session.
type Summary struct {
	Rounds      int
	Forced      int
	Scores      int
	ScoreTotal  int
	SettleP50MS float64
	SettleP90MS float64
}

// Summarize folds a list of round records.
func Summarize(records []RoundStats) Summary {
	var s Summary
	var settle []float64
	for _, r := range records {
		switch r.Event {
		case EventSettle:
			s.Rounds++
			if r.Forced {
				s.Forced++
			}
			settle = append(settle, float64(r.SettleMS))
		case EventScore:
			s.Scores++
			s.ScoreTotal += r.Sum
		}
	}
	sort.Float64s(settle)
	s.SettleP50MS = Percentile(settle, 0.5)
	s.SettleP90MS = Percentile(settle, 0.9)
	return s
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("rounds", s.Rounds),
		slog.Int("forced", s.Forced),
		slog.Int("scores", s.Scores),
		slog.Int("score_total", s.ScoreTotal),
		slog.Float64("settle_p50_ms", s.SettleP50MS),
		slog.Float64("settle_p90_ms", s.SettleP90MS),
	)
}

// Percentile interpolates the p-th percentile (p in [0,1]) of a sorted
// slice. Empty input yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
