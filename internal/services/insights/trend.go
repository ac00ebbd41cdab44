package insights

import "brandscope/internal/domain"

type Direction int

const (
	Flat Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "flat"
}

// Class is the text color token of a direction.
func (d Direction) Class() string {
	switch d {
	case Up:
		return "text-emerald-700"
	case Down:
		return "text-rose-600"
	}
	return "text-slate-600"
}

// Trend is the change between two adjacent observations. Delta is the
// magnitude of the change; Direction carries the sign.
type Trend struct {
	Direction Direction
	Delta     float64
}

func Compare(current, previous float64) Trend {
	switch {
	case current > previous:
		return Trend{Direction: Up, Delta: current - previous}
	case current < previous:
		return Trend{Direction: Down, Delta: previous - current}
	}
	return Trend{Direction: Flat}
}

// Signed returns the delta with its sign.
func (t Trend) Signed() float64 {
	if t.Direction == Down {
		return -t.Delta
	}
	return t.Delta
}

// PointTrends pairs a history point with its change against the
// chronologically prior point.
type PointTrends struct {
	Score   Trend
	Traffic Trend
}

// HistoryTrends compares each point with the one following it, which is the
// prior month because history arrives newest first. The last point has no
// prior and gets nil.
func HistoryTrends(history []domain.HistoryPoint) []*PointTrends {
	out := make([]*PointTrends, len(history))
	for i := 0; i+1 < len(history); i++ {
		cur, prev := history[i], history[i+1]
		out[i] = &PointTrends{
			Score:   Compare(cur.SearchScore, prev.SearchScore),
			Traffic: Compare(float64(cur.OrganicTraffic), float64(prev.OrganicTraffic)),
		}
	}
	return out
}
