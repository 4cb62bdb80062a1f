package garden

import "time"

// HistoryCapacity is the number of samples retained per metric.
const HistoryCapacity = 100

// Point is one recorded sample.
type Point struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// History is a fixed-capacity chronological buffer of samples. When full,
// appending evicts the oldest entry.
type History struct {
	points []Point
}

// NewHistory returns an empty history with the standard capacity.
func NewHistory() *History {
	return &History{points: make([]Point, 0, HistoryCapacity)}
}

// Append records a sample, evicting the oldest if the buffer is full.
func (h *History) Append(at time.Time, value float64) {
	if len(h.points) == HistoryCapacity {
		copy(h.points, h.points[1:])
		h.points = h.points[:HistoryCapacity-1]
	}
	h.points = append(h.points, Point{At: at, Value: value})
}

// Len returns the number of retained samples.
func (h *History) Len() int { return len(h.points) }

// Latest returns the most recent sample, if any.
func (h *History) Latest() (Point, bool) {
	if len(h.points) == 0 {
		return Point{}, false
	}
	return h.points[len(h.points)-1], true
}

// Mean returns the arithmetic mean over the full retained history.
func (h *History) Mean() (float64, bool) {
	if len(h.points) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range h.points {
		sum += p.Value
	}
	return sum / float64(len(h.points)), true
}

// Points returns a chronological copy of the retained samples.
func (h *History) Points() []Point {
	out := make([]Point, len(h.points))
	copy(out, h.points)
	return out
}
