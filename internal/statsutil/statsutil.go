// Package statsutil computes the min/avg/max triples used by the
// planner response's stats block (time_margin_stats, time_to_dest_stats).
package statsutil

// Triple is a (min, avg, max) summary over a sample set.
type Triple struct {
	Min float64
	Avg float64
	Max float64
}

// Summarize computes Triple over xs. An empty xs yields the zero Triple;
// callers with an empty vehicle list rely on this rather than an error.
func Summarize(xs []float64) Triple {
	if len(xs) == 0 {
		return Triple{}
	}

	t := Triple{Min: xs[0], Max: xs[0]}
	var sum float64
	for _, x := range xs {
		if x < t.Min {
			t.Min = x
		}
		if x > t.Max {
			t.Max = x
		}
		sum += x
	}
	t.Avg = sum / float64(len(xs))

	return t
}
