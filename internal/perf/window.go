package perf

// metricWindow is a bounded FIFO of recent samples for one metric, plus
// a lifetime running sum/count and running peak for the end-of-run
// summary. Reset only at process start; never persisted mid-run.
type metricWindow struct {
	values []float64
	next   int
	count  int
	sum    float64

	lifetimeSum   float64
	lifetimeCount int
	peak          float64
}

func newMetricWindow(capacity int) *metricWindow {
	return &metricWindow{
		values: make([]float64, capacity),
	}
}

func (w *metricWindow) add(v float64) {
	if w.count == len(w.values) {
		w.sum -= w.values[w.next]
	} else {
		w.count++
	}

	w.values[w.next] = v
	w.sum += v
	w.next = (w.next + 1) % len(w.values)

	w.lifetimeSum += v
	w.lifetimeCount++
	if v > w.peak {
		w.peak = v
	}
}

// mean returns the smoothed instantaneous value over the sliding window.
func (w *metricWindow) mean() float64 {
	if w.count == 0 {
		return 0
	}
	return w.sum / float64(w.count)
}

// lifetimeMean returns the average over every sample ever added.
func (w *metricWindow) lifetimeMean() float64 {
	if w.lifetimeCount == 0 {
		return 0
	}
	return w.lifetimeSum / float64(w.lifetimeCount)
}
