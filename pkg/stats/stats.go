// Package stats records how long each frame took to produce and
// renders the recording as a plot.
package stats

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Recorder is a fixed size ring buffer of frame times.
type Recorder struct {
	times []time.Duration
	next  int
	count int
	total uint64

	mu sync.Mutex
}

// NewRecorder returns a Recorder that remembers the most
// recent size frame times.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = 1
	}
	return &Recorder{times: make([]time.Duration, size)}
}

// Add records the duration of a single frame.
func (r *Recorder) Add(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.times[r.next] = d
	r.next = (r.next + 1) % len(r.times)
	if r.count < len(r.times) {
		r.count++
	}
	r.total++
}

// Total returns the number of frames recorded since creation,
// including those no longer held in the buffer.
func (r *Recorder) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Times returns the recorded frame times, oldest first.
func (r *Recorder) Times() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]time.Duration, 0, r.count)
	start := (r.next - r.count + len(r.times)) % len(r.times)
	for i := 0; i < r.count; i++ {
		out = append(out, r.times[(start+i)%len(r.times)])
	}
	return out
}

// Average returns the mean of the recorded frame times.
func (r *Recorder) Average() time.Duration {
	times := r.Times()
	if len(times) == 0 {
		return 0
	}

	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	return sum / time.Duration(len(times))
}

// FPS returns the frame rate implied by the average frame time.
func (r *Recorder) FPS() float64 {
	avg := r.Average()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// WritePlot renders the recorded frame times, in milliseconds,
// to a PNG image at path.
func (r *Recorder) WritePlot(path string) error {
	times := r.Times()
	if len(times) == 0 {
		return fmt.Errorf("stats: no frame times recorded")
	}

	p := plot.New()
	p.Title.Text = "Frame Time"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "ms"

	points := make(plotter.XYs, len(times))
	for i, t := range times {
		points[i].X = float64(i)
		points[i].Y = float64(t) / float64(time.Millisecond)
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
