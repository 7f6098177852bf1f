package filter

// sampleWindow is a fixed-capacity FIFO of recent samples. Pushing at
// capacity evicts the oldest entry. Not safe for concurrent use — caller
// must serialize.
type sampleWindow struct {
	buf      []float64
	capacity int
	head     int // next write position
	count    int
}

func newSampleWindow(capacity int) *sampleWindow {
	return &sampleWindow{
		buf:      make([]float64, capacity),
		capacity: capacity,
	}
}

func (w *sampleWindow) push(v float64) {
	w.buf[w.head] = v
	w.head = (w.head + 1) % w.capacity
	if w.count < w.capacity {
		w.count++
	}
}

// mean returns the arithmetic mean of the current contents.
// The second return is false while the window is empty.
func (w *sampleWindow) mean() (float64, bool) {
	if w.count == 0 {
		return 0, false
	}
	// Order is irrelevant for the mean; occupied slots are always buf[:count].
	var sum float64
	for i := 0; i < w.count; i++ {
		sum += w.buf[i]
	}
	return sum / float64(w.count), true
}

func (w *sampleWindow) len() int {
	return w.count
}

// values returns the current contents, oldest first.
func (w *sampleWindow) values() []float64 {
	if w.count == 0 {
		return nil
	}
	result := make([]float64, w.count)
	// Oldest item is at (head - count) mod capacity
	start := (w.head - w.count + w.capacity) % w.capacity
	for i := 0; i < w.count; i++ {
		result[i] = w.buf[(start+i)%w.capacity]
	}
	return result
}
