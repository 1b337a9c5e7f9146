// Package chart provides bounded dual-series sliding windows for the
// rolling fitness and population charts, keyed by simulation generation.
package chart

import "sync"

// Point is one chart sample.
type Point struct {
	Generation int
	Value      float64
}

// Buffer is a dual-series FIFO window. Both series always hold the same
// generations point-for-point: appends are paired and evictions remove the
// oldest point from both series even if only one nominally overflowed.
type Buffer struct {
	mu     sync.Mutex
	window int
	a, b   []Point
	labelA string
	labelB string
}

// NewBuffer creates a buffer with the given window size and series labels.
func NewBuffer(window int, labelA, labelB string) *Buffer {
	if window < 1 {
		window = 1
	}
	return &Buffer{
		window: window,
		a:      make([]Point, 0, window),
		b:      make([]Point, 0, window),
		labelA: labelA,
		labelB: labelB,
	}
}

// Append pushes one point onto each series, evicting the oldest pair once
// the window is exceeded. No interpolation or resampling happens here; the
// buffer is a raw window over reported values.
func (bu *Buffer) Append(generation int, valueA, valueB float64) {
	bu.mu.Lock()
	defer bu.mu.Unlock()

	bu.a = append(bu.a, Point{Generation: generation, Value: valueA})
	bu.b = append(bu.b, Point{Generation: generation, Value: valueB})

	if len(bu.a) > bu.window || len(bu.b) > bu.window {
		bu.a = bu.a[1:]
		bu.b = bu.b[1:]
	}
}

// Clear empties both series. A subsequent Append behaves exactly like the
// first append on a freshly constructed buffer.
func (bu *Buffer) Clear() {
	bu.mu.Lock()
	defer bu.mu.Unlock()

	bu.a = bu.a[:0]
	bu.b = bu.b[:0]
}

// Len returns the number of points currently held (equal for both series).
func (bu *Buffer) Len() int {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	return len(bu.a)
}

// Window returns the configured capacity.
func (bu *Buffer) Window() int {
	return bu.window
}

// Series returns copies of both series in append order. Copies keep the
// render loop and the poll goroutines from sharing the backing arrays.
func (bu *Buffer) Series() (a, b []Point) {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	a = make([]Point, len(bu.a))
	copy(a, bu.a)
	b = make([]Point, len(bu.b))
	copy(b, bu.b)
	return a, b
}

// Labels returns the series labels.
func (bu *Buffer) Labels() (string, string) {
	return bu.labelA, bu.labelB
}

// Bounds returns the min and max value across both series.
// Returns (0, 0) when empty.
func (bu *Buffer) Bounds() (min, max float64) {
	bu.mu.Lock()
	defer bu.mu.Unlock()

	if len(bu.a) == 0 {
		return 0, 0
	}
	min = bu.a[0].Value
	max = bu.a[0].Value
	for _, series := range [][]Point{bu.a, bu.b} {
		for _, p := range series {
			if p.Value < min {
				min = p.Value
			}
			if p.Value > max {
				max = p.Value
			}
		}
	}
	return min, max
}
