package chart

import "testing"

func TestBufferAppendAndWindow(t *testing.T) {
	b := NewBuffer(3, "a", "b")

	for gen := 1; gen <= 5; gen++ {
		b.Append(gen, float64(gen), float64(gen*10))
	}

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}

	a, bb := b.Series()
	wantGens := []int{3, 4, 5}
	for i, want := range wantGens {
		if a[i].Generation != want {
			t.Errorf("a[%d].Generation = %d, want %d", i, a[i].Generation, want)
		}
		if bb[i].Generation != want {
			t.Errorf("b[%d].Generation = %d, want %d", i, bb[i].Generation, want)
		}
		if bb[i].Value != float64(want*10) {
			t.Errorf("b[%d].Value = %v, want %v", i, bb[i].Value, float64(want*10))
		}
	}
}

func TestBufferPairedEviction(t *testing.T) {
	b := NewBuffer(2, "a", "b")
	b.Append(1, 1, 100)
	b.Append(2, 2, 200)
	b.Append(3, 3, 300)

	a, bb := b.Series()
	if len(a) != len(bb) {
		t.Fatalf("series lengths diverged: %d vs %d", len(a), len(bb))
	}
	for i := range a {
		if a[i].Generation != bb[i].Generation {
			t.Errorf("point %d: generations diverged: %d vs %d", i, a[i].Generation, bb[i].Generation)
		}
	}
}

func TestBufferClear(t *testing.T) {
	b := NewBuffer(4, "a", "b")
	b.Append(1, 1, 2)
	b.Append(2, 3, 4)
	b.Clear()

	if b.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", b.Len())
	}

	// Appends after Clear behave like a fresh buffer.
	b.Append(7, 5, 6)
	a, _ := b.Series()
	if len(a) != 1 || a[0].Generation != 7 {
		t.Errorf("first append after Clear = %+v, want single point at gen 7", a)
	}
}

func TestBufferBounds(t *testing.T) {
	tests := []struct {
		name    string
		appends [][3]float64 // gen, valueA, valueB
		wantMin float64
		wantMax float64
	}{
		{"empty", nil, 0, 0},
		{"single", [][3]float64{{1, 5, 5}}, 5, 5},
		{"spread across series", [][3]float64{{1, 2, 9}, {2, -1, 4}}, -1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(10, "a", "b")
			for _, ap := range tt.appends {
				b.Append(int(ap[0]), ap[1], ap[2])
			}
			min, max := b.Bounds()
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("Bounds() = (%v, %v), want (%v, %v)", min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestBufferMinimumWindow(t *testing.T) {
	b := NewBuffer(0, "a", "b")
	if b.Window() != 1 {
		t.Errorf("Window() = %d, want 1", b.Window())
	}
	b.Append(1, 1, 1)
	b.Append(2, 2, 2)
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}
