package parallel

import (
	"reflect"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Workers: 1}

	var order []int
	For(5, func(i int) {
		order = append(order, i)
	}, cfg)

	if !reflect.DeepEqual(order, []int{0, 1, 2, 3, 4}) {
		t.Errorf("sequential order = %v", order)
	}
}

func TestFor_Empty(t *testing.T) {
	called := false
	For(0, func(_ int) { called = true }, Config{Workers: 4})
	if called {
		t.Error("f should not be called for n=0")
	}
}

func TestMapPreservesOrder(t *testing.T) {
	for _, workers := range []int{1, 2, 5, 16} {
		got := Map(50, func(i int) int { return i * i }, Config{Workers: workers})
		for i, v := range got {
			if v != i*i {
				t.Fatalf("workers=%d: result[%d] = %d, want %d", workers, i, v, i*i)
			}
		}
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		n, parts int
		want     [][2]int
	}{
		{11, 1, [][2]int{{0, 11}}},
		{11, 2, [][2]int{{0, 6}, {6, 11}}},
		{11, 5, [][2]int{{0, 3}, {3, 5}, {5, 7}, {7, 9}, {9, 11}}},
		{3, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{4, 0, [][2]int{{0, 4}}},
		{0, 3, nil},
	}
	for _, tt := range tests {
		got := Chunks(tt.n, tt.parts)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Chunks(%d, %d) = %v, want %v", tt.n, tt.parts, got, tt.want)
		}
	}
}

func TestWorkers(t *testing.T) {
	if Workers(3) != 3 {
		t.Error("explicit worker count should be kept")
	}
	if Workers(0) < 1 || Workers(-1) < 1 {
		t.Error("non-positive worker count should resolve to NumCPU")
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := Config{Workers: 1}
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfgSeq)
		}
	})
}
