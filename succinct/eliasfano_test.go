package succinct

import "testing"

func buildEF(t *testing.T, values []uint64) *EliasFano {
	t.Helper()
	universe := uint64(0)
	if len(values) > 0 {
		universe = values[len(values)-1]
	}
	b := NewEliasFanoBuilder(len(values), universe)
	for _, v := range values {
		b.Add(v)
	}
	return b.Build()
}

func TestEliasFanoGetRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 1, 4, 7, 7, 7, 20, 500, 500, 1000}
	ef := buildEF(t, values)
	if got := ef.Len(); got != len(values) {
		t.Fatalf("Len() = %d, want %d", got, len(values))
	}
	for i, v := range values {
		if got := ef.Get(i); got != v {
			t.Errorf("Get(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestEliasFanoRankLowerBound(t *testing.T) {
	values := []uint64{0, 2, 2, 5, 9, 9, 30}
	ef := buildEF(t, values)

	cases := []struct {
		x    uint64
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 3},
		{5, 3},
		{6, 4},
		{9, 4},
		{10, 6},
		{30, 6},
		{31, 7},
	}
	for _, tc := range cases {
		if got := ef.Rank(tc.x); got != tc.want {
			t.Errorf("Rank(%d) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestEliasFanoSingleValue(t *testing.T) {
	ef := buildEF(t, []uint64{42})
	if got := ef.Get(0); got != 42 {
		t.Errorf("Get(0) = %d, want 42", got)
	}
	if got := ef.Rank(42); got != 0 {
		t.Errorf("Rank(42) = %d, want 0", got)
	}
	if got := ef.Rank(43); got != 1 {
		t.Errorf("Rank(43) = %d, want 1", got)
	}
}

func TestEliasFanoAllEqual(t *testing.T) {
	values := []uint64{5, 5, 5, 5}
	ef := buildEF(t, values)
	for i := range values {
		if got := ef.Get(i); got != 5 {
			t.Errorf("Get(%d) = %d, want 5", i, got)
		}
	}
	if got := ef.Rank(5); got != 0 {
		t.Errorf("Rank(5) = %d, want 0", got)
	}
	if got := ef.Rank(6); got != len(values) {
		t.Errorf("Rank(6) = %d, want %d", got, len(values))
	}
}
