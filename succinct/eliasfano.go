package succinct

// EliasFano encodes a monotone non-decreasing sequence of n non-negative
// integers in close to the information-theoretic minimum space: each value
// is split into high bits (stored unary-as-bitvector, giving O(1) rank) and
// low bits (stored as a fixed-width packed vector). Both the dictionary's
// sorted-gram codes and the graph's per-key/per-gram offset arrays are
// monotone, which is exactly the shape this structure wants.
type EliasFano struct {
	n        int
	lowWidth int
	low      *BitPackedVector
	high     *BitVector
	universe uint64
}

// EliasFanoBuilder accumulates a monotone sequence before it is frozen into
// an EliasFano. Values must be appended in non-decreasing order.
type EliasFanoBuilder struct {
	n        int
	universe uint64
	lowWidth int
	low      *BitPackedVector
	high     *BitVector
	i        int
	last     uint64
}

// NewEliasFanoBuilder prepares a builder for n values known to lie in
// [0, universe].
func NewEliasFanoBuilder(n int, universe uint64) *EliasFanoBuilder {
	lowWidth := 0
	if n > 0 {
		ratio := universe / uint64(n)
		lowWidth = BitsForRange(ratio)
		if ratio == 0 {
			lowWidth = 0
		}
	}
	highUniverse := 0
	if lowWidth < 64 {
		highUniverse = int(universe>>uint(lowWidth)) + n + 1
	}
	return &EliasFanoBuilder{
		n:        n,
		universe: universe,
		lowWidth: lowWidth,
		low:      NewBitPackedVector(n, maxInt(lowWidth, 1)),
		high:     NewBitVectorBuilder(highUniverse),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Add appends the next value of the sequence. Values must be non-decreasing
// across calls.
func (b *EliasFanoBuilder) Add(value uint64) {
	highPart := value >> uint(b.lowWidth)
	lowPart := value
	if b.lowWidth > 0 {
		lowPart = value & ((uint64(1) << uint(b.lowWidth)) - 1)
	} else {
		lowPart = 0
	}
	b.low.Set(b.i, lowPart)
	pos := int(highPart) + b.i
	if pos < b.high.Len() {
		b.high.Set(pos)
	}
	b.i++
	b.last = value
}

// Build freezes the builder into a queryable EliasFano.
func (b *EliasFanoBuilder) Build() *EliasFano {
	b.high.Freeze()
	return &EliasFano{
		n:        b.n,
		lowWidth: b.lowWidth,
		low:      b.low,
		high:     b.high,
		universe: b.universe,
	}
}

// Len returns the number of values in the sequence.
func (e *EliasFano) Len() int { return e.n }

// Get returns the i-th value of the sequence.
func (e *EliasFano) Get(i int) uint64 {
	highPart := e.high.Select1(i) - i
	low := e.low.Get(i)
	return (uint64(highPart) << uint(e.lowWidth)) | low
}

// Rank returns the number of values strictly less than x, i.e. the
// insertion point of x into the sequence (lower_bound semantics). The
// packed dictionary's Lookup is built on it; the graph reads its offset
// arrays with Get instead.
func (e *EliasFano) Rank(x uint64) int {
	highTarget := int(x >> uint(e.lowWidth))
	// Locate the bucket boundary via rank on the unary high-bit stream:
	// the number of ones before the first 1 at bucket highTarget equals
	// the count of values whose high part is < highTarget.
	bucketStart := e.bucketStart(highTarget)
	bucketEnd := e.bucketStart(highTarget + 1)
	lo := bucketStart
	hi := bucketEnd
	lowTarget := x
	if e.lowWidth > 0 {
		lowTarget = x & ((uint64(1) << uint(e.lowWidth)) - 1)
	} else {
		lowTarget = 0
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if e.low.Get(mid) < lowTarget {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// bucketStart returns the index of the first value (in sequence order)
// whose high part is >= bucket, i.e. the number of values with high part <
// bucket.
func (e *EliasFano) bucketStart(bucket int) int {
	if bucket <= 0 {
		return 0
	}
	// The position of the bucket-th zero in the unary high stream (if any)
	// minus bucket gives the count of ones (values) before it.
	pos := e.selectZero(bucket - 1)
	if pos < 0 {
		return e.n
	}
	return e.high.Rank1(pos + 1)
}

// selectZero returns the bit index of the (k+1)-th zero bit in the high
// bit vector. Implemented as a linear scan rather than a second checkpoint
// structure: Rank is called once per dictionary lookup, not in a hot
// per-element loop, so the simpler structure is the right tradeoff
// here.
func (e *EliasFano) selectZero(k int) int {
	count := -1
	for i := 0; i < e.high.Len(); i++ {
		if !e.high.Get(i) {
			count++
			if count == k {
				return i
			}
		}
	}
	return -1
}
