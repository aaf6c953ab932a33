package util

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = (1 << 48) - 1
)

// JavaRandom is the 48-bit linear congruential generator of java.util.Random.
// Demands and time windows of the published datasets were drawn from it with seed 37,
// so regenerating an instance with the same seed reproduces the same file.
type JavaRandom struct {
	seed int64
}

func NewJavaRandom(seed int64) *JavaRandom {
	return &JavaRandom{seed: (seed ^ lcgMultiplier) & lcgMask}
}

func (r *JavaRandom) next(bits uint) int32 {
	r.seed = (r.seed*lcgMultiplier + lcgAddend) & lcgMask
	return int32(uint64(r.seed) >> (48 - bits))
}

func (r *JavaRandom) NextInt() int32 {
	return r.next(32)
}

// NextIntn returns a value in [0, bound). bound must be positive.
func (r *JavaRandom) NextIntn(bound int32) int32 {
	if bound <= 0 {
		panic("bound must be positive")
	}

	if bound&(-bound) == bound {
		return int32((int64(bound) * int64(r.next(31))) >> 31)
	}

	for {
		bits := r.next(31)
		val := bits % bound
		// int32 overflow means the draw fell into the biased tail.
		if bits-val+(bound-1) >= 0 {
			return val
		}
	}
}
