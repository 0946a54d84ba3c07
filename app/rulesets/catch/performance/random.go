package performance

// legacyRandom is the xorshift generator stable seeds for fruit offsets
type legacyRandom struct {
	x, y, z, w uint32

	bitBuffer uint32
	bitIndex  int
}

const intToReal = 1.0 / (2147483647 + 1.0)

func newLegacyRandom(seed int) *legacyRandom {
	return &legacyRandom{
		x:        uint32(seed),
		y:        842502087,
		z:        3579807591,
		w:        273326509,
		bitIndex: 32,
	}
}

func (r *legacyRandom) nextUInt() uint32 {
	t := r.x ^ (r.x << 11)
	r.x, r.y, r.z = r.y, r.z, r.w
	r.w = r.w ^ (r.w >> 19) ^ t ^ (t >> 8)

	return r.w
}

func (r *legacyRandom) next() int {
	return int(0x7FFFFFFF & r.nextUInt())
}

func (r *legacyRandom) nextDouble() float64 {
	return intToReal * float64(r.next())
}

func (r *legacyRandom) nextRange(lower, upper float64) int {
	return int(lower + r.nextDouble()*(upper-lower))
}

func (r *legacyRandom) nextBool() bool {
	if r.bitIndex == 32 {
		r.bitBuffer = r.nextUInt()
		r.bitIndex = 1

		return r.bitBuffer&1 == 1
	}

	r.bitIndex++
	r.bitBuffer >>= 1

	return r.bitBuffer&1 == 1
}
