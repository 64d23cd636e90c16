// Package rng provides the 32-bit Mersenne Twister used to generate benchmark
// inputs.
//
// The underlying generator is gonum's MT19937, seeded with the standard
// init_genrand recurrence, so inputs generated here are bit-identical to
// those of any other conforming implementation seeded the same way.
package rng

import (
	"math"

	"gonum.org/v1/gonum/mathext/prng"
)

const twoPow32 = 1 << 32

// DefaultSeed is the seed conventionally used by an unseeded MT19937.
const DefaultSeed = 5489

// MT19937 is a 32-bit Mersenne Twister with a float32 draw. It is not safe
// for concurrent use.
type MT19937 struct {
	src *prng.MT19937
}

// New returns a generator seeded with seed.
func New(seed uint32) *MT19937 {
	mt := &MT19937{src: prng.NewMT19937()}
	mt.Seed(seed)

	return mt
}

// Seed resets the generator state.
func (mt *MT19937) Seed(seed uint32) {
	mt.src.Seed(uint64(seed))
}

// Uint32 returns the next tempered 32-bit output.
func (mt *MT19937) Uint32() uint32 {
	return mt.src.Uint32()
}

// Uint64 concatenates two outputs, high word first.
func (mt *MT19937) Uint64() uint64 {
	return mt.src.Uint64()
}

// Float32 returns a uniform value in [0, 1) built from a single 32-bit draw:
// the draw is rounded to float32 and scaled by 2^-32. Rounding can land on
// exactly 1.0, in which case the largest float32 below 1 is returned.
func (mt *MT19937) Float32() float32 {
	f := float32(mt.src.Uint32()) / twoPow32
	if f >= 1 {
		f = math.Nextafter32(1, 0)
	}

	return f
}
