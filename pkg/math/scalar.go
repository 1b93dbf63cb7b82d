package math

import "golang.org/x/exp/constraints"

// Clamp returns f limited to the range [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Abs returns the absolute value of f.
func Abs[T constraints.Signed | constraints.Float](f T) T {
	if f < 0 {
		return -f
	}
	return f
}

// UnitToByte maps a [0, 1] float to a byte, rounding to nearest.
// Values outside the range are clamped.
func UnitToByte(f float32) uint8 {
	return uint8(Clamp(f, 0, 1)*255 + 0.5)
}

// ByteToUnit maps a byte to the [0, 1] range.
func ByteToUnit(b uint8) float32 {
	return float32(b) / 255
}
