package mathx

import "golang.org/x/exp/constraints"

// MulDiv returns (a*b)/d with a 64-bit intermediate, truncating toward zero.
// d == 0 yields 0.
func MulDiv[T constraints.Unsigned](a, b, d T) T {
	if d == 0 {
		return 0
	}
	return T(uint64(a) * uint64(b) / uint64(d))
}

// MapU16 maps x in [inMin,inMax] to [outMin,outMax] with truncating division.
// Clamps to out range if input is outside.
func MapU16(x, inMin, inMax, outMin, outMax uint16) uint16 {
	if inMax == inMin {
		return outMin
	}
	if x < inMin {
		return outMin
	}
	if x > inMax {
		return outMax
	}
	return outMin + MulDiv(x-inMin, outMax-outMin, inMax-inMin)
}
