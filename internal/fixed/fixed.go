// Package fixed implements the 16.16 fixed-point arithmetic used by the
// upstream software renderer. All screen-space projection math in the
// bridge runs on these units so that extracted geometry matches what the
// renderer itself computed, with no floating-point drift.
package fixed

// Bits is the number of fractional bits in a Unit.
const Bits = 16

// One is the fixed-point representation of 1.0.
const One Unit = 1 << Bits

// Unit is a 16.16 fixed-point number.
type Unit int32

// FromInt converts an integer to fixed-point.
func FromInt(i int) Unit {
	return Unit(i << Bits)
}

// ToInt truncates a fixed-point value to its integer part.
func (u Unit) ToInt() int {
	return int(u >> Bits)
}

// Mul multiplies two fixed-point values.
// The intermediate product is widened to 64 bits to avoid overflow.
func Mul(a, b Unit) Unit {
	return Unit((int64(a) * int64(b)) >> Bits)
}

// Div divides a by b in fixed-point.
// Division by zero or near-overflow quotients saturate to the extremes,
// matching the renderer's behavior for degenerate scales.
func Div(a, b Unit) Unit {
	if b == 0 {
		if a < 0 {
			return -1 << 31
		}
		return 1<<31 - 1
	}
	q := (int64(a) << Bits) / int64(b)
	if q > 1<<31-1 {
		return 1<<31 - 1
	}
	if q < -1<<31 {
		return -1 << 31
	}
	return Unit(q)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi Unit) Unit {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt restricts v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ProjectRow computes the screen row of a world height projected through a
// perspective scale: row = center - (height-eye)*scale, truncated to an
// integer row. Heights are taken relative to the viewer's eye height;
// projecting absolute heights is a known defect that compresses walls into
// the wrong half of the screen.
func ProjectRow(center, height, eye, scale Unit) int {
	return (center - Mul(height-eye, scale)).ToInt()
}
