package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Interpolation curves used to synthesize channel values at merged times
// that the channel never sampled. Both curves treat the key sequence as
// periodic when picking neighbor keys, so tangents stay well-defined at the
// first and last segment of looping animations. Evaluation outside the
// keyed range clamps to the boundary keys.

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// segmentIndex returns the largest i with times(i) <= t, given t strictly
// inside the keyed range.
func segmentIndex(n int, time func(int) float32, t float32) int {
	lo, hi := 0, n-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if time(mid) <= t {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// vectorCurve is a derivative-aware cubic Hermite (Catmull-Rom) spline over
// at least two vector keys.
type vectorCurve struct {
	keys []VectorKey
}

func (c vectorCurve) at(t float32) mgl32.Vec3 {
	n := len(c.keys)
	if t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}

	i := segmentIndex(n, func(i int) float32 { return c.keys[i].Time }, t)
	k1, k2 := c.keys[i], c.keys[i+1]
	u := (t - k1.Time) / (k2.Time - k1.Time)

	p0 := c.keys[wrapIndex(i-1, n)].Value
	p3 := c.keys[wrapIndex(i+2, n)].Value
	m1 := k2.Value.Sub(p0).Mul(0.5)
	m2 := p3.Sub(k1.Value).Mul(0.5)

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	return k1.Value.Mul(h00).
		Add(m1.Mul(h10)).
		Add(k2.Value.Mul(h01)).
		Add(m2.Mul(h11))
}

// rotationCurve is a spherical cubic (squad) spline over at least two unit
// quaternion keys. Keys are sign-aligned to their predecessor so every
// segment interpolates along the shorter arc.
type rotationCurve struct {
	keys  []QuatKey
	inner []mgl32.Quat
}

func newRotationCurve(keys []QuatKey) rotationCurve {
	n := len(keys)
	aligned := make([]QuatKey, n)
	copy(aligned, keys)
	for i := 1; i < n; i++ {
		if aligned[i].Value.Dot(aligned[i-1].Value) < 0 {
			aligned[i].Value = aligned[i].Value.Scale(-1)
		}
	}

	// Squad control points, periodic neighbors.
	inner := make([]mgl32.Quat, n)
	for i := 0; i < n; i++ {
		q := aligned[i].Value
		prev := aligned[wrapIndex(i-1, n)].Value
		next := aligned[wrapIndex(i+1, n)].Value

		qi := q.Inverse()
		arm := quatLog(qi.Mul(next)).Add(quatLog(qi.Mul(prev))).Scale(-0.25)
		inner[i] = q.Mul(quatExp(arm)).Normalize()
	}

	return rotationCurve{keys: aligned, inner: inner}
}

func (c rotationCurve) at(t float32) mgl32.Quat {
	n := len(c.keys)
	if t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}

	i := segmentIndex(n, func(i int) float32 { return c.keys[i].Time }, t)
	k1, k2 := c.keys[i], c.keys[i+1]
	u := (t - k1.Time) / (k2.Time - k1.Time)

	edge := mgl32.QuatSlerp(k1.Value, k2.Value, u)
	ctrl := mgl32.QuatSlerp(c.inner[i], c.inner[i+1], u)
	return mgl32.QuatSlerp(edge, ctrl, 2*u*(1-u)).Normalize()
}

// quatLog maps a unit quaternion to its pure-imaginary logarithm.
func quatLog(q mgl32.Quat) mgl32.Quat {
	w := q.W
	if w > 1 {
		w = 1
	} else if w < -1 {
		w = -1
	}
	theta := float32(math.Acos(float64(w)))
	sin := float32(math.Sin(float64(theta)))
	if abs32(sin) < 1e-6 {
		return mgl32.Quat{W: 0, V: q.V}
	}
	return mgl32.Quat{W: 0, V: q.V.Mul(theta / sin)}
}

// quatExp maps a pure-imaginary quaternion back onto the unit sphere.
func quatExp(q mgl32.Quat) mgl32.Quat {
	theta := q.V.Len()
	if theta < 1e-6 {
		return mgl32.Quat{W: 1, V: q.V}.Normalize()
	}
	sin := float32(math.Sin(float64(theta)))
	cos := float32(math.Cos(float64(theta)))
	return mgl32.Quat{W: cos, V: q.V.Mul(sin / theta)}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
