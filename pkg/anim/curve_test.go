package anim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestVectorCurveHitsKnots(t *testing.T) {
	c := vectorCurve{keys: []VectorKey{
		{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		{Time: 0.5, Value: mgl32.Vec3{1, 2, 3}},
		{Time: 1, Value: mgl32.Vec3{-1, 0, 1}},
	}}

	for _, k := range c.keys {
		if got := c.at(k.Time); got != k.Value {
			t.Errorf("at(%g) = %v, want knot value %v", k.Time, got, k.Value)
		}
	}
}

func TestVectorCurveClampsOutsideRange(t *testing.T) {
	c := vectorCurve{keys: []VectorKey{
		{Time: 0.2, Value: mgl32.Vec3{1, 0, 0}},
		{Time: 0.8, Value: mgl32.Vec3{0, 1, 0}},
	}}

	if got := c.at(0); got != c.keys[0].Value {
		t.Errorf("at(0) = %v, want first key", got)
	}
	if got := c.at(1); got != c.keys[1].Value {
		t.Errorf("at(1) = %v, want last key", got)
	}
}

func TestVectorCurveTwoKeyMidpoint(t *testing.T) {
	// With two keys the periodic neighbors cancel the tangents, so the
	// midpoint is the average of the endpoints.
	c := vectorCurve{keys: []VectorKey{
		{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		{Time: 1, Value: mgl32.Vec3{2, 4, 6}},
	}}

	got := c.at(0.5)
	want := mgl32.Vec3{1, 2, 3}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("at(0.5) = %v, want %v", got, want)
	}
}

func TestRotationCurveHitsKnots(t *testing.T) {
	keys := []QuatKey{
		{Time: 0, Value: mgl32.QuatIdent()},
		{Time: 0.5, Value: mgl32.QuatRotate(1.0, mgl32.Vec3{0, 1, 0})},
		{Time: 1, Value: mgl32.QuatRotate(2.0, mgl32.Vec3{0, 1, 0})},
	}
	c := newRotationCurve(keys)

	for _, k := range keys {
		got := c.at(k.Time)
		if d := got.Dot(k.Value); d < 0.9999 && d > -0.9999 {
			t.Errorf("at(%g) = %v, want %v (dot %g)", k.Time, got, k.Value, d)
		}
	}
}

func TestRotationCurveStaysUnit(t *testing.T) {
	keys := []QuatKey{
		{Time: 0, Value: mgl32.QuatIdent()},
		{Time: 1, Value: mgl32.QuatRotate(float32(math.Pi)*0.75, mgl32.Vec3{1, 0, 0})},
	}
	c := newRotationCurve(keys)

	for _, ts := range []float32{0.1, 0.25, 0.4, 0.6, 0.9} {
		q := c.at(ts)
		if d := q.Len() - 1; d < -1e-4 || d > 1e-4 {
			t.Errorf("at(%g) length = %g, want 1", ts, q.Len())
		}
	}
}

func TestRotationCurveShortestArc(t *testing.T) {
	// q and -q represent the same rotation; the curve must not swing the
	// long way around when key signs disagree.
	q1 := mgl32.QuatRotate(0.4, mgl32.Vec3{0, 0, 1})
	keys := []QuatKey{
		{Time: 0, Value: mgl32.QuatIdent()},
		{Time: 1, Value: q1.Scale(-1)},
	}
	c := newRotationCurve(keys)

	mid := c.at(0.5)
	want := mgl32.QuatRotate(0.2, mgl32.Vec3{0, 0, 1})
	if d := mid.Dot(want); d < 0.999 && d > -0.999 {
		t.Errorf("at(0.5) = %v, want ~%v (dot %g)", mid, want, d)
	}
}

func TestQuatLogExpRoundTrip(t *testing.T) {
	qs := []mgl32.Quat{
		mgl32.QuatIdent(),
		mgl32.QuatRotate(0.5, mgl32.Vec3{1, 0, 0}),
		mgl32.QuatRotate(2.1, mgl32.Vec3{0, 0.6, 0.8}),
	}
	for _, q := range qs {
		got := quatExp(quatLog(q))
		if d := got.Dot(q); d < 0.9999 && d > -0.9999 {
			t.Errorf("exp(log(%v)) = %v (dot %g)", q, got, d)
		}
	}
}

func TestSegmentIndex(t *testing.T) {
	times := []float32{0, 0.25, 0.5, 1}
	at := func(i int) float32 { return times[i] }

	tests := []struct {
		t    float32
		want int
	}{
		{0.1, 0},
		{0.25, 1},
		{0.3, 1},
		{0.9, 2},
	}
	for _, tt := range tests {
		if got := segmentIndex(len(times), at, tt.t); got != tt.want {
			t.Errorf("segmentIndex(%g) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{-1, 3, 2},
		{0, 3, 0},
		{3, 3, 0},
		{4, 3, 1},
	}
	for _, tt := range tests {
		if got := wrapIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("wrapIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
