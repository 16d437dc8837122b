package anim

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Animation merge errors. Any of them aborts the conversion of the asset.
var (
	ErrInvalidKeyframeTime = errors.New("keyframe time outside [0, duration]")
	ErrNonUnitQuaternion   = errors.New("rotation keyframe is not a unit quaternion")
	ErrMergerSealed        = errors.New("merger already finalized")
)

// DefaultUnitTolerance is the allowed deviation of a rotation keyframe's
// length from 1.
const DefaultUnitTolerance = 5e-4

// Track is the merged keyframe table for one animation target: four
// parallel, equal-length arrays with all three components present at every
// sample time.
type Track struct {
	Target       Target
	Times        []float32
	Translations []mgl32.Vec3
	Rotations    []mgl32.Quat
	Scales       []mgl32.Vec3
}

// Len returns the number of merged keyframes.
func (t *Track) Len() int {
	return len(t.Times)
}

// Merger accumulates sparse translation, rotation, and scale keyframes for
// one animation target and merges them into a single synchronized Track.
//
// Channels are sampled independently upstream; Build unions their key times
// and fills the gaps of each channel from its own interpolation curve. The
// merger is sealed once Build returns. Not safe for concurrent use.
type Merger struct {
	target   Target
	duration float32

	// UnitTolerance bounds |len(q)-1| for rotation keys. Callers may
	// tighten or relax it before the first AddRotation call.
	UnitTolerance float32

	translations []VectorKey
	rotations    []QuatKey
	scales       []VectorKey
	sealed       bool
}

// NewMerger returns a merger for one target and a clip of the given
// duration in seconds.
func NewMerger(target Target, duration float32) *Merger {
	if duration < 0 {
		duration = 0
	}
	return &Merger{
		target:        target,
		duration:      duration,
		UnitTolerance: DefaultUnitTolerance,
	}
}

// Target returns the animation target the merger was built for.
func (m *Merger) Target() Target {
	return m.target
}

// Duration returns the clip duration in seconds.
func (m *Merger) Duration() float32 {
	return m.duration
}

func (m *Merger) checkTime(t float32) error {
	if m.sealed {
		return ErrMergerSealed
	}
	if t < 0 || t > m.duration || math.IsNaN(float64(t)) {
		return fmt.Errorf("%w: t=%g, duration=%g", ErrInvalidKeyframeTime, t, m.duration)
	}
	return nil
}

// AddTranslation records a translation sample. A repeated time replaces the
// earlier value.
func (m *Merger) AddTranslation(t float32, v mgl32.Vec3) error {
	if err := m.checkTime(t); err != nil {
		return err
	}
	m.translations = insertVectorKey(m.translations, VectorKey{Time: t, Value: v})
	return nil
}

// AddRotation records a rotation sample. The quaternion must be unit length
// within UnitTolerance. A repeated time replaces the earlier value.
func (m *Merger) AddRotation(t float32, q mgl32.Quat) error {
	if err := m.checkTime(t); err != nil {
		return err
	}
	if d := q.Len() - 1; d > m.UnitTolerance || d < -m.UnitTolerance {
		return fmt.Errorf("%w: |q|=%g at t=%g", ErrNonUnitQuaternion, q.Len(), t)
	}
	m.rotations = insertQuatKey(m.rotations, QuatKey{Time: t, Value: q})
	return nil
}

// AddScale records a scale sample. A repeated time replaces the earlier
// value.
func (m *Merger) AddScale(t float32, v mgl32.Vec3) error {
	if err := m.checkTime(t); err != nil {
		return err
	}
	m.scales = insertVectorKey(m.scales, VectorKey{Time: t, Value: v})
	return nil
}

// Build merges the three channels into one Track and seals the merger.
//
// The merged timeline is the ascending, deduplicated union of all key times.
// At each merged time a channel contributes its explicit key when it has one
// at exactly that time; otherwise a value synthesized from the channel's own
// curve. A channel with a single key is constant; an empty channel yields
// its neutral value (zero translation, identity rotation, unit scale).
func (m *Merger) Build() (*Track, error) {
	if m.sealed {
		return nil, ErrMergerSealed
	}
	m.sealed = true

	times := m.mergedTimes()
	track := &Track{
		Target:       m.target,
		Times:        times,
		Translations: make([]mgl32.Vec3, len(times)),
		Rotations:    make([]mgl32.Quat, len(times)),
		Scales:       make([]mgl32.Vec3, len(times)),
	}

	sampleVectors(times, m.translations, mgl32.Vec3{}, track.Translations)
	sampleRotations(times, m.rotations, track.Rotations)
	sampleVectors(times, m.scales, mgl32.Vec3{1, 1, 1}, track.Scales)

	return track, nil
}

// mergedTimes unions the key times of all three channels.
func (m *Merger) mergedTimes() []float32 {
	times := make([]float32, 0, len(m.translations)+len(m.rotations)+len(m.scales))
	for _, k := range m.translations {
		times = append(times, k.Time)
	}
	for _, k := range m.rotations {
		times = append(times, k.Time)
	}
	for _, k := range m.scales {
		times = append(times, k.Time)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	out := times[:0]
	for i, t := range times {
		if i == 0 || t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}

// sampleVectors fills dst with one vector channel's value at every merged
// time: the explicit key when present, the curve value otherwise.
func sampleVectors(times []float32, keys []VectorKey, neutral mgl32.Vec3, dst []mgl32.Vec3) {
	switch len(keys) {
	case 0:
		for i := range dst {
			dst[i] = neutral
		}
		return
	case 1:
		for i := range dst {
			dst[i] = keys[0].Value
		}
		return
	}

	curve := vectorCurve{keys: keys}
	next := 0
	for i, t := range times {
		for next < len(keys) && keys[next].Time < t {
			next++
		}
		if next < len(keys) && keys[next].Time == t {
			dst[i] = keys[next].Value
			continue
		}
		dst[i] = curve.at(t)
	}
}

// sampleRotations mirrors sampleVectors for the rotation channel. Explicit
// keys are reproduced with their original sign; synthesized values come from
// the sign-aligned spherical spline.
func sampleRotations(times []float32, keys []QuatKey, dst []mgl32.Quat) {
	switch len(keys) {
	case 0:
		for i := range dst {
			dst[i] = mgl32.QuatIdent()
		}
		return
	case 1:
		for i := range dst {
			dst[i] = keys[0].Value
		}
		return
	}

	curve := newRotationCurve(keys)
	next := 0
	for i, t := range times {
		for next < len(keys) && keys[next].Time < t {
			next++
		}
		if next < len(keys) && keys[next].Time == t {
			dst[i] = keys[next].Value
			continue
		}
		dst[i] = curve.at(t)
	}
}
