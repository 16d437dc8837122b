package anim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// VectorKey is one translation or scale sample.
type VectorKey struct {
	Time  float32
	Value mgl32.Vec3
}

// QuatKey is one rotation sample. Value must be a unit quaternion.
type QuatKey struct {
	Time  float32
	Value mgl32.Quat
}

// insertVectorKey inserts k into keys keeping ascending, deduplicated order.
// A key at an already present time replaces the earlier value.
func insertVectorKey(keys []VectorKey, k VectorKey) []VectorKey {
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time >= k.Time })
	if i < len(keys) && keys[i].Time == k.Time {
		keys[i] = k
		return keys
	}
	keys = append(keys, VectorKey{})
	copy(keys[i+1:], keys[i:])
	keys[i] = k
	return keys
}

// insertQuatKey mirrors insertVectorKey for rotation samples.
func insertQuatKey(keys []QuatKey, k QuatKey) []QuatKey {
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time >= k.Time })
	if i < len(keys) && keys[i].Time == k.Time {
		keys[i] = k
		return keys
	}
	keys = append(keys, QuatKey{})
	copy(keys[i+1:], keys[i:])
	keys[i] = k
	return keys
}
