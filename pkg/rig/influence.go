package rig

import (
	"fmt"
	"math"
)

// MaxInfluences is the fixed per-vertex influence width GPU skinning expects.
const MaxInfluences = 4

// Influence is one joint's weighted contribution to a vertex.
type Influence struct {
	Joint  int32
	Weight float32
}

// InfluenceList is the bounded, unordered set of influences for one vertex.
// It never holds more than MaxInfluences entries and never stores a zero
// weight. The zero value is ready to use.
type InfluenceList struct {
	entries []Influence
}

// Add appends an influence. Zero and non-finite weights are dropped. When
// the list would exceed MaxInfluences, the entry with the smallest absolute
// weight is evicted; among tied entries the earliest-inserted one goes.
func (l *InfluenceList) Add(joint int32, weight float32) {
	if weight == 0 || math.IsNaN(float64(weight)) || math.IsInf(float64(weight), 0) {
		return
	}
	l.entries = append(l.entries, Influence{Joint: joint, Weight: weight})
	if len(l.entries) <= MaxInfluences {
		return
	}

	min := 0
	for i := 1; i < len(l.entries); i++ {
		if abs32(l.entries[i].Weight) < abs32(l.entries[min].Weight) {
			min = i
		}
	}
	l.entries = append(l.entries[:min], l.entries[min+1:]...)
}

// Count returns the number of stored influences, 0..MaxInfluences.
func (l *InfluenceList) Count() int {
	return len(l.entries)
}

// Indices returns the fixed-width joint index buffer for the vertex.
// Unused slots hold -1.
func (l *InfluenceList) Indices() [MaxInfluences]int32 {
	out := [MaxInfluences]int32{-1, -1, -1, -1}
	for i, e := range l.entries {
		out[i] = e.Joint
	}
	return out
}

// Weights returns the fixed-width weight buffer for the vertex. Stored
// weights are rescaled to sum to 1; when the total is zero the buffer stays
// all-zero. Unused slots hold 0.
func (l *InfluenceList) Weights() [MaxInfluences]float32 {
	var out [MaxInfluences]float32

	var total float32
	for _, e := range l.entries {
		total += e.Weight
	}
	if total == 0 {
		return out
	}

	inv := 1 / total
	for i, e := range l.entries {
		out[i] = e.Weight * inv
	}
	return out
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Skin holds the flat, renderer-ready influence buffers for one mesh:
// MaxInfluences joint indices and weights per vertex, vertex-major.
type Skin struct {
	VertexCount int
	Indices     []int32
	Weights     []float32
}

// SkinBuffer accumulates vertex weight assignments for one mesh and emits
// an immutable Skin. Like the armature builder it is sealed by Build.
type SkinBuffer struct {
	lists  []InfluenceList
	sealed bool
}

// NewSkinBuffer returns a buffer for a mesh with the given vertex count.
func NewSkinBuffer(vertexCount int) (*SkinBuffer, error) {
	if vertexCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeVertexCount, vertexCount)
	}
	return &SkinBuffer{lists: make([]InfluenceList, vertexCount)}, nil
}

// Add records one influence for the given vertex.
func (s *SkinBuffer) Add(vertex int, joint int32, weight float32) error {
	if s.sealed {
		return ErrBuilderSealed
	}
	if vertex < 0 || vertex >= len(s.lists) {
		return fmt.Errorf("%w: %d of %d", ErrVertexOutOfRange, vertex, len(s.lists))
	}
	if joint < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidJointIndex, joint)
	}
	s.lists[vertex].Add(joint, weight)
	return nil
}

// List returns the influence list of one vertex, for inspection.
func (s *SkinBuffer) List(vertex int) *InfluenceList {
	return &s.lists[vertex]
}

// Build emits the fixed-width buffers and seals the skin buffer.
func (s *SkinBuffer) Build() (*Skin, error) {
	if s.sealed {
		return nil, ErrBuilderSealed
	}
	s.sealed = true

	skin := &Skin{
		VertexCount: len(s.lists),
		Indices:     make([]int32, len(s.lists)*MaxInfluences),
		Weights:     make([]float32, len(s.lists)*MaxInfluences),
	}
	for v := range s.lists {
		idx := s.lists[v].Indices()
		w := s.lists[v].Weights()
		copy(skin.Indices[v*MaxInfluences:], idx[:])
		copy(skin.Weights[v*MaxInfluences:], w[:])
	}
	return skin, nil
}
