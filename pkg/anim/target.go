// Package anim merges independently sampled animation channels into
// synchronized, renderer-ready keyframe tracks.
package anim

import "fmt"

// TargetKind distinguishes what a track animates.
type TargetKind uint8

const (
	// TargetJoint animates a joint of the armature.
	TargetJoint TargetKind = iota
	// TargetNode animates an arbitrary scene node outside the armature.
	TargetNode
)

// Target identifies what a merged track drives. The kind is resolved once
// at construction; consumers never need runtime type tests.
type Target struct {
	Kind TargetKind
	ID   int
}

// JointTarget returns a target addressing a joint by its dense id.
func JointTarget(id int) Target {
	return Target{Kind: TargetJoint, ID: id}
}

// NodeTarget returns a target addressing a non-joint scene node.
func NodeTarget(id int) Target {
	return Target{Kind: TargetNode, ID: id}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetJoint:
		return fmt.Sprintf("joint(%d)", t.ID)
	case TargetNode:
		return fmt.Sprintf("node(%d)", t.ID)
	}
	return fmt.Sprintf("target(%d,%d)", t.Kind, t.ID)
}
