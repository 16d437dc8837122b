// Package rig builds renderer-ready armatures from imported scene data:
// an indexed joint hierarchy with bind and inverse-bind matrices, and
// bounded per-vertex influence buffers for GPU skinning.
package rig

import "github.com/go-gl/mathgl/mgl32"

// NoParent marks a root joint's parent id.
const NoParent = -1

// Joint is one bone of a finalized armature. Ids are dense, assigned in
// first-seen order, and index directly into the armature's joint array.
type Joint struct {
	ID       int
	Name     string
	Parent   int // NoParent for roots
	Children []int

	// Offset is the raw local matrix as supplied by the importer.
	Offset mgl32.Mat4
	// Local is the decomposed initial local transform.
	Local Transform
	// Bind is the joint's world transform in bind pose:
	// parent bind matrix times Offset, or Offset alone for roots.
	Bind mgl32.Mat4
	// InverseBind moves bind-pose vertices into joint-local space.
	InverseBind mgl32.Mat4
}

// Armature is an immutable joint hierarchy produced by Builder.Build.
type Armature struct {
	joints []Joint
	roots  []int
	byName map[string]int
}

// Len returns the number of joints.
func (a *Armature) Len() int {
	return len(a.joints)
}

// Joint returns the joint with the given id. The returned value is a copy;
// its Children slice must not be modified.
func (a *Armature) Joint(id int) Joint {
	return a.joints[id]
}

// JointByName looks a joint up by bone name.
func (a *Armature) JointByName(name string) (Joint, bool) {
	id, ok := a.byName[name]
	if !ok {
		return Joint{}, false
	}
	return a.joints[id], true
}

// Roots returns the ids of all root joints.
func (a *Armature) Roots() []int {
	out := make([]int, len(a.roots))
	copy(out, a.roots)
	return out
}

// Walk visits every joint depth-first, parents before children.
func (a *Armature) Walk(fn func(Joint)) {
	var visit func(id int)
	visit = func(id int) {
		fn(a.joints[id])
		for _, c := range a.joints[id].Children {
			visit(c)
		}
	}
	for _, r := range a.roots {
		visit(r)
	}
}
