package rig

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rigkit/pkg/scene"
)

// jointRecord is the mutable per-joint state accumulated before Build.
type jointRecord struct {
	name     string
	parent   int
	children []int
	offset   mgl32.Mat4
}

// Builder assembles an Armature from an externally traversed node tree.
//
// The intended call order is: MarkBoneBearing for every bone name referenced
// by vertex weights, JointID while streaming those weights (to pin the dense
// id numbering to the weight buffers), FindRootBone to locate the armature
// subtree, AddJointSubtree on that root, and finally Build. The builder is
// sealed once Build returns; further mutation fails with ErrBuilderSealed.
//
// Builders are not safe for concurrent use.
type Builder struct {
	ids     map[string]int
	names   []string // index = id, first-seen allocation order
	bearing map[string]bool
	records map[int]*jointRecord
	sealed  bool
}

// NewBuilder returns an empty armature builder.
func NewBuilder() *Builder {
	return &Builder{
		ids:     make(map[string]int),
		bearing: make(map[string]bool),
		records: make(map[int]*jointRecord),
	}
}

// JointID returns the id previously assigned to name, allocating the next
// sequential id if the name is unseen. Numbering is dense and never reused.
func (b *Builder) JointID(name string) int {
	if id, ok := b.ids[name]; ok {
		return id
	}
	id := len(b.names)
	b.ids[name] = id
	b.names = append(b.names, name)
	return id
}

// MarkBoneBearing records that a node name is referenced by vertex weight
// data. Marked names drive FindRootBone's ancestor search.
func (b *Builder) MarkBoneBearing(name string) {
	b.bearing[name] = true
}

// FindRootBone returns the root of the minimal subtree containing every
// marked bone name: the most recent common ancestor of all bone nodes.
// A node whose own name is marked is returned directly; otherwise, when
// more than one child subtree contains bones, the node itself becomes the
// ancestor. Returns nil when the subtree contains no marked name.
func (b *Builder) FindRootBone(n *scene.Node) *scene.Node {
	if n == nil {
		return nil
	}
	if b.bearing[n.Name] {
		return n
	}

	var found *scene.Node
	hits := 0
	for _, c := range n.Children {
		if sub := b.FindRootBone(c); sub != nil {
			found = sub
			hits++
		}
	}
	if hits > 1 {
		// Bones in separate child subtrees: this node is their ancestor.
		return n
	}
	return found
}

// AddJointSubtree creates a joint record for n and every descendant.
// Each distinct node name may appear only once across all added subtrees;
// a repeat fails with ErrDuplicateBoneName.
func (b *Builder) AddJointSubtree(n *scene.Node) error {
	if b.sealed {
		return ErrBuilderSealed
	}
	return b.addJoint(n, NoParent)
}

func (b *Builder) addJoint(n *scene.Node, parent int) error {
	id := b.JointID(n.Name)
	if _, exists := b.records[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBoneName, n.Name)
	}

	b.records[id] = &jointRecord{
		name:   n.Name,
		parent: parent,
		offset: n.Transform,
	}
	if parent != NoParent {
		p := b.records[parent]
		p.children = append(p.children, id)
	}

	for _, c := range n.Children {
		if err := b.addJoint(c, id); err != nil {
			return err
		}
	}
	return nil
}

// Build finalizes the armature. It verifies that every allocated bone name
// has a joint record (ErrIncompleteHierarchy otherwise), then derives each
// joint's initial local transform, bind matrix, and inverse-bind matrix,
// configuring parents before children. The builder is sealed afterwards.
func (b *Builder) Build() (*Armature, error) {
	if b.sealed {
		return nil, ErrBuilderSealed
	}
	if len(b.names) != len(b.records) {
		return nil, fmt.Errorf("%w: %d names, %d joints",
			ErrIncompleteHierarchy, len(b.names), len(b.records))
	}
	b.sealed = true

	a := &Armature{
		joints: make([]Joint, len(b.records)),
		byName: make(map[string]int, len(b.records)),
	}

	binds := make(map[int]mgl32.Mat4, len(b.records))
	for id, rec := range b.records {
		bind := b.bindMatrix(id, binds)

		children := make([]int, len(rec.children))
		copy(children, rec.children)

		a.joints[id] = Joint{
			ID:          id,
			Name:        rec.name,
			Parent:      rec.parent,
			Children:    children,
			Offset:      rec.offset,
			Local:       Decompose(rec.offset),
			Bind:        bind,
			InverseBind: bind.Inv(),
		}
		a.byName[rec.name] = id
		if rec.parent == NoParent {
			a.roots = append(a.roots, id)
		}
	}
	sort.Ints(a.roots)

	return a, nil
}

// bindMatrix composes the bind-pose world matrix for one joint, recursing
// into the parent chain on demand. The cache guarantees each ancestor is
// computed exactly once regardless of iteration order.
func (b *Builder) bindMatrix(id int, cache map[int]mgl32.Mat4) mgl32.Mat4 {
	if m, ok := cache[id]; ok {
		return m
	}
	rec := b.records[id]
	m := rec.offset
	if rec.parent != NoParent {
		m = b.bindMatrix(rec.parent, cache).Mul4(rec.offset)
	}
	cache[id] = m
	return m
}
