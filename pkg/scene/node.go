// Package scene defines the generic input surface handed to the compiler by
// an asset-import collaborator: a named node hierarchy with local transforms,
// plus raw per-mesh vertex weight assignments.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Node is one node of an imported scene hierarchy.
// Transform is the node's local 4x4 matrix, column-major.
type Node struct {
	Name      string
	Transform mgl32.Mat4
	Children  []*Node
}

// NewNode returns a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: mgl32.Ident4()}
}

// AddChild appends child to n and returns it for chaining.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Walk visits n and every descendant in depth-first, declaration order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node with the given name in depth-first order,
// or nil if no such node exists.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(node *Node) {
		if found == nil && node.Name == name {
			found = node
		}
	})
	return found
}
