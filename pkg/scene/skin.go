package scene

// VertexWeight assigns one bone's influence to one vertex of a mesh.
// Bone is the name of a node in the scene hierarchy.
type VertexWeight struct {
	Bone   string
	Vertex int
	Weight float32
}

// MeshSkin is the raw skinning data of one mesh: its vertex count and the
// flat list of weight assignments supplied by the importer, in source order.
type MeshSkin struct {
	VertexCount int
	Weights     []VertexWeight
}

// BoneNames returns the distinct bone names referenced by the skin,
// in first-seen order.
func (s *MeshSkin) BoneNames() []string {
	seen := make(map[string]bool, 8)
	names := make([]string, 0, 8)
	for _, w := range s.Weights {
		if !seen[w.Bone] {
			seen[w.Bone] = true
			names = append(names, w.Bone)
		}
	}
	return names
}
