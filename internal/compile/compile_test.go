package compile

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rigkit/pkg/anim"
	"github.com/Faultbox/rigkit/pkg/rig"
	"github.com/Faultbox/rigkit/pkg/scene"
)

// testRequest builds a small asset: a scene root with a camera node and a
// two-bone armature under an intermediate node, one skinned quad, and one
// clip animating a bone and the camera.
func testRequest() *Request {
	root := scene.NewNode("Scene")
	root.AddChild(scene.NewNode("Camera"))
	armRoot := root.AddChild(scene.NewNode("Armature"))
	hip := armRoot.AddChild(scene.NewNode("hip"))
	hip.Transform = mgl32.Translate3D(0, 1, 0)
	spine := hip.AddChild(scene.NewNode("spine"))
	spine.Transform = mgl32.Translate3D(0, 0.5, 0)

	return &Request{
		Name: "test_asset",
		Root: root,
		Meshes: []scene.MeshSkin{{
			VertexCount: 3,
			Weights: []scene.VertexWeight{
				{Bone: "hip", Vertex: 0, Weight: 1},
				{Bone: "hip", Vertex: 1, Weight: 0.4},
				{Bone: "spine", Vertex: 1, Weight: 0.6},
				{Bone: "spine", Vertex: 2, Weight: 1},
			},
		}},
		Clips: []Clip{{
			Name:     "idle",
			Duration: 1,
			Channels: []TargetChannels{
				{
					Node: "spine",
					Rotations: []anim.QuatKey{
						{Time: 0, Value: mgl32.QuatIdent()},
						{Time: 1, Value: mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})},
					},
				},
				{
					Node: "Camera",
					Translations: []anim.VectorKey{
						{Time: 0, Value: mgl32.Vec3{0, 0, 5}},
					},
				},
			},
		}},
	}
}

func TestCompilePipeline(t *testing.T) {
	model, err := Compile(testRequest())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	// The armature root is hip, not Armature or Scene: only bone-bearing
	// names count.
	if model.Armature.Len() != 2 {
		t.Fatalf("joint count = %d, want 2", model.Armature.Len())
	}
	roots := model.Armature.Roots()
	if len(roots) != 1 || model.Armature.Joint(roots[0]).Name != "hip" {
		t.Errorf("armature root = %v, want hip", roots)
	}

	// Ids pinned by weight-stream order: hip first, spine second.
	if j, _ := model.Armature.JointByName("hip"); j.ID != 0 {
		t.Errorf("hip id = %d, want 0", j.ID)
	}
	if j, _ := model.Armature.JointByName("spine"); j.ID != 1 {
		t.Errorf("spine id = %d, want 1", j.ID)
	}

	if len(model.Skins) != 1 {
		t.Fatalf("skins = %d, want 1", len(model.Skins))
	}
	skin := model.Skins[0]
	if skin.VertexCount != 3 {
		t.Errorf("vertex count = %d, want 3", skin.VertexCount)
	}
	// Vertex 1 blends both bones with normalized weights.
	base := 1 * rig.MaxInfluences
	if skin.Indices[base] != 0 || skin.Indices[base+1] != 1 {
		t.Errorf("vertex 1 joints = %v", skin.Indices[base:base+2])
	}
	if d := skin.Weights[base] + skin.Weights[base+1] - 1; d < -1e-6 || d > 1e-6 {
		t.Errorf("vertex 1 weights %v do not sum to 1", skin.Weights[base:base+2])
	}

	if len(model.Clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(model.Clips))
	}
	tracks := model.Clips[0].Tracks
	if len(tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(tracks))
	}

	spineJoint, _ := model.Armature.JointByName("spine")
	if tracks[0].Target != anim.JointTarget(spineJoint.ID) {
		t.Errorf("track 0 target = %v, want joint target for spine", tracks[0].Target)
	}
	if tracks[1].Target.Kind != anim.TargetNode {
		t.Errorf("track 1 target kind = %v, want node target", tracks[1].Target.Kind)
	}
	if tracks[1].Len() != 1 {
		t.Errorf("camera track length = %d, want 1", tracks[1].Len())
	}
}

func TestCompileNilRoot(t *testing.T) {
	if _, err := Compile(&Request{Name: "x"}); !errors.Is(err, ErrNilRoot) {
		t.Errorf("Compile(nil root) = %v, want ErrNilRoot", err)
	}
}

func TestCompileDuplicateBoneName(t *testing.T) {
	root := scene.NewNode("hip")
	root.AddChild(scene.NewNode("hip"))

	req := &Request{
		Name: "dup",
		Root: root,
		Meshes: []scene.MeshSkin{{
			VertexCount: 1,
			Weights:     []scene.VertexWeight{{Bone: "hip", Vertex: 0, Weight: 1}},
		}},
	}
	if _, err := Compile(req); !errors.Is(err, rig.ErrDuplicateBoneName) {
		t.Errorf("Compile = %v, want ErrDuplicateBoneName", err)
	}
}

func TestCompileMissingBone(t *testing.T) {
	// A weight references a bone name absent from the scene tree.
	root := scene.NewNode("hip")

	req := &Request{
		Name: "missing",
		Root: root,
		Meshes: []scene.MeshSkin{{
			VertexCount: 1,
			Weights: []scene.VertexWeight{
				{Bone: "hip", Vertex: 0, Weight: 0.5},
				{Bone: "ghost", Vertex: 0, Weight: 0.5},
			},
		}},
	}
	if _, err := Compile(req); !errors.Is(err, rig.ErrIncompleteHierarchy) {
		t.Errorf("Compile = %v, want ErrIncompleteHierarchy", err)
	}
}

func TestCompileUnknownChannelNodeSkipped(t *testing.T) {
	req := testRequest()
	req.Clips[0].Channels = append(req.Clips[0].Channels, TargetChannels{
		Node: "does_not_exist",
		Translations: []anim.VectorKey{
			{Time: 0, Value: mgl32.Vec3{}},
		},
	})

	model, err := Compile(req)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := len(model.Clips[0].Tracks); got != 2 {
		t.Errorf("tracks = %d, want 2 (unknown node skipped)", got)
	}
}

func TestCompileBadKeyframeAborts(t *testing.T) {
	req := testRequest()
	req.Clips[0].Channels[0].Rotations = append(req.Clips[0].Channels[0].Rotations,
		anim.QuatKey{Time: 2, Value: mgl32.QuatIdent()}) // past duration

	if _, err := Compile(req); !errors.Is(err, anim.ErrInvalidKeyframeTime) {
		t.Errorf("Compile = %v, want ErrInvalidKeyframeTime", err)
	}
}
