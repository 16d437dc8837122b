// Package rigfile loads a yaml description of an asset — node tree, vertex
// weights, animation keyframes — into a compile request. It is a development
// harness standing in for a real asset importer, used by the rigkit CLI and
// by integration-style tests.
package rigfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rigkit/internal/compile"
	"github.com/Faultbox/rigkit/pkg/anim"
	"github.com/Faultbox/rigkit/pkg/scene"
)

// Rigfile loading errors.
var (
	ErrMissingRoot   = errors.New("rigfile has no root node")
	ErrBadMatrix     = errors.New("matrix must have 16 values")
	ErrBadVector     = errors.New("vector must have 3 values")
	ErrBadQuaternion = errors.New("quaternion must have 4 values (x y z w)")
)

type fileNode struct {
	Name string `yaml:"name"`
	// Matrix is a row-major 4x4 local transform. When absent, the
	// translation/rotation/scale fields are composed instead.
	Matrix      []float32  `yaml:"matrix"`
	Translation []float32  `yaml:"translation"`
	Rotation    []float32  `yaml:"rotation"` // quaternion, x y z w
	Scale       []float32  `yaml:"scale"`
	Children    []fileNode `yaml:"children"`
}

type fileVectorKey struct {
	Time  float32   `yaml:"time"`
	Value []float32 `yaml:"value"`
}

type fileQuatKey struct {
	Time  float32   `yaml:"time"`
	Value []float32 `yaml:"value"` // x y z w
}

type fileWeight struct {
	Bone   string  `yaml:"bone"`
	Vertex int     `yaml:"vertex"`
	Weight float32 `yaml:"weight"`
}

type fileMesh struct {
	VertexCount int          `yaml:"vertex_count"`
	Weights     []fileWeight `yaml:"weights"`
}

type fileChannels struct {
	Node         string          `yaml:"node"`
	Translations []fileVectorKey `yaml:"translations"`
	Rotations    []fileQuatKey   `yaml:"rotations"`
	Scales       []fileVectorKey `yaml:"scales"`
}

type fileClip struct {
	Name     string         `yaml:"name"`
	Duration float32        `yaml:"duration"`
	Channels []fileChannels `yaml:"channels"`
}

type file struct {
	Name              string     `yaml:"name"`
	UnitQuatTolerance float32    `yaml:"unit_quat_tolerance"`
	Root              *fileNode  `yaml:"root"`
	Meshes            []fileMesh `yaml:"meshes"`
	Clips             []fileClip `yaml:"clips"`
}

// Load reads a rigfile from path and converts it to a compile request.
func Load(path string) (*compile.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rigfile: %w", err)
	}
	return Parse(data)
}

// Parse converts raw rigfile yaml to a compile request.
func Parse(data []byte) (*compile.Request, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rigfile yaml: %w", err)
	}
	if f.Root == nil {
		return nil, ErrMissingRoot
	}

	root, err := buildNode(f.Root)
	if err != nil {
		return nil, err
	}

	req := &compile.Request{
		Name:              f.Name,
		Root:              root,
		UnitQuatTolerance: f.UnitQuatTolerance,
	}

	for _, m := range f.Meshes {
		skin := scene.MeshSkin{VertexCount: m.VertexCount}
		for _, w := range m.Weights {
			skin.Weights = append(skin.Weights, scene.VertexWeight{
				Bone:   w.Bone,
				Vertex: w.Vertex,
				Weight: w.Weight,
			})
		}
		req.Meshes = append(req.Meshes, skin)
	}

	for _, c := range f.Clips {
		clip := compile.Clip{Name: c.Name, Duration: c.Duration}
		for _, ch := range c.Channels {
			tc := compile.TargetChannels{Node: ch.Node}
			for _, k := range ch.Translations {
				v, err := vec3(k.Value)
				if err != nil {
					return nil, fmt.Errorf("clip %q, node %q: %w", c.Name, ch.Node, err)
				}
				tc.Translations = append(tc.Translations, anim.VectorKey{Time: k.Time, Value: v})
			}
			for _, k := range ch.Rotations {
				q, err := quat(k.Value)
				if err != nil {
					return nil, fmt.Errorf("clip %q, node %q: %w", c.Name, ch.Node, err)
				}
				tc.Rotations = append(tc.Rotations, anim.QuatKey{Time: k.Time, Value: q})
			}
			for _, k := range ch.Scales {
				v, err := vec3(k.Value)
				if err != nil {
					return nil, fmt.Errorf("clip %q, node %q: %w", c.Name, ch.Node, err)
				}
				tc.Scales = append(tc.Scales, anim.VectorKey{Time: k.Time, Value: v})
			}
			clip.Channels = append(clip.Channels, tc)
		}
		req.Clips = append(req.Clips, clip)
	}

	return req, nil
}

func buildNode(f *fileNode) (*scene.Node, error) {
	n := scene.NewNode(f.Name)

	m, err := nodeTransform(f)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", f.Name, err)
	}
	n.Transform = m

	for i := range f.Children {
		c, err := buildNode(&f.Children[i])
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

func nodeTransform(f *fileNode) (mgl32.Mat4, error) {
	if len(f.Matrix) > 0 {
		if len(f.Matrix) != 16 {
			return mgl32.Ident4(), fmt.Errorf("%w: got %d", ErrBadMatrix, len(f.Matrix))
		}
		// Row-major in the file, column-major in memory.
		var m mgl32.Mat4
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				m[col*4+row] = f.Matrix[row*4+col]
			}
		}
		return m, nil
	}

	m := mgl32.Ident4()
	if f.Translation != nil {
		v, err := vec3(f.Translation)
		if err != nil {
			return m, err
		}
		m = mgl32.Translate3D(v.X(), v.Y(), v.Z())
	}
	if f.Rotation != nil {
		q, err := quat(f.Rotation)
		if err != nil {
			return m, err
		}
		m = m.Mul4(q.Mat4())
	}
	if f.Scale != nil {
		v, err := vec3(f.Scale)
		if err != nil {
			return m, err
		}
		m = m.Mul4(mgl32.Scale3D(v.X(), v.Y(), v.Z()))
	}
	return m, nil
}

func vec3(vals []float32) (mgl32.Vec3, error) {
	if len(vals) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("%w: got %d", ErrBadVector, len(vals))
	}
	return mgl32.Vec3{vals[0], vals[1], vals[2]}, nil
}

func quat(vals []float32) (mgl32.Quat, error) {
	if len(vals) != 4 {
		return mgl32.QuatIdent(), fmt.Errorf("%w: got %d", ErrBadQuaternion, len(vals))
	}
	return mgl32.Quat{W: vals[3], V: mgl32.Vec3{vals[0], vals[1], vals[2]}}, nil
}
