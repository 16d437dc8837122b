// Package compile runs the full asset conversion pipeline: it walks the
// imported scene tree once to mark bone-bearing nodes, builds the armature,
// streams vertex weights into bounded influence buffers, and merges each
// animated target's channels into a synchronized track.
package compile

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rigkit/internal/logger"
	"github.com/Faultbox/rigkit/pkg/anim"
	"github.com/Faultbox/rigkit/pkg/rig"
	"github.com/Faultbox/rigkit/pkg/scene"
)

// ErrNilRoot is returned when a request carries no scene hierarchy.
var ErrNilRoot = errors.New("nil scene root")

// TargetChannels carries the raw keyframes of one animated node, grouped by
// channel type. Times are seconds, already converted by the importer.
type TargetChannels struct {
	Node         string
	Translations []anim.VectorKey
	Rotations    []anim.QuatKey
	Scales       []anim.VectorKey
}

// Clip is one named animation as supplied by the importer.
type Clip struct {
	Name     string
	Duration float32
	Channels []TargetChannels
}

// Request aggregates everything the importer hands over for one asset.
type Request struct {
	Name   string
	Root   *scene.Node
	Meshes []scene.MeshSkin
	Clips  []Clip

	// UnitQuatTolerance overrides the rotation keyframe unit-length
	// tolerance when positive.
	UnitQuatTolerance float32
}

// CompiledClip is one animation after channel merging.
type CompiledClip struct {
	Name     string
	Duration float32
	Tracks   []*anim.Track
}

// Model is the immutable, renderer-ready result of a conversion.
type Model struct {
	Name     string
	Armature *rig.Armature
	Skins    []*rig.Skin
	Clips    []CompiledClip
}

// Compile converts one asset. Any error aborts the whole conversion; no
// partial model is ever returned.
func Compile(req *Request) (*Model, error) {
	if req.Root == nil {
		return nil, ErrNilRoot
	}

	b := rig.NewBuilder()

	// Pre-pass: record which node names carry weights, and pin their dense
	// ids in weight-stream order so the influence buffers and the armature
	// agree on numbering.
	for mi := range req.Meshes {
		for _, w := range req.Meshes[mi].Weights {
			b.MarkBoneBearing(w.Bone)
			b.JointID(w.Bone)
		}
	}

	if rootBone := b.FindRootBone(req.Root); rootBone != nil {
		logger.Debug("bone root located",
			zap.String("asset", req.Name),
			zap.String("node", rootBone.Name))
		if err := b.AddJointSubtree(rootBone); err != nil {
			return nil, fmt.Errorf("building joint hierarchy: %w", err)
		}
	}

	skins := make([]*rig.Skin, 0, len(req.Meshes))
	for mi := range req.Meshes {
		mesh := &req.Meshes[mi]
		sb, err := rig.NewSkinBuffer(mesh.VertexCount)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", mi, err)
		}
		for _, w := range mesh.Weights {
			if err := sb.Add(w.Vertex, int32(b.JointID(w.Bone)), w.Weight); err != nil {
				return nil, fmt.Errorf("mesh %d: %w", mi, err)
			}
		}
		skin, err := sb.Build()
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", mi, err)
		}
		skins = append(skins, skin)
	}

	armature, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("finalizing armature: %w", err)
	}

	clips, err := mergeClips(req, armature)
	if err != nil {
		return nil, err
	}

	logger.Info("asset compiled",
		zap.String("asset", req.Name),
		zap.Int("joints", armature.Len()),
		zap.Int("meshes", len(skins)),
		zap.Int("clips", len(clips)))

	return &Model{
		Name:     req.Name,
		Armature: armature,
		Skins:    skins,
		Clips:    clips,
	}, nil
}

// mergeClips resolves every channel's animation target once, then merges
// the channels into tracks.
func mergeClips(req *Request, armature *rig.Armature) ([]CompiledClip, error) {
	// Non-joint targets are addressed by depth-first node index.
	nodeIndex := make(map[string]int)
	next := 0
	req.Root.Walk(func(n *scene.Node) {
		if _, seen := nodeIndex[n.Name]; !seen {
			nodeIndex[n.Name] = next
		}
		next++
	})

	clips := make([]CompiledClip, 0, len(req.Clips))
	for _, c := range req.Clips {
		tracks := make([]*anim.Track, 0, len(c.Channels))
		for _, ch := range c.Channels {
			var target anim.Target
			if j, ok := armature.JointByName(ch.Node); ok {
				target = anim.JointTarget(j.ID)
			} else if ni, ok := nodeIndex[ch.Node]; ok {
				target = anim.NodeTarget(ni)
			} else {
				logger.Warn("animation channel references unknown node",
					zap.String("clip", c.Name),
					zap.String("node", ch.Node))
				continue
			}

			m := anim.NewMerger(target, c.Duration)
			if req.UnitQuatTolerance > 0 {
				m.UnitTolerance = req.UnitQuatTolerance
			}

			for _, k := range ch.Translations {
				if err := m.AddTranslation(k.Time, k.Value); err != nil {
					return nil, fmt.Errorf("clip %q, node %q: %w", c.Name, ch.Node, err)
				}
			}
			for _, k := range ch.Rotations {
				if err := m.AddRotation(k.Time, k.Value); err != nil {
					return nil, fmt.Errorf("clip %q, node %q: %w", c.Name, ch.Node, err)
				}
			}
			for _, k := range ch.Scales {
				if err := m.AddScale(k.Time, k.Value); err != nil {
					return nil, fmt.Errorf("clip %q, node %q: %w", c.Name, ch.Node, err)
				}
			}

			track, err := m.Build()
			if err != nil {
				return nil, fmt.Errorf("clip %q, node %q: %w", c.Name, ch.Node, err)
			}
			tracks = append(tracks, track)
		}
		clips = append(clips, CompiledClip{Name: c.Name, Duration: c.Duration, Tracks: tracks})
	}
	return clips, nil
}
