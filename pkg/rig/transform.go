package rig

import "github.com/go-gl/mathgl/mgl32"

// Transform is a translation/rotation/scale decomposition of a local matrix.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Decompose splits a column-major TRS matrix into its components.
// A negative determinant is folded into the X scale so the remaining
// basis is a proper rotation.
func Decompose(m mgl32.Mat4) Transform {
	var t Transform

	t.Translation = m.Col(3).Vec3()

	bx := m.Col(0).Vec3()
	by := m.Col(1).Vec3()
	bz := m.Col(2).Vec3()

	sx := bx.Len()
	sy := by.Len()
	sz := bz.Len()
	if m.Det() < 0 {
		sx = -sx
	}
	t.Scale = mgl32.Vec3{sx, sy, sz}

	// Strip scale from the basis before extracting the rotation.
	rot := mgl32.Ident4()
	if sx != 0 {
		rot.SetCol(0, bx.Mul(1/sx).Vec4(0))
	}
	if sy != 0 {
		rot.SetCol(1, by.Mul(1/sy).Vec4(0))
	}
	if sz != 0 {
		rot.SetCol(2, bz.Mul(1/sz).Vec4(0))
	}
	t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()

	return t
}

// Mat4 recomposes the transform into a column-major matrix.
func (t Transform) Mat4() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
