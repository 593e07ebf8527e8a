package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Face is one of the six oriented block faces: an axis times a sign, plus the
// two in-plane basis vectors U and V. A quad carries no orientation of its
// own; the face group it is stored under supplies it.
type Face struct {
	front bool
	even  bool

	// Sign is +1 for front (positive-axis) faces and -1 for back faces.
	Sign int32
	// SignedN is the outward normal including the sign.
	SignedN [3]int32
	// N, U, V are the unsigned normal and in-plane basis vectors.
	N, U, V Vec
}

// Faces enumerates the six oriented faces. The order is fixed: the three back
// faces (-X, -Y, -Z) then the three front faces (+X, +Y, +Z); face-group
// indices into a PopBuffer use this order.
var Faces = [6]Face{
	newFace(false, permXZY),
	newFace(false, permYZX),
	newFace(false, permZXY),
	newFace(true, permXZY),
	newFace(true, permYZX),
	newFace(true, permZXY),
}

func newFace(front bool, p permutation) Face {
	axes := p.axes()
	sign := int32(-1)
	if front {
		sign = 1
	}
	return Face{
		front:   front,
		even:    p.even(),
		Sign:    sign,
		SignedN: axes[0].Signed(front),
		N:       axes[0].Unit(),
		U:       axes[1].Unit(),
		V:       axes[2].Unit(),
	}
}

// IsFront reports whether the face points along the positive direction of its
// axis.
func (f Face) IsFront() bool { return f.front }

// SignedNormalVec returns the outward normal reinterpreted as a wrapping
// unsigned vector, suitable for building linear strides.
func (f Face) SignedNormalVec() Vec {
	return Vec{uint32(f.SignedN[0]), uint32(f.SignedN[1]), uint32(f.SignedN[2])}
}

// Indices returns the six triangle indices of a quad whose four corners start
// at index start. Winding is counter-clockwise when the face sign and the
// parity of its axis permutation agree, so normals always point outward.
func (f Face) Indices(start uint32) [6]uint32 {
	if f.front == f.even {
		return [6]uint32{start, start + 1, start + 2, start + 1, start + 3, start + 2}
	}
	return [6]uint32{start, start + 2, start + 1, start + 1, start + 2, start + 3}
}

// Corners returns the four corner positions of a quad drawn at the given LOD,
// in (minU minV, maxU minV, minU maxV, maxU maxV) order. Back faces sit at
// the back plane of the cell, so only front faces are pushed out along N.
func (f Face) Corners(quad Quad, lod int) [4]Vec {
	wVec := f.U.Scale(quad.Width)
	hVec := f.V.Scale(quad.Height)

	min := quad.Minimum
	if f.front {
		min = min.Add(f.N.Scale(1 << uint(lod)))
	}

	return [4]Vec{
		min,
		min.Add(wVec),
		min.Add(hVec),
		min.Add(wVec).Add(hVec),
	}
}

// Positions returns the quad corners as float positions scaled by voxelSize.
func (f Face) Positions(quad Quad, lod int, voxelSize float32) [4]mgl32.Vec3 {
	corners := f.Corners(quad, lod)
	var out [4]mgl32.Vec3
	for i, c := range corners {
		out[i] = mgl32.Vec3{
			voxelSize * float32(c[0]),
			voxelSize * float32(c[1]),
			voxelSize * float32(c[2]),
		}
	}
	return out
}

// Normals returns the per-vertex normal, identical for all four corners.
func (f Face) Normals() [4]mgl32.Vec3 {
	n := mgl32.Vec3{float32(f.SignedN[0]), float32(f.SignedN[1]), float32(f.SignedN[2])}
	return [4]mgl32.Vec3{n, n, n, n}
}

// FaceStrides holds the signed linear offsets of the +N, +U and +V unit steps
// for one face under a given chunk shape. N wraps negative for back faces.
type FaceStrides struct {
	N, U, V uint32
}
