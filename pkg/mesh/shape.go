package mesh

import (
	"fmt"
	"math/bits"
)

// Shape holds the padded dimensions of a chunk. Coordinates 0 and dim-1 on
// every axis are padding: they are never emitted, only read as neighbours.
// Cells are linearised x-fastest with strides (1, X, X*Y).
type Shape struct {
	X, Y, Z uint32
}

// NewShape returns a validated shape. Each dimension must be at least 3 so an
// interior exists.
func NewShape(x, y, z uint32) Shape {
	s := Shape{x, y, z}
	s.validate()
	return s
}

func (s Shape) validate() {
	if s.X < 3 || s.Y < 3 || s.Z < 3 {
		panic(fmt.Sprintf("mesh: shape %dx%dx%d has no interior, all dimensions must be >= 3", s.X, s.Y, s.Z))
	}
}

// Size returns the total cell count X*Y*Z.
func (s Shape) Size() int {
	return int(s.X) * int(s.Y) * int(s.Z)
}

// Vec returns the shape as a vector.
func (s Shape) Vec() Vec {
	return Vec{s.X, s.Y, s.Z}
}

// MaxLODs returns the largest admissible LOD class count for this shape:
// floor(log2) of the smallest dimension, capped at 8 so the visited mask
// fits one byte per cell.
func (s Shape) MaxLODs() int {
	min := s.X
	if s.Y < min {
		min = s.Y
	}
	if s.Z < min {
		min = s.Z
	}
	m := bits.Len32(min) - 1
	if m > 8 {
		m = 8
	}
	return m
}

// Linearize converts a position to its linear cell index.
func (s Shape) Linearize(p Vec) uint32 {
	return p[0] + s.X*p[1] + s.X*s.Y*p[2]
}

// Delinearize is the inverse of Linearize.
func (s Shape) Delinearize(index uint32) Vec {
	zStride := s.X * s.Y
	z := index / zStride
	index -= z * zStride
	y := index / s.X
	x := index % s.X
	return Vec{x, y, z}
}

// FaceStrides returns the linear offsets of the +N, +U and +V steps for the
// face. The N stride wraps negative for back faces so a plain wrapping add
// walks toward the neighbour.
func (s Shape) FaceStrides(f Face) FaceStrides {
	return FaceStrides{
		N: s.Linearize(f.SignedNormalVec()),
		U: s.Linearize(f.U),
		V: s.Linearize(f.V),
	}
}

// Localize converts face-local (n, u, v) coordinates to a chunk position.
// For back faces n counts from the far plane so n=0 is the face's own side.
func (s Shape) Localize(f Face, n, u, v uint32) Vec {
	if !f.front {
		n = f.N.Dot(s.Vec()) - n - 1
	}
	return f.N.Scale(n).Add(f.U.Scale(u)).Add(f.V.Scale(v))
}

// InnerIter calls fn for every strictly interior position in natural memory
// order (x fastest).
func (s Shape) InnerIter(fn func(p Vec)) {
	for z := uint32(1); z < s.Z-1; z++ {
		for y := uint32(1); y < s.Y-1; y++ {
			for x := uint32(1); x < s.X-1; x++ {
				fn(Vec{x, y, z})
			}
		}
	}
}

// SliceIter calls fn for every interior position on the n-th plane
// perpendicular to the face normal, U-major then V.
func (s Shape) SliceIter(f Face, n uint32, fn func(p Vec)) {
	maxU := f.U.Dot(s.Vec())
	maxV := f.V.Dot(s.Vec())
	base := f.N.Scale(n)
	for v := uint32(1); v < maxV-1; v++ {
		for u := uint32(1); u < maxU-1; u++ {
			fn(base.Add(f.U.Scale(u)).Add(f.V.Scale(v)))
		}
	}
}

// FaceInnerIter calls fn for every strictly interior position in the order
// natural to the face: U fastest, then V, then N, with N running from the
// face's own side inward. Each plane is swept along the face's U axis, which
// is stride-1 in memory only for the Z faces (U = X).
func (s Shape) FaceInnerIter(f Face, fn func(p Vec)) {
	maxN := f.N.Dot(s.Vec())
	if f.front {
		for n := maxN - 2; n >= 1; n-- {
			s.SliceIter(f, n, fn)
		}
	} else {
		for n := uint32(1); n < maxN-1; n++ {
			s.SliceIter(f, n, fn)
		}
	}
}
