package mesh

import "fmt"

// popGroup is one face group of a PopBuffer. quads is kept partitioned so
// that quads[0:cursors[L]] is exactly the set of quads with LOD class >= L;
// the head of the slice holds the quads that survive the coarsest level.
type popGroup[Q QuadLike] struct {
	quads   []Q
	cursors []uint32
}

// PopBuffer partitions quads by face group (6) and LOD class (M). For every
// face group and class L, the group's prefix of length cursors[L] is the
// complete mesh at granularity L. Created once and reused across meshing
// calls; Reset clears contents without freeing backing storage.
type PopBuffer[Q QuadLike] struct {
	m      int
	groups [6]popGroup[Q]
}

// NewPopBuffer returns a buffer with m LOD classes. m must be in [1, 8];
// the meshers additionally require m <= log2 of every chunk dimension.
func NewPopBuffer[Q QuadLike](m int) *PopBuffer[Q] {
	if m < 1 || m > 8 {
		panic(fmt.Sprintf("mesh: LOD class count %d outside [1, 8]", m))
	}
	b := &PopBuffer[Q]{m: m}
	for f := range b.groups {
		b.groups[f].cursors = make([]uint32, m)
	}
	return b
}

// MaxLODs returns the number of LOD classes M.
func (b *PopBuffer[Q]) MaxLODs() int { return b.m }

// Reset clears all face groups and cursors, keeping capacity.
func (b *PopBuffer[Q]) Reset() {
	for f := range b.groups {
		g := &b.groups[f]
		g.quads = g.quads[:0]
		for i := range g.cursors {
			g.cursors[i] = 0
		}
	}
}

// AddQuad appends quad to the given face group at the given LOD class,
// swapping it toward the head so the per-class prefix invariant holds.
// lod must be in [0, M).
func (b *PopBuffer[Q]) AddQuad(face int, quad Q, lod int) {
	g := &b.groups[face]
	g.quads = append(g.quads, quad)

	for i := 0; i < lod; i++ {
		g.quads[g.cursors[i]], g.quads[g.cursors[i+1]] = g.quads[g.cursors[i+1]], g.quads[g.cursors[i]]
	}
	for i := 0; i <= lod; i++ {
		g.cursors[i]++
	}
}

// NumQuads returns the total quad count across all face groups.
func (b *PopBuffer[Q]) NumQuads() int {
	n := 0
	for f := range b.groups {
		n += len(b.groups[f].quads)
	}
	return n
}

// NumQuadsLOD returns the number of quads of LOD class >= lod across all
// face groups.
func (b *PopBuffer[Q]) NumQuadsLOD(lod int) int {
	n := 0
	for f := range b.groups {
		n += int(b.groups[f].cursors[lod])
	}
	return n
}

// Buckets returns the cumulative draw counts consumed GPU-side. bucket[i] is
// the number of quads drawable at draw level i, level 0 being the coarsest;
// entries at i >= M-1 all equal the total. A consumer selects the continuous
// index-buffer prefix [0, 6*bucket[floor(lod)]) at draw time.
func (b *PopBuffer[Q]) Buckets() [8]uint32 {
	var buckets [8]uint32
	for i := 0; i < 8; i++ {
		class := b.m - 1 - i
		if class < 0 {
			class = 0
		}
		for f := range b.groups {
			buckets[i] += b.groups[f].cursors[class]
		}
	}
	return buckets
}

// IterQuads calls fn for every (face, quad) pair in native face-then-class
// order: face groups in Faces order, each group head (coarse-capable) first.
func (b *PopBuffer[Q]) IterQuads(fn func(face Face, quad Q)) {
	for f := range b.groups {
		for _, q := range b.groups[f].quads {
			fn(Faces[f], q)
		}
	}
}

// IterQuadsLOD calls fn for every (face, quad) pair of LOD class >= lod.
func (b *PopBuffer[Q]) IterQuadsLOD(lod int, fn func(face Face, quad Q)) {
	for f := range b.groups {
		g := &b.groups[f]
		for _, q := range g.quads[:g.cursors[lod]] {
			fn(Faces[f], q)
		}
	}
}

// IterQuadsClass calls fn for every (face, quad) pair of exactly the given
// LOD class, face groups in Faces order. Walking classes from M-1 down to 0
// visits every quad once, coarse-capable first; an index buffer assembled in
// that order makes the Buckets() prefix contract hold globally.
func (b *PopBuffer[Q]) IterQuadsClass(class int, fn func(face Face, quad Q)) {
	for f := range b.groups {
		g := &b.groups[f]
		hi := g.cursors[class]
		lo := uint32(0)
		if class+1 < b.m {
			lo = g.cursors[class+1]
		}
		for _, q := range g.quads[lo:hi] {
			fn(Faces[f], q)
		}
	}
}

// QuadsBuffer is the flat output container for LOD extraction: one slice of
// quads per face group, no class partitioning.
type QuadsBuffer[Q QuadLike] struct {
	groups [6][]Q
}

// Reset clears all groups, keeping capacity.
func (b *QuadsBuffer[Q]) Reset() {
	for f := range b.groups {
		b.groups[f] = b.groups[f][:0]
	}
}

// NumQuads returns the total quad count.
func (b *QuadsBuffer[Q]) NumQuads() int {
	n := 0
	for f := range b.groups {
		n += len(b.groups[f])
	}
	return n
}

// Group returns the quads of one face group.
func (b *QuadsBuffer[Q]) Group(face int) []Q {
	return b.groups[face]
}

// IterQuads calls fn for every (face, quad) pair in face order.
func (b *QuadsBuffer[Q]) IterQuads(fn func(face Face, quad Q)) {
	for f := range b.groups {
		for _, q := range b.groups[f] {
			fn(Faces[f], q)
		}
	}
}

// VisitedBuffer is the per-cell scratch bitmask shared by both meshers: one
// byte per chunk cell, bit L meaning "a quad of LOD class L already covers
// this cell's tile". The greedy mesher uses bit 0 only, as plain coverage.
type VisitedBuffer struct {
	bits []uint8
}

// NewVisitedBuffer returns a visited buffer for size cells.
func NewVisitedBuffer(size int) *VisitedBuffer {
	return &VisitedBuffer{bits: make([]uint8, size)}
}

// Len returns the cell count.
func (v *VisitedBuffer) Len() int { return len(v.bits) }

// Reset zeroes every cell.
func (v *VisitedBuffer) Reset() {
	for i := range v.bits {
		v.bits[i] = 0
	}
}
