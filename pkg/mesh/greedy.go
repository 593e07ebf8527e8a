package mesh

import (
	"fmt"
	"math/bits"

	"blockpop/internal/profiling"
	"blockpop/pkg/voxel"
)

// GreedyQuads merges co-planar equivalent exposed faces into maximal
// rectangles, classified into POP buckets. Two faces fuse only when both are
// exposed, the owning voxels share MergeValue, and the occluding neighbours
// share MergeValueFacingNeighbour. Rectangles grow along U first, then V.
// The visited buffer is zeroed per face; bit 0 marks cells already covered
// by a rectangle of the current face.
func GreedyQuads[T, F comparable, V voxel.MergeVoxel[T, F]](shape Shape, voxels []V, visited *VisitedBuffer, out *PopBuffer[Quad]) {
	defer profiling.Track("mesh.GreedyQuads")()

	m := out.MaxLODs()
	checkScratch(shape, m, len(voxels), visited.Len())

	out.Reset()

	interior := shape.Vec().Sub(Vec{2, 2, 2})

	for faceIndex, face := range Faces {
		visited.Reset()

		nMax := face.N.Dot(interior) + 1
		uMax := face.U.Dot(interior) + 1
		vMax := face.V.Dot(interior) + 1
		strides := shape.FaceStrides(face)
		nStride := strides.N

		for n := uint32(1); n < nMax; n++ {
			shape.SliceIter(face, n, func(p Vec) {
				index := shape.Linearize(p)
				neighbourIndex := index + nStride

				if !greedyFaceExposed(voxels[index], voxels[neighbourIndex], visited, index) {
					return
				}

				maxWidth := uMax - face.U.Dot(p)
				maxHeight := vMax - face.V.Dot(p)

				mergeValue := voxels[index].MergeValue()
				mergeNeighbour := voxels[neighbourIndex].MergeValueFacingNeighbour()

				width := maxRunWidth(voxels, visited, mergeValue, mergeNeighbour, index, nStride, strides.U, maxWidth)
				height := maxRunHeight(voxels, visited, mergeValue, mergeNeighbour, index+strides.V, nStride, strides.U, strides.V, width, maxHeight)

				quad := Quad{Minimum: p, Width: width, Height: height}
				markVisited(shape, visited, quad, face)

				out.AddQuad(faceIndex, quad, maxLODGreedy(quad, face, m))
			})
		}
	}
}

// greedyFaceExposed is the per-cell gate of the greedy sweep: non-empty,
// not already covered, and exposed against its occluder.
func greedyFaceExposed[V voxel.MeshVoxel](v, neighbour V, visited *VisitedBuffer, index uint32) bool {
	vis := v.Visibility()
	return vis != voxel.Empty &&
		visited.bits[index]&1 == 0 &&
		faceExposed(vis, neighbour.Visibility())
}

// maxRunWidth extends a row along U while the face stays exposed, unvisited
// and merge-equivalent, up to maxWidth.
func maxRunWidth[T, F comparable, V voxel.MergeVoxel[T, F]](
	voxels []V, visited *VisitedBuffer,
	mergeValue T, mergeNeighbour F,
	index, nStride, uStride, maxWidth uint32,
) uint32 {
	for width := uint32(0); width < maxWidth; width++ {
		v := voxels[index]
		neighbour := voxels[index+nStride]

		if !greedyFaceExposed(v, neighbour, visited, index) ||
			v.MergeValue() != mergeValue ||
			neighbour.MergeValueFacingNeighbour() != mergeNeighbour {
			return width
		}

		index += uStride
	}
	return maxWidth
}

// maxRunHeight stacks rows along V as long as each next row sustains the
// full width.
func maxRunHeight[T, F comparable, V voxel.MergeVoxel[T, F]](
	voxels []V, visited *VisitedBuffer,
	mergeValue T, mergeNeighbour F,
	index, nStride, uStride, vStride, width, maxHeight uint32,
) uint32 {
	for height := uint32(1); height < maxHeight; height++ {
		rowWidth := maxRunWidth(voxels, visited, mergeValue, mergeNeighbour, index, nStride, uStride, width)
		if rowWidth < width {
			return height
		}
		index += vStride
	}
	return maxHeight
}

func markVisited(s Shape, visited *VisitedBuffer, quad Quad, face Face) {
	for j := uint32(0); j < quad.Height; j++ {
		for i := uint32(0); i < quad.Width; i++ {
			p := quad.Minimum.Add(face.U.Scale(i)).Add(face.V.Scale(j))
			visited.bits[s.Linearize(p)] |= 1
		}
	}
}

// maxLODGreedy derives a rectangle's class from the xor of each extent's
// endpoints (minimum and minimum plus width or height): the class is the bit
// length of that xor on U or on V, whichever is smaller, capped at m-1.
func maxLODGreedy(quad Quad, face Face, m int) int {
	uPos := quad.Minimum.Dot(face.U)
	vPos := quad.Minimum.Dot(face.V)
	uMax := uPos + quad.Width
	vMax := vPos + quad.Height

	clz := bits.LeadingZeros32(uPos ^ uMax)
	if c := bits.LeadingZeros32(vPos ^ vMax); c > clz {
		clz = c
	}

	lod := 32 - clz
	if lod > m-1 {
		lod = m - 1
	}
	return lod
}

// ExtractGreedyLOD copies every rectangle of LOD class >= lod into out,
// rounded outward to the 2^lod grid (minimum down, maximum up).
func ExtractGreedyLOD(pop *PopBuffer[Quad], out *QuadsBuffer[Quad], lod int) {
	if lod < 0 || lod >= pop.MaxLODs() {
		panic(fmt.Sprintf("mesh: extract LOD %d outside [0, %d)", lod, pop.MaxLODs()))
	}
	sh := uint(lod)
	round := uint32(1)<<sh - 1
	for f := range pop.groups {
		face := Faces[f]
		g := &pop.groups[f]
		for _, q := range g.quads[:g.cursors[lod]] {
			max := q.Minimum.Add(face.U.Scale(q.Width)).Add(face.V.Scale(q.Height))

			newMin := Vec{q.Minimum[0] >> sh << sh, q.Minimum[1] >> sh << sh, q.Minimum[2] >> sh << sh}
			newMax := Vec{(max[0] + round) >> sh << sh, (max[1] + round) >> sh << sh, (max[2] + round) >> sh << sh}
			size := newMax.Sub(newMin)

			out.groups[f] = append(out.groups[f], Quad{
				Minimum: newMin,
				Width:   size.Dot(face.U),
				Height:  size.Dot(face.V),
			})
		}
	}
}
