package mesh

import (
	"fmt"

	"blockpop/internal/profiling"
	"blockpop/pkg/voxel"
)

// faceExposed is the exposure rule shared by both meshers: a face is drawn
// iff the neighbour on its outside does not fully occlude it.
func faceExposed(v, neighbour voxel.Visibility) bool {
	switch neighbour {
	case voxel.Empty:
		return true
	case voxel.Translucent:
		return v == voxel.Opaque
	default:
		return false
	}
}

func checkScratch(s Shape, m int, voxelsLen, visitedLen int) {
	s.validate()
	if voxelsLen != s.Size() {
		panic(fmt.Sprintf("mesh: voxel slice has %d cells, shape wants %d", voxelsLen, s.Size()))
	}
	if visitedLen != s.Size() {
		panic(fmt.Sprintf("mesh: visited buffer has %d cells, shape wants %d", visitedLen, s.Size()))
	}
	if m > s.MaxLODs() {
		panic(fmt.Sprintf("mesh: %d LOD classes oversubscribe shape %dx%dx%d (max %d)", m, s.X, s.Y, s.Z, s.MaxLODs()))
	}
}

// VisibleFacesQuads emits one unit quad for every exposed face of every
// non-empty interior voxel, classified into POP buckets. voxels and visited
// must hold exactly shape.Size() cells; the buffer's LOD class count must
// not exceed shape.MaxLODs(). The caller owns both scratch buffers for the
// duration of the call; out is reset here, visited is zeroed once up front
// and shared by all six face sweeps so later faces downgrade against
// earlier marks.
func VisibleFacesQuads[V voxel.MeshVoxel](shape Shape, voxels []V, visited *VisitedBuffer, out *PopBuffer[UnitQuad]) {
	defer profiling.Track("mesh.VisibleFacesQuads")()

	m := out.MaxLODs()
	checkScratch(shape, m, len(voxels), visited.Len())

	out.Reset()
	visited.Reset()

	for faceIndex, face := range Faces {
		stride := shape.FaceStrides(face).N

		shape.FaceInnerIter(face, func(p Vec) {
			index := shape.Linearize(p)
			vis := voxels[index].Visibility()
			if vis == voxel.Empty {
				return
			}

			neighbour := voxels[index+stride].Visibility()
			if !faceExposed(vis, neighbour) {
				return
			}

			quad := UnitQuad{Minimum: p}
			lod := maxLODUnit(shape, m, visited, p)
			out.AddQuad(faceIndex, quad, lod)
		})
	}
}

// maxLODUnit walks L = M-1 .. 0 and test-and-sets bit L of the visited byte
// at the representative cell of the LOD-L tile containing p. The highest
// newly set level is the quad's class. Unit quads never partially overlap
// under inflation, so marking one representative per tile is enough:
// inflations coincide exactly when the biased shifted minima coincide.
func maxLODUnit(s Shape, m int, visited *VisitedBuffer, p Vec) int {
	lod := 0
	for l := m - 1; l >= 0; l-- {
		rep := tileMinimum(p, l)
		bit := uint8(1) << uint(l)
		i := s.Linearize(rep)
		if visited.bits[i]&bit == 0 {
			visited.bits[i] |= bit
			if l > lod {
				lod = l
			}
		}
	}
	return lod
}

// tileMinimum returns the minimum interior cell of the 2^lod tile containing
// p. The -1/+1 bias anchors tiles at the interior origin, preserving the
// 1-cell padding convention.
func tileMinimum(p Vec, lod int) Vec {
	sh := uint(lod)
	return Vec{
		(p[0]-1)>>sh<<sh + 1,
		(p[1]-1)>>sh<<sh + 1,
		(p[2]-1)>>sh<<sh + 1,
	}
}

// ExtractLOD copies every unit quad of LOD class >= lod into out, inflated
// to the regular quad covering its interior-anchored 2^lod tile.
func ExtractLOD(pop *PopBuffer[UnitQuad], out *QuadsBuffer[RegularQuad], lod int) {
	if lod < 0 || lod >= pop.MaxLODs() {
		panic(fmt.Sprintf("mesh: extract LOD %d outside [0, %d)", lod, pop.MaxLODs()))
	}
	for f := range pop.groups {
		g := &pop.groups[f]
		for _, q := range g.quads[:g.cursors[lod]] {
			out.groups[f] = append(out.groups[f], RegularQuad{
				Minimum: tileMinimum(q.Minimum, lod),
				Size:    1 << uint(lod),
			})
		}
	}
}
