package render

import (
	"blockpop/internal/profiling"
	"blockpop/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of float32 per vertex: position (3),
// normal (3), color (3).
const VertexStride = 9

// MeshData is a CPU-side triangle mesh ready for upload. Vertices are
// interleaved position/normal/color; Indices reference four vertices per
// quad, six indices per quad. BuildPopMesh lays quads out class by class,
// coarsest-capable first, so any bucket prefix of Indices is drawable on its
// own; BuildQuadsMesh keeps the flat buffer's face order.
type MeshData struct {
	Vertices []float32
	Indices  []uint32
}

// NumQuads returns how many quads the mesh holds.
func (m *MeshData) NumQuads() int {
	return len(m.Indices) / 6
}

// BuildPopMesh assembles the vertex stream for a POP buffer, quads ordered
// by LOD class from coarsest-capable down. That global order is what makes
// the Buckets() contract hold: the index prefix [0, 6*bucket[level]) is the
// complete mesh at the level. colorFor supplies the per-quad color,
// typically from the block registry of the voxel at the quad's minimum
// corner.
func BuildPopMesh[Q mesh.QuadLike](buf *mesh.PopBuffer[Q], voxelSize float32, colorFor func(face mesh.Face, q mesh.Quad) [3]float32) *MeshData {
	defer profiling.Track("render.BuildPopMesh")()

	numQuads := buf.NumQuads()
	out := &MeshData{
		Vertices: make([]float32, 0, numQuads*4*VertexStride),
		Indices:  make([]uint32, 0, numQuads*6),
	}

	for class := buf.MaxLODs() - 1; class >= 0; class-- {
		buf.IterQuadsClass(class, func(face mesh.Face, quad Q) {
			out.appendQuad(face, quad.AsQuad(), 0, voxelSize, colorFor)
		})
	}
	return out
}

// BuildQuadsMesh assembles the vertex stream for an extracted (flat) quads
// buffer at the given LOD; corners are pushed out along N by the inflated
// cell size.
func BuildQuadsMesh[Q mesh.QuadLike](buf *mesh.QuadsBuffer[Q], lod int, voxelSize float32, colorFor func(face mesh.Face, q mesh.Quad) [3]float32) *MeshData {
	defer profiling.Track("render.BuildQuadsMesh")()

	numQuads := buf.NumQuads()
	out := &MeshData{
		Vertices: make([]float32, 0, numQuads*4*VertexStride),
		Indices:  make([]uint32, 0, numQuads*6),
	}

	buf.IterQuads(func(face mesh.Face, quad Q) {
		out.appendQuad(face, quad.AsQuad(), lod, voxelSize, colorFor)
	})
	return out
}

func (m *MeshData) appendQuad(face mesh.Face, quad mesh.Quad, lod int, voxelSize float32, colorFor func(face mesh.Face, q mesh.Quad) [3]float32) {
	start := uint32(len(m.Vertices) / VertexStride)

	positions := face.Positions(quad, lod, voxelSize)
	normals := face.Normals()
	color := colorFor(face, quad)

	for i := range positions {
		m.Vertices = appendVertex(m.Vertices, positions[i], normals[i], color)
	}
	indices := face.Indices(start)
	m.Indices = append(m.Indices, indices[:]...)
}

func appendVertex(dst []float32, pos, normal mgl32.Vec3, color [3]float32) []float32 {
	dst = append(dst, pos.X(), pos.Y(), pos.Z())
	dst = append(dst, normal.X(), normal.Y(), normal.Z())
	return append(dst, color[0], color[1], color[2])
}
