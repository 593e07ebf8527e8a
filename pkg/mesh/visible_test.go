package mesh

import (
	"reflect"
	"testing"

	"blockpop/pkg/voxel"
)

// chunk builds a padded voxel slice with the given cells set; everything
// else is air.
func chunk(s Shape, cells map[Vec]voxel.Block) []voxel.Block {
	voxels := make([]voxel.Block, s.Size())
	for p, b := range cells {
		voxels[s.Linearize(p)] = b
	}
	return voxels
}

// solidInterior fills every strictly interior cell with b.
func solidInterior(s Shape, b voxel.Block) []voxel.Block {
	voxels := make([]voxel.Block, s.Size())
	s.InnerIter(func(p Vec) {
		voxels[s.Linearize(p)] = b
	})
	return voxels
}

func meshVisible(t *testing.T, s Shape, m int, voxels []voxel.Block) *PopBuffer[UnitQuad] {
	t.Helper()
	pop := NewPopBuffer[UnitQuad](m)
	visited := NewVisitedBuffer(s.Size())
	VisibleFacesQuads(s, voxels, visited, pop)
	return pop
}

func TestVisibleFacesEmptyChunk(t *testing.T) {
	s := NewShape(8, 8, 8)
	pop := meshVisible(t, s, 3, make([]voxel.Block, s.Size()))
	if pop.NumQuads() != 0 {
		t.Fatalf("empty chunk produced %d quads", pop.NumQuads())
	}
	if pop.Buckets() != ([8]uint32{}) {
		t.Fatalf("empty chunk buckets = %v", pop.Buckets())
	}
}

func TestVisibleFacesSingleVoxel(t *testing.T) {
	s := NewShape(3, 3, 3)
	pop := meshVisible(t, s, 1, chunk(s, map[Vec]voxel.Block{{1, 1, 1}: voxel.BlockStone}))

	if pop.NumQuads() != 6 {
		t.Fatalf("single voxel produced %d quads, want 6", pop.NumQuads())
	}
	for f := range Faces {
		if n := len(pop.groups[f].quads); n != 1 {
			t.Fatalf("face %d has %d quads, want 1", f, n)
		}
	}
	pop.IterQuads(func(_ Face, q UnitQuad) {
		if q.Minimum != (Vec{1, 1, 1}) {
			t.Fatalf("quad at %v, want (1,1,1)", q.Minimum)
		}
	})
}

func TestVisibleFacesTwoAdjacentVoxels(t *testing.T) {
	s := NewShape(4, 3, 3)
	pop := meshVisible(t, s, 1, chunk(s, map[Vec]voxel.Block{
		{1, 1, 1}: voxel.BlockStone,
		{2, 1, 1}: voxel.BlockStone,
	}))
	// Two cells, six faces each, minus the two occluded at the shared wall.
	if pop.NumQuads() != 10 {
		t.Fatalf("two adjacent voxels produced %d quads, want 10", pop.NumQuads())
	}
}

func TestVisibleFacesSolidCount(t *testing.T) {
	s := NewShape(8, 7, 6)
	pop := meshVisible(t, s, 2, solidInterior(s, voxel.BlockStone))

	x, y, z := int(s.X-2), int(s.Y-2), int(s.Z-2)
	want := 2 * (x*y + y*z + z*x)
	if pop.NumQuads() != want {
		t.Fatalf("solid chunk produced %d quads, want %d", pop.NumQuads(), want)
	}
}

func TestVisibleFacesExposureTable(t *testing.T) {
	cases := []struct {
		v, n voxel.Block
		want int
	}{
		{voxel.BlockWater, voxel.BlockAir, 6},
		{voxel.BlockWater, voxel.BlockWater, 0},
		{voxel.BlockWater, voxel.BlockStone, 0},
		{voxel.BlockStone, voxel.BlockAir, 6},
		{voxel.BlockStone, voxel.BlockWater, 6},
		{voxel.BlockStone, voxel.BlockStone, 0},
		{voxel.BlockAir, voxel.BlockAir, 0},
		{voxel.BlockAir, voxel.BlockWater, 0},
		{voxel.BlockAir, voxel.BlockStone, 0},
	}

	s := NewShape(3, 3, 3)
	for _, c := range cases {
		voxels := make([]voxel.Block, s.Size())
		for i := range voxels {
			voxels[i] = c.n
		}
		voxels[s.Linearize(Vec{1, 1, 1})] = c.v

		pop := meshVisible(t, s, 1, voxels)
		if pop.NumQuads() != c.want {
			t.Fatalf("v=%v n=%v emitted %d quads, want %d", c.v.Visibility(), c.n.Visibility(), pop.NumQuads(), c.want)
		}
	}
}

func TestVisibleFacesPaddingClassInvariance(t *testing.T) {
	// Two paddings of the same visibility class must mesh identically.
	s := NewShape(3, 3, 3)

	run := func(padding voxel.Block) ([8]uint32, []UnitQuad) {
		voxels := make([]voxel.Block, s.Size())
		for i := range voxels {
			voxels[i] = padding
		}
		voxels[s.Linearize(Vec{1, 1, 1})] = voxel.BlockStone
		pop := meshVisible(t, s, 1, voxels)
		var quads []UnitQuad
		pop.IterQuads(func(_ Face, q UnitQuad) { quads = append(quads, q) })
		return pop.Buckets(), quads
	}

	bWater, qWater := run(voxel.BlockWater)
	bGlass, qGlass := run(voxel.BlockGlass)
	if bWater != bGlass || !reflect.DeepEqual(qWater, qGlass) {
		t.Fatalf("translucent paddings diverge: %v/%v vs %v/%v", bWater, qWater, bGlass, qGlass)
	}
}

func TestVisibleFacesBucketLadder(t *testing.T) {
	s := NewShape(8, 8, 8)
	pop := meshVisible(t, s, 3, solidInterior(s, voxel.BlockStone))

	buckets := pop.Buckets()
	if !(buckets[0] < buckets[1] && buckets[1] < buckets[2]) {
		t.Fatalf("bucket ladder not strict: %v", buckets)
	}
	if buckets[2] != 216 {
		t.Fatalf("bucket[2] = %d, want the full 216 visible faces", buckets[2])
	}
	for i := 3; i < 8; i++ {
		if buckets[i] != buckets[2] {
			t.Fatalf("bucket[%d] = %d, want padded %d", i, buckets[i], buckets[2])
		}
	}
}

func TestVisibleFacesDeterminism(t *testing.T) {
	s := NewShape(10, 10, 10)
	voxels := sphereChunk(s, 3.5)

	collect := func(pop *PopBuffer[UnitQuad]) []UnitQuad {
		var out []UnitQuad
		pop.IterQuads(func(_ Face, q UnitQuad) { out = append(out, q) })
		return out
	}

	pop := NewPopBuffer[UnitQuad](3)
	visited := NewVisitedBuffer(s.Size())

	VisibleFacesQuads(s, voxels, visited, pop)
	first := collect(pop)
	firstBuckets := pop.Buckets()

	// Reuse the same scratch buffers; output must be bit-identical.
	for range 3 {
		VisibleFacesQuads(s, voxels, visited, pop)
		if !reflect.DeepEqual(collect(pop), first) {
			t.Fatalf("re-run changed quad stream")
		}
		if pop.Buckets() != firstBuckets {
			t.Fatalf("re-run changed buckets")
		}
	}
}

// sphereChunk fills a centred ball of stone, for meatier fixtures.
func sphereChunk(s Shape, radius float64) []voxel.Block {
	voxels := make([]voxel.Block, s.Size())
	c := float64(s.X) / 2
	r2 := radius * radius
	s.InnerIter(func(p Vec) {
		dx := float64(p[0]) + 0.5 - c
		dy := float64(p[1]) + 0.5 - c
		dz := float64(p[2]) + 0.5 - c
		if dx*dx+dy*dy+dz*dz < r2 {
			voxels[s.Linearize(p)] = voxel.BlockStone
		}
	})
	return voxels
}

// exposedSet returns, per face index, the set of interior cells whose face
// is exposed under the visibility table.
func exposedSet(s Shape, voxels []voxel.Block) [6]map[Vec]bool {
	var out [6]map[Vec]bool
	for fi, face := range Faces {
		out[fi] = make(map[Vec]bool)
		stride := s.FaceStrides(face).N
		s.InnerIter(func(p Vec) {
			i := s.Linearize(p)
			if voxels[i].Visibility() == voxel.Empty {
				return
			}
			if faceExposed(voxels[i].Visibility(), voxels[i+stride].Visibility()) {
				out[fi][p] = true
			}
		})
	}
	return out
}

func TestVisibleFacesMatchExposedSet(t *testing.T) {
	s := NewShape(10, 10, 10)
	voxels := sphereChunk(s, 3.5)
	pop := meshVisible(t, s, 3, voxels)
	want := exposedSet(s, voxels)

	for fi := range Faces {
		got := make(map[Vec]bool)
		for _, q := range pop.groups[fi].quads {
			if got[q.Minimum] {
				t.Fatalf("face %d emits cell %v twice", fi, q.Minimum)
			}
			got[q.Minimum] = true
		}
		if !reflect.DeepEqual(got, want[fi]) {
			t.Fatalf("face %d: emitted %d cells, exposed %d", fi, len(got), len(want[fi]))
		}
	}
}

func TestExtractLODZeroRoundTrip(t *testing.T) {
	s := NewShape(10, 10, 10)
	voxels := sphereChunk(s, 3.5)
	pop := meshVisible(t, s, 3, voxels)
	want := exposedSet(s, voxels)

	var out QuadsBuffer[RegularQuad]
	ExtractLOD(pop, &out, 0)

	if out.NumQuads() != pop.NumQuads() {
		t.Fatalf("extract at 0 kept %d of %d quads", out.NumQuads(), pop.NumQuads())
	}
	for fi := range Faces {
		seen := make(map[Vec]bool)
		for _, q := range out.Group(fi) {
			if q.Size != 1 {
				t.Fatalf("lod 0 quad has size %d", q.Size)
			}
			if seen[q.Minimum] {
				t.Fatalf("face %d covers %v twice", fi, q.Minimum)
			}
			seen[q.Minimum] = true
			if !want[fi][q.Minimum] {
				t.Fatalf("face %d covers unexposed cell %v", fi, q.Minimum)
			}
		}
		if len(seen) != len(want[fi]) {
			t.Fatalf("face %d covers %d cells, want %d", fi, len(seen), len(want[fi]))
		}
	}
}

func TestExtractLODInflatesToTiles(t *testing.T) {
	s := NewShape(8, 8, 8)
	pop := meshVisible(t, s, 3, solidInterior(s, voxel.BlockStone))

	var out QuadsBuffer[RegularQuad]
	ExtractLOD(pop, &out, 2)

	if out.NumQuads() != 8 {
		t.Fatalf("lod 2 extraction has %d quads, want one per occupied tile (8)", out.NumQuads())
	}
	out.IterQuads(func(_ Face, q RegularQuad) {
		if q.Size != 4 {
			t.Fatalf("lod 2 quad has size %d, want 4", q.Size)
		}
		for i := range 3 {
			if (q.Minimum[i]-1)%4 != 0 {
				t.Fatalf("lod 2 quad minimum %v not interior-anchored", q.Minimum)
			}
		}
	})
}

func TestVisibleFacesShapeMismatchPanics(t *testing.T) {
	s := NewShape(4, 4, 4)
	defer func() {
		if recover() == nil {
			t.Fatalf("short voxel slice should panic")
		}
	}()
	pop := NewPopBuffer[UnitQuad](1)
	visited := NewVisitedBuffer(s.Size())
	VisibleFacesQuads(s, make([]voxel.Block, 10), visited, pop)
}

func TestVisibleFacesLODOversubscriptionPanics(t *testing.T) {
	s := NewShape(4, 4, 4) // max 2 classes
	defer func() {
		if recover() == nil {
			t.Fatalf("M=3 on a 4-cube should panic")
		}
	}()
	pop := NewPopBuffer[UnitQuad](3)
	visited := NewVisitedBuffer(s.Size())
	VisibleFacesQuads(s, make([]voxel.Block, s.Size()), visited, pop)
}
