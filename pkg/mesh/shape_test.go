package mesh

import "testing"

func TestLinearizeDelinearizeRoundTrip(t *testing.T) {
	s := NewShape(5, 7, 4)
	for i := uint32(0); i < uint32(s.Size()); i++ {
		p := s.Delinearize(i)
		if got := s.Linearize(p); got != i {
			t.Fatalf("index %d: delinearize %v, linearize back %d", i, p, got)
		}
	}
}

func TestShapeValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("shape 2x3x3 should panic, no interior exists")
		}
	}()
	NewShape(2, 3, 3)
}

func TestMaxLODs(t *testing.T) {
	cases := []struct {
		x, y, z uint32
		want    int
	}{
		{3, 3, 3, 1},
		{8, 8, 8, 3},
		{34, 34, 34, 5},
		{66, 66, 66, 6},
		{130, 130, 130, 7},
		{1024, 1024, 1024, 8}, // byte-mask cap
		{66, 8, 66, 3},
	}
	for _, c := range cases {
		if got := NewShape(c.x, c.y, c.z).MaxLODs(); got != c.want {
			t.Fatalf("MaxLODs(%dx%dx%d) = %d, want %d", c.x, c.y, c.z, got, c.want)
		}
	}
}

func TestFaceStrides(t *testing.T) {
	s := NewShape(4, 5, 6)
	for fi, face := range Faces {
		strides := s.FaceStrides(face)

		// Stepping any interior cell by the N stride must land on the
		// neighbour the signed normal points at.
		p := Vec{1, 1, 1}
		neighbour := Vec{
			uint32(int32(p[0]) + face.SignedN[0]),
			uint32(int32(p[1]) + face.SignedN[1]),
			uint32(int32(p[2]) + face.SignedN[2]),
		}
		if got := s.Linearize(p) + strides.N; got != s.Linearize(neighbour) {
			t.Fatalf("face %d: N stride lands on %d, want %d", fi, got, s.Linearize(neighbour))
		}
		if got := s.Linearize(p) + strides.U; got != s.Linearize(p.Add(face.U)) {
			t.Fatalf("face %d: U stride lands on %d, want %d", fi, got, s.Linearize(p.Add(face.U)))
		}
		if got := s.Linearize(p) + strides.V; got != s.Linearize(p.Add(face.V)) {
			t.Fatalf("face %d: V stride lands on %d, want %d", fi, got, s.Linearize(p.Add(face.V)))
		}
	}
}

func TestInnerIterCoversInteriorOnce(t *testing.T) {
	s := NewShape(4, 5, 6)
	seen := make(map[Vec]int)
	s.InnerIter(func(p Vec) { seen[p]++ })

	want := int(s.X-2) * int(s.Y-2) * int(s.Z-2)
	if len(seen) != want {
		t.Fatalf("inner iter visited %d cells, want %d", len(seen), want)
	}
	for p, n := range seen {
		if n != 1 {
			t.Fatalf("cell %v visited %d times", p, n)
		}
		for i := range 3 {
			dim := s.Vec()[i]
			if p[i] < 1 || p[i] > dim-2 {
				t.Fatalf("cell %v outside interior", p)
			}
		}
	}
}

func TestFaceInnerIterCoversInteriorOnce(t *testing.T) {
	s := NewShape(5, 4, 6)
	for fi, face := range Faces {
		seen := make(map[Vec]int)
		s.FaceInnerIter(face, func(p Vec) { seen[p]++ })

		want := int(s.X-2) * int(s.Y-2) * int(s.Z-2)
		if len(seen) != want {
			t.Fatalf("face %d: visited %d cells, want %d", fi, len(seen), want)
		}
		for p, n := range seen {
			if n != 1 {
				t.Fatalf("face %d: cell %v visited %d times", fi, p, n)
			}
		}
	}
}

func TestFaceInnerIterUMajor(t *testing.T) {
	s := NewShape(5, 5, 5)
	for fi, face := range Faces {
		var prev *Vec
		s.FaceInnerIter(face, func(p Vec) {
			if prev != nil && face.V.Dot(*prev) == face.V.Dot(p) && face.N.Dot(*prev) == face.N.Dot(p) {
				if face.U.Dot(p) != face.U.Dot(*prev)+1 {
					t.Fatalf("face %d: U not fastest axis: %v then %v", fi, *prev, p)
				}
			}
			q := p
			prev = &q
		})
	}
}

func TestSliceIterStaysOnPlane(t *testing.T) {
	s := NewShape(6, 5, 4)
	for fi, face := range Faces {
		count := 0
		s.SliceIter(face, 2, func(p Vec) {
			count++
			if face.N.Dot(p) != 2 {
				t.Fatalf("face %d: slice cell %v off plane 2", fi, p)
			}
		})
		want := int(face.U.Dot(s.Vec())-2) * int(face.V.Dot(s.Vec())-2)
		if count != want {
			t.Fatalf("face %d: slice visited %d cells, want %d", fi, count, want)
		}
	}
}

func TestLocalize(t *testing.T) {
	s := NewShape(6, 6, 6)
	for fi, face := range Faces {
		p := s.Localize(face, 0, 2, 3)
		// Back faces count n from the far plane, front faces from the origin.
		wantN := uint32(0)
		if !face.front {
			wantN = face.N.Dot(s.Vec()) - 1
		}
		if face.N.Dot(p) != wantN {
			t.Fatalf("face %d: localize n=0 gave %v, want N coordinate %d", fi, p, wantN)
		}
		if face.U.Dot(p) != 2 || face.V.Dot(p) != 3 {
			t.Fatalf("face %d: localize lost u/v: %v", fi, p)
		}
	}
}
