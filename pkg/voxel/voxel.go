package voxel

// Visibility classifies how a cell participates in face-exposure tests.
type Visibility uint8

const (
	// Empty cells emit nothing and never occlude a neighbour.
	Empty Visibility = iota
	// Translucent cells emit faces against Empty neighbours only.
	Translucent
	// Opaque cells emit faces against Empty and Translucent neighbours.
	Opaque
)

func (v Visibility) String() string {
	switch v {
	case Empty:
		return "empty"
	case Translucent:
		return "translucent"
	case Opaque:
		return "opaque"
	}
	return "unknown"
}

// MeshVoxel is the minimal capability a cell type must supply for meshing.
type MeshVoxel interface {
	Visibility() Visibility
}

// MergeVoxel extends MeshVoxel with the equivalence tokens the greedy mesher
// needs. Two adjacent exposed faces fuse only when the owning voxels agree on
// MergeValue and the occluding neighbours agree on MergeValueFacingNeighbour.
// T and F may be the cell type itself.
type MergeVoxel[T, F comparable] interface {
	MeshVoxel
	MergeValue() T
	MergeValueFacingNeighbour() F
}
