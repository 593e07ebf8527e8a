package worldgen

import (
	"math"

	"blockpop/pkg/mesh"
	"blockpop/pkg/voxel"
)

// Generators fill padded chunks for the viewer, tests and benchmarks. The
// 1-cell padding border is always left Empty so every interior face against
// it reads as exposed.

// Sphere fills the chunk interior with stone inside a centred ball of the
// given radius.
func Sphere(shape mesh.Shape, radius float64) []voxel.Block {
	voxels := make([]voxel.Block, shape.Size())
	cx := float64(shape.X) / 2
	cy := float64(shape.Y) / 2
	cz := float64(shape.Z) / 2

	shape.InnerIter(func(p mesh.Vec) {
		dx := float64(p[0]) + 0.5 - cx
		dy := float64(p[1]) + 0.5 - cy
		dz := float64(p[2]) + 0.5 - cz
		if dx*dx+dy*dy+dz*dz < radius*radius {
			voxels[shape.Linearize(p)] = voxel.BlockStone
		}
	})
	return voxels
}

// Solid fills the whole interior with the given block.
func Solid(shape mesh.Shape, b voxel.Block) []voxel.Block {
	voxels := make([]voxel.Block, shape.Size())
	shape.InnerIter(func(p mesh.Vec) {
		voxels[shape.Linearize(p)] = b
	})
	return voxels
}

// Terrain fills the interior with a value-noise heightfield: grass on top,
// dirt below, stone at depth, water up to the given sea level.
func Terrain(shape mesh.Shape, seed int64, seaLevel uint32) []voxel.Block {
	voxels := make([]voxel.Block, shape.Size())
	maxHeight := float64(shape.Y - 2)

	for z := uint32(1); z < shape.Z-1; z++ {
		for x := uint32(1); x < shape.X-1; x++ {
			n := OctaveNoise2D(float64(x)/24, float64(z)/24, seed, 4, 0.5)
			height := uint32(math.Max(1, math.Round(n*maxHeight)))
			if height > shape.Y-2 {
				height = shape.Y - 2
			}

			for y := uint32(1); y <= height; y++ {
				var b voxel.Block
				switch {
				case y == height && height > seaLevel:
					b = voxel.BlockGrass
				case y+3 > height:
					b = voxel.BlockDirt
				default:
					b = voxel.BlockStone
				}
				voxels[shape.Linearize(mesh.Vec{x, y, z})] = b
			}
			for y := height + 1; y <= seaLevel && y < shape.Y-1; y++ {
				voxels[shape.Linearize(mesh.Vec{x, y, z})] = voxel.BlockWater
			}
		}
	}
	return voxels
}
