package voxel

// Block is the concrete cell type used by the demos, benchmarks and tests.
// Library callers are free to supply their own MeshVoxel/MergeVoxel types;
// nothing in pkg/mesh depends on Block.
type Block uint16

const (
	BlockAir Block = iota
	BlockStone
	BlockGrass
	BlockDirt
	BlockWater
	BlockGlass
	BlockSand
)

// BlockDefinition defines the meshing-relevant properties of a block type.
type BlockDefinition struct {
	ID         Block
	Name       string
	Visibility Visibility
	Color      [3]float32 // linear RGB used by the viewer
}

var blocks = make(map[Block]*BlockDefinition)

// RegisterBlock adds or replaces a block definition.
func RegisterBlock(def *BlockDefinition) {
	blocks[def.ID] = def
}

// Definition returns the registered definition for b, or the air definition
// when b is unknown.
func Definition(b Block) *BlockDefinition {
	if def, ok := blocks[b]; ok {
		return def
	}
	return blocks[BlockAir]
}

func init() {
	RegisterBlock(&BlockDefinition{ID: BlockAir, Name: "air", Visibility: Empty})
	RegisterBlock(&BlockDefinition{ID: BlockStone, Name: "stone", Visibility: Opaque, Color: [3]float32{0.55, 0.55, 0.58}})
	RegisterBlock(&BlockDefinition{ID: BlockGrass, Name: "grass", Visibility: Opaque, Color: [3]float32{0.35, 0.68, 0.30}})
	RegisterBlock(&BlockDefinition{ID: BlockDirt, Name: "dirt", Visibility: Opaque, Color: [3]float32{0.45, 0.33, 0.22}})
	RegisterBlock(&BlockDefinition{ID: BlockWater, Name: "water", Visibility: Translucent, Color: [3]float32{0.20, 0.35, 0.80}})
	RegisterBlock(&BlockDefinition{ID: BlockGlass, Name: "glass", Visibility: Translucent, Color: [3]float32{0.80, 0.85, 0.90}})
	RegisterBlock(&BlockDefinition{ID: BlockSand, Name: "sand", Visibility: Opaque, Color: [3]float32{0.84, 0.78, 0.56}})
}

// Visibility implements MeshVoxel.
func (b Block) Visibility() Visibility {
	return Definition(b).Visibility
}

// MergeValue implements MergeVoxel. Faces of the same block type fuse.
func (b Block) MergeValue() Block { return b }

// MergeValueFacingNeighbour implements MergeVoxel. A face may only merge
// across cells whose occluders are the same block type, so translucent
// neighbours of different kinds keep the seam.
func (b Block) MergeValueFacingNeighbour() Block { return b }
