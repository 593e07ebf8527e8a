package render

// LODParams bundles everything the viewer needs to pick a draw range each
// frame: the bucket array produced by the mesher and the distance-to-LOD
// mapping. Bucket index 0 is the coarsest draw level; bucket[i] for
// i >= M-1 equals the total quad count.
type LODParams struct {
	Buckets [8]uint32
	MaxLODs int
	Period  float32
	Easing  Easing
}

// DrawLevel maps a camera distance to a bucket index. Distance 0 yields the
// finest level (M-1); distances at or beyond Period yield level 0.
func (p LODParams) DrawLevel(distance float32) int {
	eased := p.Easing.Ease(distance, p.Period, float32(p.MaxLODs))
	level := p.MaxLODs - 1 - int(eased)
	if level < 0 {
		level = 0
	}
	if level > p.MaxLODs-1 {
		level = p.MaxLODs - 1
	}
	return level
}

// IndexCount returns the length of the index-buffer prefix to draw at the
// given bucket level: six indices per quad in the level's cumulative count.
func (p LODParams) IndexCount(level int) int32 {
	if level < 0 {
		level = 0
	}
	if level > 7 {
		level = 7
	}
	return 6 * int32(p.Buckets[level])
}
