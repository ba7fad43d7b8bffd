package loadmodel

// Orientation is one allowed rotation of an item: its rotated dimensions and
// XY footprint area, precomputed so the BLF placer's per-candidate hot loop
// never recomputes a permutation.
type Orientation struct {
	Rotation   int
	DX, DY, DZ float64
	Footprint  float64
}

// OrientationCache holds the precomputed Orientation list for one item,
// built once per item per solve rather than once per candidate.
type OrientationCache struct {
	ItemID       int
	Orientations []Orientation
}

// BuildOrientationCache computes every orientation it.AllowedRotations()
// permits.
func BuildOrientationCache(it Item) OrientationCache {
	rots := it.AllowedRotations()
	out := make([]Orientation, 0, len(rots))
	for _, r := range rots {
		dx, dy, dz := it.RotatedDims(r)
		out = append(out, Orientation{Rotation: r, DX: dx, DY: dy, DZ: dz, Footprint: dx * dy})
	}
	return OrientationCache{ItemID: it.ID, Orientations: out}
}

// SmallestFootprint returns the orientation with the smallest XY footprint;
// on ties the earliest orientation in the list is kept.
func (c OrientationCache) SmallestFootprint() (Orientation, bool) {
	if len(c.Orientations) == 0 {
		return Orientation{}, false
	}
	best := c.Orientations[0]
	for _, o := range c.Orientations[1:] {
		if o.Footprint < best.Footprint {
			best = o
		}
	}
	return best, true
}
