package geomkernel

// Collides reports whether a candidate box at (x,y,z) with dims (dx,dy,dz)
// collides with any row in placed. Two boxes collide iff each axis has
// positive overlap strictly greater than Eps — touching faces do not
// collide.
func Collides(x, y, z, dx, dy, dz float64, placed []PlacedItemRow) bool {
	for _, p := range placed {
		if x < p.X+p.DX-Eps && x+dx > p.X+Eps &&
			y < p.Y+p.DY-Eps && y+dy > p.Y+Eps &&
			z < p.Z+p.DZ-Eps && z+dz > p.Z+Eps {
			return true
		}
	}
	return false
}
