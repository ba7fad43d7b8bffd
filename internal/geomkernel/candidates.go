package geomkernel

import (
	"sort"

	"github.com/piwi3910/loadplan/internal/loadmodel"
)

// Candidate is one generated placement corner, awaiting collision/support
// validation.
type Candidate struct {
	X, Y, Z float64
}

// gridSize is the deduplication cell used to coalesce near-identical
// candidates: max(10*Eps, 0.1).
func gridSize() float64 {
	if 10*Eps > 0.1 {
		return 10 * Eps
	}
	return 0.1
}

// GenerateCandidates emits the container-origin, extreme-point,
// floor-projection, and cross-floor-grid candidates for an item of rotated
// dimensions (dx,dy,dz), filters them to those that fit the container
// bounds, deduplicates on a coarse grid, and sorts them in door-aware
// order.
func GenerateCandidates(placed []PlacedItemRow, dx, dy, dz float64, b Bounds, doorType loadmodel.DoorType) []Candidate {
	cands := make([]Candidate, 0, 1+len(placed)*6)
	add := func(x, y, z float64) {
		if FitsWithinBounds(x, y, z, dx, dy, dz, b) {
			cands = append(cands, Candidate{x, y, z})
		}
	}

	// 1. Container origin.
	add(b.XMin, b.YMin, b.ZMin)

	xs := map[float64]bool{b.XMin: true}
	ys := map[float64]bool{b.YMin: true}

	// 2. Extreme points and floor projections per placed box.
	for _, p := range placed {
		add(p.X+p.DX, p.Y, p.Z)
		add(p.X, p.Y+p.DY, p.Z)
		add(p.X, p.Y, p.Z+p.DZ)
		if p.Z > b.ZMin+Eps {
			add(p.X+p.DX, p.Y, b.ZMin)
			add(p.X, p.Y+p.DY, b.ZMin)
			add(p.X+p.DX, p.Y+p.DY, b.ZMin)
		}
		xs[p.X+p.DX] = true
		ys[p.Y+p.DY] = true
	}

	// 3. Cross-floor grid: union of extreme x/y edges, every in-bounds
	// combination at z = floor.
	for x := range xs {
		for y := range ys {
			add(x, y, b.ZMin)
		}
	}

	return dedupeAndSort(cands, doorType)
}

func dedupeAndSort(cands []Candidate, doorType loadmodel.DoorType) []Candidate {
	grid := gridSize()
	type key struct{ x, y, z int64 }
	seen := make(map[key]bool, len(cands))
	out := cands[:0]
	for _, c := range cands {
		k := key{
			x: round(c.X / grid),
			y: round(c.Y / grid),
			z: round(c.Z / grid),
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}

	if doorType == loadmodel.DoorTypeFront {
		// Front door: y asc, z asc, x asc.
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			if a.Z != b.Z {
				return a.Z < b.Z
			}
			return a.X < b.X
		})
	} else {
		// Pallet: z asc, y asc, x asc.
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.Z != b.Z {
				return a.Z < b.Z
			}
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		})
	}
	return out
}

func round(v float64) int64 {
	if v >= 0 {
		return int64(v + 0.5)
	}
	return int64(v - 0.5)
}
