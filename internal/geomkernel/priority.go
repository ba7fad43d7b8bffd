package geomkernel

import "github.com/piwi3910/loadplan/internal/loadmodel"

// CandidateKey is the subset of a candidate item's attributes the adjacency
// and support/stacking checks need, besides its trial position/dims.
type CandidateKey struct {
	Priority   int
	OrderHash  uint32
	SendDateTS int64
}

// CheckPriorityAdjacency rejects a candidate placement at (x,y,z) with dims
// (dx,dy,dz) if it violates door-axis monotonicity, adjacency-class
// priority spread, or same-order-group direction rules for cross-order
// layering in door containers.
func CheckPriorityAdjacency(x, y, z, dx, dy, dz float64, cand CandidateKey, placed []PlacedItemRow, doorType loadmodel.DoorType) bool {
	doorAxisY := doorType == loadmodel.DoorTypeFront

	// Cross-order layering: different order_ids occupy disjoint intervals
	// along the door axis; at a touching boundary the more urgent order
	// (earlier send date, then lower priority) must sit on the door side.
	if doorAxisY {
		cStart, cEnd := y, y+dy
		for _, p := range placed {
			if p.OrderHash == cand.OrderHash {
				continue
			}
			pStart, pEnd := p.Y, p.Y+p.DY

			if cStart < pEnd-Eps && cEnd > pStart+Eps {
				return false // overlapping ranges from different orders
			}

			inFront := cStart >= pEnd-Eps
			behind := cEnd <= pStart+Eps
			if !inFront && !behind {
				continue
			}

			moreUrgent, lessUrgent := false, false
			switch {
			case cand.SendDateTS < p.SendDateTS:
				moreUrgent = true
			case cand.SendDateTS > p.SendDateTS:
				lessUrgent = true
			case cand.Priority < p.Priority:
				moreUrgent = true
			case cand.Priority > p.Priority:
				lessUrgent = true
			}

			if moreUrgent && behind {
				return false
			}
			if lessUrgent && inFront {
				return false
			}
		}
	}

	// Remaining rules only apply within the same order_id AND senddate_ts.
	sameGroup := func(p PlacedItemRow) bool {
		return p.OrderHash == cand.OrderHash && p.SendDateTS == cand.SendDateTS
	}

	// Global monotonicity along the door axis: a P-priority item may not sit
	// behind (smaller y, for front-door) any already-placed item with a
	// less urgent (larger) priority value.
	if doorAxisY {
		for _, p := range placed {
			if !sameGroup(p) {
				continue
			}
			if p.Priority > cand.Priority && y < p.Y-Eps {
				return false
			}
		}
	}

	for _, p := range placed {
		if !sameGroup(p) {
			continue
		}

		xOverlap := x < p.X+p.DX+Eps && x+dx > p.X-Eps
		yOverlap := y < p.Y+p.DY+Eps && y+dy > p.Y-Eps
		zOverlap := z < p.Z+p.DZ+Eps && z+dz > p.Z-Eps

		xTouchRight := abs(x-(p.X+p.DX)) < Eps
		xTouchLeft := abs((x+dx)-p.X) < Eps
		xTouch := xTouchRight || xTouchLeft

		yTouchFront := abs(y-(p.Y+p.DY)) < Eps
		yTouchBack := abs((y+dy)-p.Y) < Eps
		yTouch := yTouchFront || yTouchBack

		zTouchTop := abs(z-(p.Z+p.DZ)) < Eps
		zTouchBottom := abs((z+dz)-p.Z) < Eps
		zTouch := zTouchTop || zTouchBottom

		adjacent := (xTouch && yOverlap && zOverlap) ||
			(yTouch && xOverlap && zOverlap) ||
			(zTouch && xOverlap && yOverlap)
		if !adjacent {
			continue
		}

		if p.Priority != cand.Priority && p.Priority != cand.Priority+1 {
			return false
		}

		if p.Priority == cand.Priority+1 {
			validPosition := false
			if zTouchTop && xOverlap && yOverlap {
				validPosition = true
			}
			if doorAxisY {
				if yTouchFront && xOverlap && zOverlap {
					validPosition = true
				}
			} else {
				if (xTouch && yOverlap && zOverlap) || (yTouch && xOverlap && zOverlap) {
					validPosition = true
				}
			}
			if !validPosition {
				return false
			}
		}
	}

	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
