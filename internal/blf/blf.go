// Package blf implements the Bottom-Left-Fill placer: the per-item
// best-position search used by both the pallet and door-container packers
// once the first layer has been tiled.
package blf

import (
	"github.com/piwi3910/loadplan/internal/geomkernel"
	"github.com/piwi3910/loadplan/internal/loadmodel"
)

// Result is a winning placement: position, rotation, and the resolved
// same-type stacking layer.
type Result struct {
	X, Y, Z  float64
	Rotation int
	Layer    int
}

// score is the (frontier_after, tie-break...) tuple a candidate position is
// ranked by. Lower is better.
type score struct {
	frontier   float64
	t1, t2, t3 float64
}

func less(a, b score) bool {
	if a.frontier != b.frontier {
		return a.frontier < b.frontier
	}
	if a.t1 != b.t1 {
		return a.t1 < b.t1
	}
	if a.t2 != b.t2 {
		return a.t2 < b.t2
	}
	return a.t3 < b.t3
}

// FindBestPosition searches every rotation the item allows (or just
// forcedRotation, when non-nil) for the best feasible placement inside c,
// validating each candidate against collision, priority adjacency, and
// support/stacking. Returns ok=false if no rotation has any valid
// candidate.
func FindBestPosition(c *loadmodel.Container, item loadmodel.Item, forcedRotation *int) (Result, bool) {
	rotations := item.AllowedRotations()
	if forcedRotation != nil {
		rotations = []int{*forcedRotation}
	}

	doorType := c.DoorType()
	enforceOrderStacking := doorType != loadmodel.DoorTypePallet
	doorAxisIsY := doorType == loadmodel.DoorTypeFront

	var currentFrontier float64
	if doorAxisIsY {
		for _, p := range c.Items {
			_, dy, _ := p.RotatedDims(p.Rotation)
			if v := p.Position.Y + dy; v > currentFrontier {
				currentFrontier = v
			}
		}
	}

	typeIDs := geomkernel.NewTypeIDMap()
	candidateTypeID := typeIDs.Get(item.ItemTypeID)
	placed := geomkernel.BuildPlacedRows(c.Items, typeIDs)
	bounds := geomkernel.BoundsOf(c)

	candKey := geomkernel.CandidateKey{
		Priority:   item.PickupPriority,
		OrderHash:  geomkernel.FNV1a32OrderHash(item.OrderID),
		SendDateTS: item.SendDateTS,
	}
	supportCand := geomkernel.SupportCandidate{
		TypeID:               candidateTypeID,
		Weight:               item.Weight,
		MaxStack:             item.MaxStack,
		OrderHash:            candKey.OrderHash,
		SendDateTS:           item.SendDateTS,
		EnforceOrderStacking: enforceOrderStacking,
	}

	var best Result
	var bestScore score
	haveBest := false

	for _, rot := range rotations {
		dx, dy, dz := item.RotatedDims(rot)
		cands := geomkernel.GenerateCandidates(placed, dx, dy, dz, bounds, doorType)

		for _, cand := range cands {
			if item.Grounded && cand.Z > geomkernel.Eps {
				continue
			}
			if geomkernel.Collides(cand.X, cand.Y, cand.Z, dx, dy, dz, placed) {
				continue
			}
			if !geomkernel.CheckPriorityAdjacency(cand.X, cand.Y, cand.Z, dx, dy, dz, candKey, placed, doorType) {
				continue
			}
			ok, newLayer := geomkernel.CheckSupportAndStacking(cand.X, cand.Y, cand.Z, dx, dy, supportCand, placed)
			if !ok {
				continue
			}

			s := scoreFor(cand.X, cand.Y, cand.Z, dx, dy, dz, doorAxisIsY, currentFrontier)
			if !haveBest || less(s, bestScore) {
				haveBest = true
				bestScore = s
				best = Result{X: cand.X, Y: cand.Y, Z: cand.Z, Rotation: rot, Layer: newLayer}
			}
			// First valid candidate wins for this rotation: candidates are
			// already sorted in door-aware order, so the first feasible one
			// minimizes this rotation's score.
			break
		}
	}

	return best, haveBest
}

func scoreFor(x, y, z, dx, dy, dz float64, doorAxisIsY bool, currentFrontier float64) score {
	if doorAxisIsY {
		frontier := currentFrontier
		if v := y + dy; v > frontier {
			frontier = v
		}
		return score{frontier: frontier, t1: y, t2: z, t3: x}
	}
	return score{frontier: z, t1: z, t2: y, t3: x}
}
