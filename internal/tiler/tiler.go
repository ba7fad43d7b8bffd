// Package tiler implements the first-layer floor-packing pass the pallet
// and door-container packers run before handing remaining items to the
// BLF placer.
package tiler

import (
	"sort"

	"github.com/piwi3910/loadplan/internal/loadmodel"
)

const eps = loadmodel.Eps

// Placement is one item's resolved floor position and rotation.
type Placement struct {
	ItemID   int
	X, Y, Z  float64
	Rotation int
}

// Result is the tiler's output: the placements it committed plus the
// measurements the pallet packer's layer-replication math needs.
type Result struct {
	Placements    []Placement
	Unplaced      []loadmodel.Item
	Coverage      float64 // fraction of floor area covered
	BoxesPerLayer int
	LayerHeight   float64
}

// countCap bounds how many candidates a single Tile call considers: 5000
// for pallets, 1000 otherwise.
func countCap(isPallet bool) int {
	if isPallet {
		return 5000
	}
	return 1000
}

// Tile lays items onto c's floor (z = origin Z), picking the better of the
// uniform (Attempt A) and mixed/row-column (Attempt B) strategies by
// (coverage, -doorDepthMetric).
func Tile(c *loadmodel.Container, items []loadmodel.Item, isPallet bool, doorAxisIsY bool) Result {
	floorW, floorL := c.Width, c.Length
	queue, unplaced := buildCandidateQueue(items, floorW*floorL, countCap(isPallet))

	a := tileUniform(floorW, floorL, queue, doorAxisIsY)
	b := tileMixed(floorW, floorL, queue, doorAxisIsY)

	best := a
	if better(b, a, floorW*floorL) {
		best = b
	}

	placedIDs := make(map[int]bool, len(best.Placements))
	for _, p := range best.Placements {
		placedIDs[p.ItemID] = true
	}
	for _, it := range queue {
		if !placedIDs[it.ID] {
			unplaced = append(unplaced, it)
		}
	}
	best.Unplaced = unplaced
	return best
}

func better(candidate, current Result, floorArea float64) bool {
	if candidate.Coverage > current.Coverage+eps {
		return true
	}
	if candidate.Coverage < current.Coverage-eps {
		return false
	}
	return doorDepthMetric(candidate) < doorDepthMetric(current)-eps
}

func doorDepthMetric(r Result) float64 {
	var maxY float64
	for _, p := range r.Placements {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return maxY
}

// buildCandidateQueue orders grounded items first, then non-grounded items
// by (senddate_ts desc, priority desc, weight desc, volume desc, id), then
// draws per-SKU round-robin up to a total floor area of 1.25x the container
// footprint and the absolute countCap.
func buildCandidateQueue(items []loadmodel.Item, floorArea float64, cap int) (queue []loadmodel.Item, skipped []loadmodel.Item) {
	grounded := make([]loadmodel.Item, 0, len(items))
	rest := make([]loadmodel.Item, 0, len(items))
	for _, it := range items {
		if it.Grounded {
			grounded = append(grounded, it)
		} else {
			rest = append(rest, it)
		}
	}
	sort.SliceStable(grounded, func(i, j int) bool { return grounded[i].ID < grounded[j].ID })
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		if a.SendDateTS != b.SendDateTS {
			return a.SendDateTS > b.SendDateTS
		}
		if a.PickupPriority != b.PickupPriority {
			return a.PickupPriority > b.PickupPriority
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if a.Volume() != b.Volume() {
			return a.Volume() > b.Volume()
		}
		return a.ID < b.ID
	})

	bySKU := make(map[string][]loadmodel.Item)
	var skuOrder []string
	for _, it := range append(append([]loadmodel.Item{}, grounded...), rest...) {
		if _, ok := bySKU[it.ItemTypeID]; !ok {
			skuOrder = append(skuOrder, it.ItemTypeID)
		}
		bySKU[it.ItemTypeID] = append(bySKU[it.ItemTypeID], it)
	}

	areaCap := floorArea * 1.25
	var usedArea float64
	for len(queue) < cap {
		progressed := false
		for _, sku := range skuOrder {
			lst := bySKU[sku]
			if len(lst) == 0 {
				continue
			}
			it := lst[0]
			bySKU[sku] = lst[1:]
			progressed = true

			if len(queue) >= cap || usedArea+it.Width*it.Length > areaCap+eps {
				skipped = append(skipped, it)
				continue
			}
			usedArea += it.Width * it.Length
			queue = append(queue, it)
		}
		if !progressed {
			break
		}
	}
	for _, sku := range skuOrder {
		skipped = append(skipped, bySKU[sku]...)
	}
	return queue, skipped
}

// preferredRotations returns an item's allowed rotations ordered so that,
// for a door container, rotations with the longer edge along the door axis
// (y) are tried first.
func preferredRotations(it loadmodel.Item, doorAxisIsY bool) []int {
	rots := append([]int{}, it.AllowedRotations()...)
	if !doorAxisIsY {
		return rots
	}
	sort.SliceStable(rots, func(i, j int) bool {
		_, dyi, _ := it.RotatedDims(rots[i])
		_, dyj, _ := it.RotatedDims(rots[j])
		return dyi > dyj
	})
	return rots
}

// tileUniform is Attempt A: each candidate tries its preferred rotations in
// turn and is placed via 2D MaxRects best-fit scoring.
func tileUniform(w, l float64, queue []loadmodel.Item, doorAxisIsY bool) Result {
	mr := newMaxRects2D(w, l)
	var placements []Placement
	var coveredArea float64
	maxH := 0.0

	for _, it := range queue {
		for _, rot := range preferredRotations(it, doorAxisIsY) {
			dx, dy, dz := it.RotatedDims(rot)
			if ok, x, y := mr.insert(dx, dy); ok {
				placements = append(placements, Placement{ItemID: it.ID, X: x, Y: y, Rotation: rot})
				coveredArea += dx * dy
				if dz > maxH {
					maxH = dz
				}
				break
			}
		}
	}

	return Result{
		Placements:    placements,
		Coverage:      coveredArea / (w * l),
		BoxesPerLayer: len(placements),
		LayerHeight:   maxH,
	}
}

// tileMixed is Attempt B: when every candidate shares the same footprint,
// enumerate row-major and column-major deterministic grids across up to two
// preferred rotations and keep whichever packs more items with less slack.
// Otherwise it falls back to MaxRects over all rotations with a relaxed
// door-axis preference.
func tileMixed(w, l float64, queue []loadmodel.Item, doorAxisIsY bool) Result {
	if !allSameFootprint(queue) || len(queue) == 0 {
		return tileRelaxedMaxRects(w, l, queue)
	}

	ref := queue[0]
	rotCandidates := preferredRotations(ref, doorAxisIsY)
	if len(rotCandidates) > 2 {
		rotCandidates = rotCandidates[:2]
	}

	var best Result
	var bestSlack float64
	haveBest := false
	for _, rot := range rotCandidates {
		dx, dy, dz := ref.RotatedDims(rot)
		if dx <= eps || dy <= eps {
			continue
		}
		cols := int(w / (dx + eps))
		rows := int(l / (dy + eps))
		count := cols * rows
		if count <= 0 {
			continue
		}
		if count > len(queue) {
			count = len(queue)
		}

		var placements []Placement
		placedArea := 0.0
		i := 0
	outer:
		for r := 0; r < rows; r++ {
			for col := 0; col < cols; col++ {
				if i >= count {
					break outer
				}
				placements = append(placements, Placement{
					ItemID:   queue[i].ID,
					X:        float64(col) * dx,
					Y:        float64(r) * dy,
					Rotation: rot,
				})
				placedArea += dx * dy
				i++
			}
		}

		slack := w*l - float64(cols)*dx*float64(rows)*dy
		result := Result{
			Placements:    placements,
			Coverage:      placedArea / (w * l),
			BoxesPerLayer: len(placements),
			LayerHeight:   dz,
		}
		if !haveBest || len(result.Placements) > len(best.Placements) ||
			(len(result.Placements) == len(best.Placements) && slack < bestSlack) {
			best = result
			bestSlack = slack
			haveBest = true
		}
	}
	if !haveBest {
		return tileRelaxedMaxRects(w, l, queue)
	}
	return best
}

func tileRelaxedMaxRects(w, l float64, queue []loadmodel.Item) Result {
	mr := newMaxRects2D(w, l)
	var placements []Placement
	var coveredArea float64
	maxH := 0.0

	for _, it := range queue {
		for _, rot := range it.AllowedRotations() {
			dx, dy, dz := it.RotatedDims(rot)
			if ok, x, y := mr.insert(dx, dy); ok {
				placements = append(placements, Placement{ItemID: it.ID, X: x, Y: y, Rotation: rot})
				coveredArea += dx * dy
				if dz > maxH {
					maxH = dz
				}
				break
			}
		}
	}

	return Result{
		Placements:    placements,
		Coverage:      coveredArea / (w * l),
		BoxesPerLayer: len(placements),
		LayerHeight:   maxH,
	}
}

func allSameFootprint(items []loadmodel.Item) bool {
	if len(items) == 0 {
		return true
	}
	ref := items[0].Signature()
	for _, it := range items[1:] {
		s := it.Signature()
		if s.Length != ref.Length || s.Width != ref.Width || s.Height != ref.Height {
			return false
		}
	}
	return true
}
