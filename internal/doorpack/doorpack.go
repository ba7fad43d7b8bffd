// Package doorpack implements the door-container packer: the single-SKU
// grid fast path, sim_batch floor pre-fill, and the general
// final_rank-ordered BLF sweep with its defensive dedup pass.
package doorpack

import (
	"sort"

	"github.com/piwi3910/loadplan/internal/blf"
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/piwi3910/loadplan/internal/tiler"
)

const eps = loadmodel.Eps
const dimEps = 1e-4

// Pack sorts items by (final_rank desc, pickup_priority desc, weight desc,
// volume desc, id) and places them into c, returning whatever could not be
// placed.
func Pack(c *loadmodel.Container, items []loadmodel.Item) []loadmodel.Item {
	if len(items) == 0 {
		return nil
	}

	sorted := append([]loadmodel.Item{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.FinalRank != b.FinalRank {
			return a.FinalRank > b.FinalRank
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

	simBatch, _ := splitSimBatch(sorted)
	if len(c.Items) == 0 && len(simBatch) == 0 && areIdentical(sorted) {
		if rot, ok := findOptimalRotationGrid(c, sorted[0]); ok {
			return packBLF(c, sorted, &rot)
		}
	}

	remaining := sorted
	if len(c.Items) == 0 {
		if len(simBatch) > 0 {
			leftover := packSimBatchFloor(c, simBatch)
			leftoverIDs := make(map[int]bool, len(leftover))
			for _, it := range leftover {
				leftoverIDs[it.ID] = true
			}
			filtered := remaining[:0:0]
			for _, it := range sorted {
				if it.ItemType != "sim_batch" || leftoverIDs[it.ID] {
					filtered = append(filtered, it)
				}
			}
			remaining = filtered
		}
	}

	unused := packBLF(c, remaining, nil)

	c.DeduplicatePlacements()
	return unused
}

func areIdentical(items []loadmodel.Item) bool {
	if len(items) == 0 {
		return true
	}
	first := items[0]
	for _, it := range items[1:] {
		if absF(it.Length-first.Length) > dimEps ||
			absF(it.Width-first.Width) > dimEps ||
			absF(it.Height-first.Height) > dimEps ||
			absF(it.Weight-first.Weight) > dimEps {
			return false
		}
	}
	return true
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// computeGridCapacity is the fast-path capacity formula for a single
// rotation.
func computeGridCapacity(c *loadmodel.Container, item loadmodel.Item, rotation int) (capacity int, utilization float64) {
	dx, dy, dz := item.RotatedDims(rotation)
	if dx > c.Width+eps || dy > c.Length+eps || dz > c.Height+eps {
		return 0, 0
	}

	itemsX := 0
	if dx > eps {
		itemsX = int(c.Width / dx)
	}
	itemsY := 0
	if dy > eps {
		itemsY = int(c.Length / dy)
	}
	itemsZ := 0
	if dz > eps {
		itemsZ = int(c.Height / dz)
	}
	if item.MaxStack > 0 && itemsZ > item.MaxStack {
		itemsZ = item.MaxStack
	}

	total := itemsX * itemsY * itemsZ
	if c.MaxWeight > eps && item.Weight > eps {
		byWeight := int(c.MaxWeight / item.Weight)
		if byWeight < total {
			total = byWeight
		}
	}

	if total > 0 && c.Volume() > eps {
		utilization = float64(total) * item.Volume() / c.Volume()
	}
	return total, utilization
}

// findOptimalRotationGrid picks the rotation maximizing grid capacity, tie
// broken by volume utilization.
func findOptimalRotationGrid(c *loadmodel.Container, item loadmodel.Item) (int, bool) {
	bestRotation := -1
	bestCapacity := 0
	bestUtil := 0.0

	for _, rot := range item.AllowedRotations() {
		capacity, util := computeGridCapacity(c, item, rot)
		if capacity > bestCapacity || (capacity == bestCapacity && util > bestUtil) {
			bestCapacity = capacity
			bestUtil = util
			bestRotation = rot
		}
	}
	if bestRotation < 0 || bestCapacity == 0 {
		return 0, false
	}
	return bestRotation, true
}

func splitSimBatch(items []loadmodel.Item) (simBatch, regular []loadmodel.Item) {
	for _, it := range items {
		if it.ItemType == "sim_batch" {
			simBatch = append(simBatch, it)
		} else {
			regular = append(regular, it)
		}
	}
	return simBatch, regular
}

// packSimBatchFloor runs the first-layer tiler on sim_batch items (packed
// pallets being loaded whole into a container) and commits its output
// positions verbatim at layer 1 with a hard stack limit of 1. Returns the
// items the tiler could not place.
func packSimBatchFloor(c *loadmodel.Container, simBatch []loadmodel.Item) []loadmodel.Item {
	result := tiler.Tile(c, simBatch, false, c.DoorType() == loadmodel.DoorTypeFront)

	placedByID := make(map[int]loadmodel.Item, len(result.Placements))
	for _, it := range simBatch {
		placedByID[it.ID] = it
	}

	for _, p := range result.Placements {
		it := placedByID[p.ItemID]
		it.Position = loadmodel.Position{X: p.X, Y: p.Y, Z: 0}
		it.Rotation = p.Rotation
		it.Layer = 1
		it.MaxStack = 1
		it.Placed = true
		c.AddItem(it)
	}

	return result.Unplaced
}

// packBLF runs the final_rank-grouped BLF sweep, optionally forcing a
// single rotation for the single-SKU fast path.
func packBLF(c *loadmodel.Container, items []loadmodel.Item, forcedRotation *int) []loadmodel.Item {
	placedIDs := make(map[int]bool, len(c.Items))
	for _, it := range c.Items {
		placedIDs[it.ID] = true
	}

	var unused []loadmodel.Item
	for _, item := range items {
		if placedIDs[item.ID] {
			continue
		}
		if c.TotalWeight+item.Weight > c.MaxWeight+eps {
			unused = append(unused, item)
			continue
		}

		res, ok := blf.FindBestPosition(c, item, forcedRotation)
		if !ok {
			unused = append(unused, item)
			continue
		}

		item.Position = loadmodel.Position{X: res.X, Y: res.Y, Z: res.Z}
		item.Rotation = res.Rotation
		item.Layer = res.Layer
		item.Placed = true
		c.AddItem(item)
		placedIDs[item.ID] = true
	}
	return unused
}
