// Package palletpack implements the pallet packer: entry dispatch by SKU
// homogeneity, the single-SKU centered-column/standard branches, and the
// mixed-SKU BLF sweep with its priority admission window and post-sweep
// cleanup.
package palletpack

import (
	"sort"

	"github.com/piwi3910/loadplan/internal/blf"
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/piwi3910/loadplan/internal/tiler"
)

const eps = loadmodel.Eps

// Pack dispatches by SKU homogeneity and returns the items that could not
// be placed on c.
func Pack(c *loadmodel.Container, items []loadmodel.Item) []loadmodel.Item {
	if len(items) == 0 {
		return nil
	}

	sorted := append([]loadmodel.Item{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
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

	unique := map[string]bool{}
	for _, it := range sorted {
		unique[it.ItemTypeID] = true
	}

	if len(unique) == 1 {
		return packSingleSKU(c, sorted)
	}
	return packMixedSKU(c, sorted)
}

// priorityAllowed is the admission window rule: a pallet only accepts
// items whose priorities, union'd with what is already stored, span at
// most two adjacent levels.
func priorityAllowed(stored map[int]bool, itemPriority int) bool {
	lo, hi := itemPriority, itemPriority
	for p := range stored {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return hi-lo <= 1
}

func packSingleSKU(c *loadmodel.Container, items []loadmodel.Item) []loadmodel.Item {
	box := items[0]
	stored := storedPriorities(c)
	if !priorityAllowed(stored, box.PickupPriority) {
		return items
	}

	if len(items) <= 1 {
		return packCenteredDirect(c, items)
	}

	clone := c.Clone()
	tileResult := tiler.Tile(&clone, items, true, false)
	if len(tileResult.Placements) == 0 {
		return packCenteredDirect(c, items)
	}

	boxesPerLayer := len(tileResult.Placements)
	layerHeight := tileResult.LayerHeight

	maxLayersByStack := 10000
	if box.MaxStack > 0 {
		maxLayersByStack = box.MaxStack
	}
	maxLayersByHeight := 1
	if layerHeight > 0 {
		maxLayersByHeight = int(c.Height / layerHeight)
	}
	maxLayersByWeight := 10000
	if c.MaxWeight > 0 && boxesPerLayer > 0 && box.Weight > 0 {
		maxLayersByWeight = int(c.MaxWeight / (float64(boxesPerLayer) * box.Weight))
	}
	maxLayersByItemWeight := 10000
	if box.MaxStackWeight > 0 && box.Weight > 0 {
		maxLayersByItemWeight = int(box.MaxStackWeight/box.Weight) + 1
	}
	maxLayersByFlags := 10000
	if box.Grounded {
		maxLayersByFlags = 1
	}

	maxLayers := min(maxLayersByStack, maxLayersByHeight, maxLayersByWeight, maxLayersByItemWeight, maxLayersByFlags, 10000)

	floorArea := c.Width * c.Length
	placementArea := 0.0
	for _, p := range tileResult.Placements {
		it := findItem(items, p.ItemID)
		dx, dy, _ := it.RotatedDims(p.Rotation)
		placementArea += dx * dy
	}
	coverage := 0.0
	if floorArea > 0 {
		coverage = placementArea / floorArea
	}

	if boxesPerLayer == 1 || coverage < 0.75 {
		return packSingleSKUCentered(c, items, tileResult, layerHeight, maxLayers)
	}
	return packSingleSKUStandard(c, items, tileResult, layerHeight, maxLayers)
}

func findItem(items []loadmodel.Item, id int) loadmodel.Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	return loadmodel.Item{}
}

func min(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// packSingleSKUStandard replays the tiler's floor positions layer by layer
// up to maxLayers.
func packSingleSKUStandard(c *loadmodel.Container, items []loadmodel.Item, tileResult tiler.Result, layerHeight float64, maxLayers int) []loadmodel.Item {
	var unused []loadmodel.Item
	idx := 0
	for layer := 0; layer < maxLayers && idx < len(items); layer++ {
		z := float64(layer) * layerHeight
		if z+layerHeight > c.Height+eps {
			break
		}
		for _, p := range tileResult.Placements {
			if idx >= len(items) {
				break
			}
			it := items[idx]
			idx++
			if c.TotalWeight+it.Weight > c.MaxWeight+eps {
				unused = append(unused, it)
				continue
			}
			it.Position = loadmodel.Position{X: p.X, Y: p.Y, Z: z}
			it.Rotation = p.Rotation
			it.Layer = layer + 1
			it.Placed = true
			c.AddItem(it)
		}
	}
	if idx < len(items) {
		unused = append(unused, items[idx:]...)
	}
	return unused
}

// packSingleSKUCentered offsets the tiler's bounding box so its centroid
// coincides with the pallet centroid, clamped to stay in bounds, then
// replays layer by layer.
func packSingleSKUCentered(c *loadmodel.Container, items []loadmodel.Item, tileResult tiler.Result, layerHeight float64, maxLayers int) []loadmodel.Item {
	if len(tileResult.Placements) == 0 {
		return packCenteredDirect(c, items)
	}

	minX, minY := tileResult.Placements[0].X, tileResult.Placements[0].Y
	maxX, maxY := minX, minY
	for _, p := range tileResult.Placements {
		it := findItem(items, p.ItemID)
		dx, dy, _ := it.RotatedDims(p.Rotation)
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X+dx > maxX {
			maxX = p.X + dx
		}
		if p.Y+dy > maxY {
			maxY = p.Y + dy
		}
	}
	groupW, groupL := maxX-minX, maxY-minY
	offsetX := (c.Width-groupW)/2 - minX
	offsetY := (c.Length-groupL)/2 - minY

	if offsetX < -minX {
		offsetX = -minX
	}
	if c.Origin.X+minX+offsetX+groupW > c.Width {
		offsetX = c.Width - groupW - minX
	}
	if offsetY < -minY {
		offsetY = -minY
	}
	if c.Origin.Y+minY+offsetY+groupL > c.Length {
		offsetY = c.Length - groupL - minY
	}

	var unused []loadmodel.Item
	idx := 0
	for layer := 0; layer < maxLayers && idx < len(items); layer++ {
		z := float64(layer) * layerHeight
		if z+layerHeight > c.Height+eps {
			break
		}
		for _, p := range tileResult.Placements {
			if idx >= len(items) {
				break
			}
			it := items[idx]
			idx++
			if c.TotalWeight+it.Weight > c.MaxWeight+eps {
				unused = append(unused, it)
				continue
			}
			it.Position = loadmodel.Position{X: p.X + offsetX, Y: p.Y + offsetY, Z: z}
			it.Rotation = p.Rotation
			it.Layer = layer + 1
			it.Placed = true
			c.AddItem(it)
		}
	}
	if idx < len(items) {
		unused = append(unused, items[idx:]...)
	}
	return unused
}

// packCenteredDirect handles the small-group special case: pick the
// largest-footprint orientation that fits and center it, stacking
// additional units vertically within layer/weight limits.
func packCenteredDirect(c *loadmodel.Container, items []loadmodel.Item) []loadmodel.Item {
	if len(items) == 0 {
		return nil
	}
	box := items[0]
	cache := loadmodel.BuildOrientationCache(box)

	var chosen loadmodel.Orientation
	found := false
	for _, o := range cache.Orientations {
		if o.DX > c.Width+eps || o.DY > c.Length+eps || o.DZ > c.Height+eps {
			continue
		}
		if !found || o.Footprint > chosen.Footprint {
			chosen = o
			found = true
		}
	}
	if !found {
		return items
	}

	x := (c.Width - chosen.DX) / 2
	y := (c.Length - chosen.DY) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	maxLayersByStack := 10000
	if box.MaxStack > 0 {
		maxLayersByStack = box.MaxStack
	}
	maxLayersByHeight := int(c.Height / chosen.DZ)
	maxLayers := maxLayersByStack
	if maxLayersByHeight < maxLayers {
		maxLayers = maxLayersByHeight
	}

	var unused []loadmodel.Item
	for i, it := range items {
		layer := i + 1
		if layer > maxLayers {
			unused = append(unused, items[i:]...)
			break
		}
		if c.TotalWeight+it.Weight > c.MaxWeight+eps {
			unused = append(unused, items[i:]...)
			break
		}
		it.Position = loadmodel.Position{X: x, Y: y, Z: float64(i) * chosen.DZ}
		it.Rotation = chosen.Rotation
		it.Layer = layer
		it.Placed = true
		c.AddItem(it)
	}
	return unused
}

func storedPriorities(c *loadmodel.Container) map[int]bool {
	out := map[int]bool{}
	for _, it := range c.Items {
		out[it.PickupPriority] = true
	}
	return out
}

// packMixedSKU sorts by final_rank descending and drives each item through
// the BLF placer, honoring the priority admission window and cleaning up
// any overlapping/duplicate placements afterward.
func packMixedSKU(c *loadmodel.Container, items []loadmodel.Item) []loadmodel.Item {
	sorted := append([]loadmodel.Item{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FinalRank > sorted[j].FinalRank })

	placedIDs := map[int]bool{}
	for _, it := range c.Items {
		placedIDs[it.ID] = true
	}

	var unused []loadmodel.Item
	stored := storedPriorities(c)

	for _, item := range sorted {
		if placedIDs[item.ID] {
			continue
		}
		if !priorityAllowed(stored, item.PickupPriority) {
			unused = append(unused, item)
			continue
		}
		if c.TotalWeight+item.Weight > c.MaxWeight+eps {
			unused = append(unused, item)
			continue
		}

		res, ok := blf.FindBestPosition(c, item, nil)
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
		stored[item.PickupPriority] = true
	}

	removed := cleanupOverlapsAndDuplicates(c)
	if len(removed) > 0 {
		for _, it := range items {
			if removed[it.ID] {
				already := false
				for _, u := range unused {
					if u.ID == it.ID {
						already = true
						break
					}
				}
				if !already {
					unused = append(unused, it)
				}
			}
		}
	}

	return unused
}

// cleanupOverlapsAndDuplicates is a defensive post-sweep pass: drop
// duplicate ids and any item whose final position overlaps an
// earlier-kept one, rolling back the container's weight total for each
// removal.
func cleanupOverlapsAndDuplicates(c *loadmodel.Container) map[int]bool {
	seen := map[int]bool{}
	removed := map[int]bool{}
	var cleaned []loadmodel.Item

	overlaps := func(a, b loadmodel.Item) bool {
		adx, ady, adz := a.RotatedDims(a.Rotation)
		bdx, bdy, bdz := b.RotatedDims(b.Rotation)
		return !(a.Position.X+adx <= b.Position.X+eps ||
			b.Position.X+bdx <= a.Position.X+eps ||
			a.Position.Y+ady <= b.Position.Y+eps ||
			b.Position.Y+bdy <= a.Position.Y+eps ||
			a.Position.Z+adz <= b.Position.Z+eps ||
			b.Position.Z+bdz <= a.Position.Z+eps)
	}

	for _, item := range c.Items {
		if seen[item.ID] {
			c.TotalWeight -= item.Weight
			removed[item.ID] = true
			continue
		}
		hasOverlap := false
		for _, kept := range cleaned {
			if overlaps(item, kept) {
				hasOverlap = true
				break
			}
		}
		if hasOverlap {
			c.TotalWeight -= item.Weight
			removed[item.ID] = true
			continue
		}
		cleaned = append(cleaned, item)
		seen[item.ID] = true
	}
	if len(removed) > 0 {
		c.Items = cleaned
	}
	return removed
}
