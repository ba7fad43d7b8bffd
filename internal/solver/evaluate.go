package solver

import (
	"sort"

	"github.com/piwi3910/loadplan/internal/config"
	"github.com/piwi3910/loadplan/internal/doorpack"
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/piwi3910/loadplan/internal/palletpack"
)

// evalResult is one combination's trial-packed outcome.
type evalResult struct {
	containers []loadmodel.Container
	unused     []loadmodel.Item
}

func (r evalResult) placedCount(total int) int {
	return total - len(r.unused)
}

// packContainer dispatches to the pallet or door-container packer, keyed
// on the container's normalized door type.
func packContainer(c *loadmodel.Container, items []loadmodel.Item) []loadmodel.Item {
	if c.DoorType() == loadmodel.DoorTypePallet {
		return palletpack.Pack(c, items)
	}
	return doorpack.Pack(c, items)
}

// evaluateCombo clones the combination and the item pool, sorts containers
// by (pickup_priority, -volume), packs each in turn, and applies the
// container-swap heuristic when a packed container's leftover capacity
// suggests a smaller unused container in the pool would have sufficed.
func evaluateCombo(combo []loadmodel.Container, items []loadmodel.Item, unusedPool []loadmodel.Container, tc *TemplateCache) evalResult {
	containers := make([]loadmodel.Container, len(combo))
	for i, c := range combo {
		containers[i] = c.Clone()
	}
	sort.SliceStable(containers, func(i, j int) bool {
		if containers[i].PickupPriority != containers[j].PickupPriority {
			return containers[i].PickupPriority < containers[j].PickupPriority
		}
		return containers[i].Volume() > containers[j].Volume()
	})

	remaining := make([]loadmodel.Item, len(items))
	copy(remaining, items)

	for i := range containers {
		c := &containers[i]

		if tc != nil {
			if placed, ok := tc.TryApply(c, remaining); ok {
				remaining = subtractPlaced(remaining, placed)
				for _, it := range placed {
					c.AddItem(it)
				}
				continue
			}
		}

		unused := packContainer(c, remaining)
		if len(unused) < len(remaining) && tc != nil {
			tc.Record(c)
		}
		remaining = unused

		tryShrinkContainer(c, unusedPool)
	}

	return evalResult{containers: containers, unused: remaining}
}

// tryShrinkContainer implements the container-swap heuristic: if a
// smaller unused door container of the same door type could still hold
// everything placed (the placed items' x/y/z extent and total weight),
// the smallest such container's dims, weight cap, external dims and type
// id are copied onto c. The swap only changes reported geometry metadata;
// item positions are unaffected since the replacement's interior is
// required to contain every placed item's extent. Pallets are never
// swapped.
func tryShrinkContainer(c *loadmodel.Container, unusedPool []loadmodel.Container) {
	if len(c.Items) == 0 || c.DoorType() == loadmodel.DoorTypePallet {
		return
	}
	maxX, maxY, maxZ := 0.0, 0.0, 0.0
	for _, it := range c.Items {
		dx, dy, dz := it.RotatedDims(it.Rotation)
		if v := it.Position.X + dx; v > maxX {
			maxX = v
		}
		if v := it.Position.Y + dy; v > maxY {
			maxY = v
		}
		if v := it.Position.Z + dz; v > maxZ {
			maxZ = v
		}
	}

	var best *loadmodel.Container
	for i := range unusedPool {
		cand := &unusedPool[i]
		if cand.DoorType() != c.DoorType() {
			continue
		}
		if cand.Width+loadmodel.Eps < maxX || cand.Length+loadmodel.Eps < maxY || cand.Height+loadmodel.Eps < maxZ {
			continue
		}
		if cand.MaxWeight+loadmodel.Eps < c.TotalWeight {
			continue
		}
		if cand.Volume() >= c.Volume() {
			continue
		}
		if best == nil || cand.Volume() < best.Volume() {
			best = cand
		}
	}
	if best == nil {
		return
	}
	c.Length, c.Width, c.Height = best.Length, best.Width, best.Height
	c.MaxWeight = best.MaxWeight
	c.ExLength, c.ExWidth, c.ExHeight, c.ExWeight = best.ExLength, best.ExWidth, best.ExHeight, best.ExWeight
	c.TypeID = best.TypeID
}

func subtractPlaced(pool []loadmodel.Item, placed []loadmodel.Item) []loadmodel.Item {
	placedIDs := make(map[int]bool, len(placed))
	for _, it := range placed {
		placedIDs[it.ID] = true
	}
	out := make([]loadmodel.Item, 0, len(pool)-len(placed))
	for _, it := range pool {
		if !placedIDs[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// EvaluateCombinations runs the overall evaluation strategy: for large
// instances only the first cfg.EvaluateTopN (pre-ranked) combinations are
// trial-packed, falling back to a full-pool pack as a last resort; for
// small instances every capped combination is evaluated with an early exit
// the moment one places everything.
func EvaluateCombinations(combos [][]loadmodel.Container, fullPool []loadmodel.Container, items []loadmodel.Item, cfg config.SolverConfig) evalResult {
	if len(combos) == 0 {
		return evalResult{unused: items}
	}

	tc := NewTemplateCache()
	large := len(items) >= cfg.LargeInstanceItemThreshold

	candidates := combos
	if large && len(candidates) > cfg.EvaluateTopN {
		candidates = candidates[:cfg.EvaluateTopN]
	}

	var best *evalResult
	for _, combo := range candidates {
		unusedPool := poolMinusCombo(fullPool, combo)
		result := evaluateCombo(combo, items, unusedPool, tc)
		if best == nil || result.placedCount(len(items)) > best.placedCount(len(items)) {
			r := result
			best = &r
		}
		if len(result.unused) == 0 {
			return result
		}
	}

	if large {
		unusedPool := poolMinusCombo(fullPool, fullPool)
		fallback := evaluateCombo(fullPool, items, unusedPool, tc)
		if best == nil || fallback.placedCount(len(items)) > best.placedCount(len(items)) {
			best = &fallback
		}
	}

	return *best
}

func poolMinusCombo(pool []loadmodel.Container, combo []loadmodel.Container) []loadmodel.Container {
	used := make(map[int]bool, len(combo))
	for _, c := range combo {
		used[c.ID] = true
	}
	var out []loadmodel.Container
	for _, c := range pool {
		if !used[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
