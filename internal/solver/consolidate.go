package solver

import (
	"sort"

	"github.com/piwi3910/loadplan/internal/loadmodel"
)

// Consolidate repeatedly tries to merge the least-full pallet-only
// container's items into an earlier, more-full pallet if everything fits,
// dropping the emptied container from the result. Door containers are left
// untouched. The loop repeats until no merge succeeds.
func Consolidate(containers []loadmodel.Container) []loadmodel.Container {
	out := make([]loadmodel.Container, len(containers))
	copy(out, containers)

	for {
		merged := false

		var palletIdx []int
		for i, c := range out {
			if c.DoorType() == loadmodel.DoorTypePallet && len(c.Items) > 0 {
				palletIdx = append(palletIdx, i)
			}
		}
		if len(palletIdx) < 2 {
			break
		}
		sort.Slice(palletIdx, func(a, b int) bool {
			return fillRatio(out[palletIdx[a]]) > fillRatio(out[palletIdx[b]])
		})

		source := palletIdx[len(palletIdx)-1]
		for _, target := range palletIdx[:len(palletIdx)-1] {
			if tryMergePallet(&out[target], &out[source]) {
				merged = true
				out = append(out[:source], out[source+1:]...)
				break
			}
		}

		if !merged {
			break
		}
	}
	return out
}

func fillRatio(c loadmodel.Container) float64 {
	v := c.Volume()
	if v <= 0 {
		return 0
	}
	used := 0.0
	for _, it := range c.Items {
		used += it.Volume()
	}
	return used / v
}

// tryMergePallet attempts to re-pack target's existing items plus all of
// source's items together into target. It succeeds only if every item
// from both containers fits, in which case target.Items is replaced with
// the merged placement and source is left unchanged for the caller to
// drop.
func tryMergePallet(target, source *loadmodel.Container) bool {
	combined := make([]loadmodel.Item, 0, len(target.Items)+len(source.Items))
	for _, it := range target.Items {
		combined = append(combined, it.Clone())
	}
	for _, it := range source.Items {
		combined = append(combined, it.Clone())
	}

	trial := target.Clone()
	unused := packContainer(&trial, combined)
	if len(unused) > 0 {
		return false
	}

	*target = trial
	return true
}
