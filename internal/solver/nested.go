package solver

import (
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/piwi3910/loadplan/internal/palletpack"
)

// PackPallets is phase one of nested pallets-in-container composition:
// pack each pallet's assigned products independently. ok is false if any
// pallet has leftover items, in which case the whole nested plan is
// rejected — a partially-loaded pallet can't be re-labeled as a single
// sim_batch unit.
func PackPallets(pallets []loadmodel.Container, itemsByPallet map[int][]loadmodel.Item) (packed []loadmodel.Container, ok bool) {
	packed = make([]loadmodel.Container, len(pallets))
	for i, p := range pallets {
		trial := p.Clone()
		unused := palletpack.Pack(&trial, itemsByPallet[p.ID])
		if len(unused) > 0 {
			return nil, false
		}
		packed[i] = trial
	}
	return packed, true
}

// BuildSimBatchItems implements the re-labeling step of nested composition:
// each packed pallet becomes a single synthetic Item sized to its external
// footprint plus the height of whatever got stacked on it, weighted by its
// own tare plus everything loaded, flagged so it can only sit grounded and
// un-stacked inside the outer container, and prioritized by the sum of the
// distinct pickup priorities it carries.
func BuildSimBatchItems(packedPallets []loadmodel.Container) []loadmodel.Item {
	out := make([]loadmodel.Item, 0, len(packedPallets))
	for _, p := range packedPallets {
		stackedHeight := 0.0
		packedWeight := 0.0
		uniquePriorities := make(map[int]bool)
		for _, it := range p.Items {
			_, _, dz := it.RotatedDims(it.Rotation)
			if top := it.Position.Z + dz; top > stackedHeight {
				stackedHeight = top
			}
			packedWeight += it.Weight
			uniquePriorities[it.PickupPriority] = true
		}
		prioritySum := 0
		for pr := range uniquePriorities {
			prioritySum += pr
		}

		out = append(out, loadmodel.Item{
			ID:             p.ID,
			ItemTypeID:     p.TypeID,
			ItemType:       "sim_batch",
			Width:          p.ExWidth,
			Length:         p.ExLength,
			Height:         p.ExHeight + stackedHeight,
			Weight:         p.ExWeight + packedWeight,
			IsSideUp:       true,
			MaxStack:       1,
			Grounded:       true,
			PickupPriority: prioritySum,
			PalletID:       p.ID,
			Layer:          1,
		})
	}
	return out
}
