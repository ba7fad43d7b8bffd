// Package stage performs input staging and validation: quantity expansion,
// final-rank computation, and priority normalization, ahead of solving.
package stage

import (
	"math"
	"sort"

	"github.com/piwi3910/loadplan/internal/loadmodel"
)

// ItemGroup is one input row describing N identical units of cargo, prior to
// per-quantity expansion into individual loadmodel.Item values.
type ItemGroup struct {
	OrderID         string
	ItemTypeID      string
	ItemType        string
	Width           float64
	Length          float64
	Height          float64
	Weight          float64
	Quantity        int
	IsSideUp        bool
	MaxStack        int
	MaxStackWeight  float64
	MustBeOnTop     bool
	Grounded        bool
	PickupPriority  int
	SendDateTS      int64
	CoLocationGroup string
}

// ExpandItems expands quantity-bearing groups into one loadmodel.Item per
// unit, assigning sequential integer ids.
func ExpandItems(groups []ItemGroup) []loadmodel.Item {
	var out []loadmodel.Item
	nextID := 1
	for _, g := range groups {
		qty := g.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			out = append(out, loadmodel.Item{
				ID:              nextID,
				OrderID:         g.OrderID,
				ItemTypeID:      g.ItemTypeID,
				ItemType:        g.ItemType,
				Width:           g.Width,
				Length:          g.Length,
				Height:          g.Height,
				Weight:          g.Weight,
				IsSideUp:        g.IsSideUp,
				MaxStack:        g.MaxStack,
				MaxStackWeight:  g.MaxStackWeight,
				MustBeOnTop:     g.MustBeOnTop,
				Grounded:        g.Grounded,
				PickupPriority:  g.PickupPriority,
				SendDateTS:      g.SendDateTS,
				CoLocationGroup: g.CoLocationGroup,
				Layer:           1,
			})
			nextID++
		}
	}
	return out
}

// ContainerGroup is one input row describing N identical pallets/containers,
// prior to per-quantity expansion.
type ContainerGroup struct {
	TypeID         string
	Length         float64
	Width          float64
	Height         float64
	MaxWeight      float64
	ExLength       float64
	ExWidth        float64
	ExHeight       float64
	ExWeight       float64
	Quantity       int
	PickupPriority int
	DoorPosition   loadmodel.DoorPosition
}

// ExpandContainers expands quantity-bearing container groups into one
// loadmodel.Container per unit, assigning sequential integer ids.
func ExpandContainers(groups []ContainerGroup, origin loadmodel.Position) []loadmodel.Container {
	var out []loadmodel.Container
	nextID := 1
	for _, g := range groups {
		qty := g.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			out = append(out, loadmodel.Container{
				ID:             nextID,
				TypeID:         g.TypeID,
				Length:         g.Length,
				Width:          g.Width,
				Height:         g.Height,
				MaxWeight:      g.MaxWeight,
				ExLength:       g.ExLength,
				ExWidth:        g.ExWidth,
				ExHeight:       g.ExHeight,
				ExWeight:       g.ExWeight,
				PickupPriority: g.PickupPriority,
				DoorPosition:   g.DoorPosition,
				Origin:         origin,
			})
			nextID++
		}
	}
	return out
}

// rankKey is the final-rank grouping tuple: (senddate_ts, order_id,
// pickup_priority, weight, volume, itemType_id), with weight/volume rounded
// so floating point noise doesn't fragment an otherwise-identical group.
// Weight and volume are rounded at different precisions (3 and 1 decimals
// respectively) to match the units each is normally expressed in.
type rankKey struct {
	sendDateTS int64
	orderID    string
	priority   int
	weight     float64
	volume     float64
	itemTypeID string
}

func roundWeight(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func roundVolume(v float64) float64 {
	return math.Round(v*10) / 10
}

func keyOf(it loadmodel.Item) rankKey {
	return rankKey{
		sendDateTS: it.SendDateTS,
		orderID:    it.OrderID,
		priority:   it.PickupPriority,
		weight:     roundWeight(it.Weight),
		volume:     roundVolume(it.Volume()),
		itemTypeID: it.ItemTypeID,
	}
}

func lessKey(a, b rankKey) bool {
	if a.sendDateTS != b.sendDateTS {
		return a.sendDateTS < b.sendDateTS
	}
	if a.orderID != b.orderID {
		return a.orderID < b.orderID
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	if a.volume != b.volume {
		return a.volume < b.volume
	}
	return a.itemTypeID < b.itemTypeID
}

// AssignFinalRank computes final_rank for every item in place. Items are
// grouped by the rounded 6-tuple key, groups are sorted ascending
// lexicographically, and every item in a group receives final_rank = group
// index + 1. This must run before NormalizePriorities so ranks reflect raw
// input priorities, not normalized ones.
func AssignFinalRank(items []loadmodel.Item) {
	if len(items) == 0 {
		return
	}
	keys := make([]rankKey, 0, len(items))
	seen := make(map[rankKey]bool, len(items))
	for _, it := range items {
		k := keyOf(it)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	rankOf := make(map[rankKey]int, len(keys))
	for i, k := range keys {
		rankOf[k] = i + 1
	}
	for i := range items {
		items[i].FinalRank = rankOf[keyOf(items[i])]
	}
}

// NormalizePriorities normalizes pickup priorities: if every input priority
// is positive they are kept; if every one is negative they are re-indexed by
// ascending sorted order so the most-negative becomes 1; mixed signs map to
// absolute values. The output invariant is that every priority is a positive
// integer with 1 meaning most urgent.
func NormalizePriorities(items []loadmodel.Item) {
	if len(items) == 0 {
		return
	}
	allPositive, allNegative := true, true
	for _, it := range items {
		if it.PickupPriority <= 0 {
			allPositive = false
		}
		if it.PickupPriority >= 0 {
			allNegative = false
		}
	}

	switch {
	case allPositive:
		return
	case allNegative:
		uniq := make(map[int]bool)
		for _, it := range items {
			uniq[it.PickupPriority] = true
		}
		sorted := make([]int, 0, len(uniq))
		for v := range uniq {
			sorted = append(sorted, v)
		}
		sort.Ints(sorted) // most negative first
		rank := make(map[int]int, len(sorted))
		for i, v := range sorted {
			rank[v] = i + 1
		}
		for i := range items {
			items[i].PickupPriority = rank[items[i].PickupPriority]
		}
	default:
		for i := range items {
			if items[i].PickupPriority < 0 {
				items[i].PickupPriority = -items[i].PickupPriority
			}
			if items[i].PickupPriority == 0 {
				items[i].PickupPriority = 1
			}
		}
	}
}

// Stage runs final-rank computation followed by priority normalization, in
// that order, so ranks reflect raw (pre-normalization) priorities.
func Stage(items []loadmodel.Item) {
	AssignFinalRank(items)
	NormalizePriorities(items)
}

// FitsInAnyRotation reports whether the item's bounding box fits within the
// container's interior in at least one allowed rotation. Used as the
// structural-infeasibility fast path: an item larger than every container
// in every rotation is never placeable and can be short-circuited straight
// to unused without running the packer.
func FitsInAnyRotation(it loadmodel.Item, c loadmodel.Container) bool {
	for _, r := range it.AllowedRotations() {
		dx, dy, dz := it.RotatedDims(r)
		if dx <= c.Width+loadmodel.Eps && dy <= c.Length+loadmodel.Eps && dz <= c.Height+loadmodel.Eps {
			return true
		}
	}
	return false
}

// FitsInAnyContainer reports whether at least one container in the pool can
// hold the item in some rotation (ignoring weight/stacking — a pure
// geometric admissibility check).
func FitsInAnyContainer(it loadmodel.Item, containers []loadmodel.Container) bool {
	for _, c := range containers {
		if FitsInAnyRotation(it, c) {
			return true
		}
	}
	return false
}
