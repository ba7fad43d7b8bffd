// Package geomkernel provides the geometry primitives used throughout the
// packers: axis-aligned box rotation, bounds containment, collision,
// candidate-position generation, support/stacking, and priority-adjacency
// checks. Every check operates on a flat []PlacedItemRow built once per BLF
// call — a slice of small value-type structs gives the same cache-friendly,
// no-virtual-dispatch property a literal numeric matrix would, without Go
// code that reads like translated NumPy.
package geomkernel

import "github.com/piwi3910/loadplan/internal/loadmodel"

// Eps is the tolerance used for all bounds/collision/touch comparisons.
const Eps = loadmodel.Eps

// Bounds is a container's AABB in world space: [xmin,ymin,zmin] x [xmax,ymax,zmax].
type Bounds struct {
	XMin, YMin, ZMin float64
	XMax, YMax, ZMax float64
}

// BoundsOf returns the Bounds for a container.
func BoundsOf(c *loadmodel.Container) Bounds {
	xmin, ymin, zmin, xmax, ymax, zmax := c.Bounds()
	return Bounds{xmin, ymin, zmin, xmax, ymax, zmax}
}

// FitsWithinBounds reports whether the box at (x,y,z) with dims (dx,dy,dz)
// lies fully inside b, modulo Eps.
func FitsWithinBounds(x, y, z, dx, dy, dz float64, b Bounds) bool {
	if x < b.XMin-Eps || y < b.YMin-Eps || z < b.ZMin-Eps {
		return false
	}
	if x+dx > b.XMax+Eps || y+dy > b.YMax+Eps || z+dz > b.ZMax+Eps {
		return false
	}
	return true
}

// PlacedItemRow is one row of the placed-items matrix built once per BLF
// call. TypeID is a small stable integer mapping scoped to a single call
// (see TypeIDMap), not the item's string SKU.
type PlacedItemRow struct {
	ItemID         int
	X, Y, Z        float64
	DX, DY, DZ     float64
	TypeID         int
	Layer          int
	MaxStack       int
	MaxStackWeight float64
	MustBeOnTop    bool
	Weight         float64
	Priority       int
	OrderHash      uint32
	SendDateTS     int64
}

// TypeIDMap assigns small stable integers to SKU (ItemTypeID) strings,
// scoped to one BLF/tiler call.
type TypeIDMap struct {
	ids  map[string]int
	next int
}

// NewTypeIDMap returns an empty map; the first call to Get returns 1.
func NewTypeIDMap() *TypeIDMap {
	return &TypeIDMap{ids: make(map[string]int), next: 1}
}

// Get returns the stable integer id for sku, minting a new one if unseen.
func (m *TypeIDMap) Get(sku string) int {
	if id, ok := m.ids[sku]; ok {
		return id
	}
	id := m.next
	m.ids[sku] = id
	m.next++
	return id
}

// FNV1a32OrderHash hashes an order id into a stable, non-negative 31-bit
// integer so the placed-items matrix can compare orders by integer equality
// instead of carrying string columns. fnv1a32 is used instead of a
// language-level string hash so results are reproducible across runs.
func FNV1a32OrderHash(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h & 0x7fffffff
}

// BuildPlacedRows builds the placed-items matrix for a container's current
// items, reusing one TypeIDMap across a BLF call so the candidate item and
// every placed item share the same SKU -> int mapping.
func BuildPlacedRows(items []loadmodel.Item, typeIDs *TypeIDMap) []PlacedItemRow {
	rows := make([]PlacedItemRow, len(items))
	for i, it := range items {
		dx, dy, dz := it.RotatedDims(it.Rotation)
		rows[i] = PlacedItemRow{
			ItemID:         it.ID,
			X:              it.Position.X,
			Y:              it.Position.Y,
			Z:              it.Position.Z,
			DX:             dx,
			DY:             dy,
			DZ:             dz,
			TypeID:         typeIDs.Get(it.ItemTypeID),
			Layer:          maxInt(it.Layer, 1),
			MaxStack:       it.MaxStack,
			MaxStackWeight: it.EffectiveMaxStackWeight(),
			MustBeOnTop:    it.MustBeOnTop,
			Weight:         it.Weight,
			Priority:       it.PickupPriority,
			OrderHash:      FNV1a32OrderHash(it.OrderID),
			SendDateTS:     it.SendDateTS,
		}
	}
	return rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
