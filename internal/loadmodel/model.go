// Package loadmodel defines the value types the load-planning core operates
// on: cargo Items, Containers (pallets or doored shipping containers),
// Placements, and the anonymized PlacementTemplate used by the layout cache.
package loadmodel

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Eps is the tolerance used throughout the core for floating point bounds,
// collision, and touch checks.
const Eps = 1e-5

// RotationPatterns maps a rotation index 0..5 to the permutation applied to
// (width, length, height). Rotation 0 is identity. This table is the single
// source of truth for the physical meaning of a rotation index carried in
// the output.
var RotationPatterns = [6][3]int{
	{0, 1, 2},
	{1, 0, 2},
	{2, 1, 0},
	{1, 2, 0},
	{0, 2, 1},
	{2, 0, 1},
}

// RotDim returns the rotated (w, l, h) for the given rotation index. Rotation
// values outside 0..5 are treated as identity.
func RotDim(w, l, h float64, rotation int) (float64, float64, float64) {
	dims := [3]float64{w, l, h}
	pattern := RotationPatterns[0]
	if rotation >= 0 && rotation < len(RotationPatterns) {
		pattern = RotationPatterns[rotation]
	}
	return dims[pattern[0]], dims[pattern[1]], dims[pattern[2]]
}

// Item is one physical unit of cargo.
type Item struct {
	ID              int
	OrderID         string
	ItemTypeID      string
	ItemType        string
	Width           float64
	Length          float64
	Height          float64
	Weight          float64
	IsSideUp        bool
	MaxStack        int     // -1 == unlimited
	MaxStackWeight  float64 // 0 == unset, negative == unlimited; resolved by EffectiveMaxStackWeight
	MustBeOnTop     bool
	Grounded        bool
	PickupPriority  int
	SendDateTS      int64 // seconds since epoch, 0 if unspecified
	PalletID        int   // original pallet id, set only for sim_batch items
	CoLocationGroup string

	// Placement state, set by the core during packing.
	Position  Position
	Placed    bool
	Rotation  int
	Layer     int
	FinalRank int
}

// Position is a min-corner AABB origin in world space.
type Position struct {
	X, Y, Z float64
}

// Volume returns w*l*h.
func (it Item) Volume() float64 {
	return it.Width * it.Length * it.Height
}

// EffectiveMaxStackWeight resolves the "unset" defaulting rule: the stack
// limit used for the default is MaxStack, or 10000 when MaxStack is -1
// (unlimited); if MaxStackWeight itself is unspecified it defaults to
// (stackLimit-1)*weight. Only a resulting negative value collapses to a
// large sentinel so downstream comparisons never need to special-case
// "negative means infinity" against a real weight value.
func (it Item) EffectiveMaxStackWeight() float64 {
	stackLimit := it.MaxStack
	if stackLimit < 0 {
		stackLimit = 10000
	}
	msw := it.MaxStackWeight
	if msw == 0 {
		msw = float64(stackLimit-1) * it.Weight
	}
	if msw < 0 {
		return math.MaxFloat64 / 2
	}
	return msw
}

// EffectiveMaxStack returns MaxStack with -1 (unlimited) resolved to a
// large finite cap of 10000.
func (it Item) EffectiveMaxStack() int {
	if it.MaxStack < 0 {
		return 10000
	}
	return it.MaxStack
}

// AllowedRotations returns the rotation indices this item may be placed in.
func (it Item) AllowedRotations() []int {
	if it.IsSideUp {
		return []int{0, 1}
	}
	return []int{0, 1, 2, 3, 4, 5}
}

// RotatedDims returns the rotated (dx, dy, dz) for the item's current
// Rotation field, or for an explicit rotation override.
func (it Item) RotatedDims(rotation int) (float64, float64, float64) {
	return RotDim(it.Width, it.Length, it.Height, rotation)
}

// SKUSignature is the identity used by the layout template cache and by
// mixed-SKU packing to test "does this item belong to the same column".
type SKUSignature struct {
	OrderID    string
	ItemTypeID string
	Length     float64
	Width      float64
	Height     float64
	Weight     float64
	IsSideUp   bool
	MaxStack   int
	Priority   int
	Grounded   bool
	ItemType   string
	SendDateTS int64
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Signature computes the item's SKUSignature with rounded geometry so
// floating point noise doesn't fragment otherwise-identical SKUs.
func (it Item) Signature() SKUSignature {
	return SKUSignature{
		OrderID:    it.OrderID,
		ItemTypeID: it.ItemTypeID,
		Length:     round4(it.Length),
		Width:      round4(it.Width),
		Height:     round4(it.Height),
		Weight:     round4(it.Weight),
		IsSideUp:   it.IsSideUp,
		MaxStack:   it.MaxStack,
		Priority:   it.PickupPriority,
		Grounded:   it.Grounded,
		ItemType:   it.ItemType,
		SendDateTS: it.SendDateTS,
	}
}

// Clone returns a copy of the item with placement state reset — used when
// cloning a candidate combination to trial-pack it without mutating the
// original input.
func (it Item) Clone() Item {
	c := it
	c.Position = Position{}
	c.Placed = false
	c.Rotation = 0
	c.Layer = 1
	return c
}

// DoorPosition is the door-side literal accepted on Container input.
type DoorPosition string

const (
	DoorNone  DoorPosition = ""
	DoorFront DoorPosition = "front"
	DoorSide  DoorPosition = "side"
	DoorLeft  DoorPosition = "left"
	DoorRight DoorPosition = "right"
	DoorBack  DoorPosition = "back"
	DoorTop   DoorPosition = "top"
)

// DoorType is the normalized internal door classification.
type DoorType int

const (
	// DoorTypePallet (-1): no door, floor-first fill.
	DoorTypePallet DoorType = -1
	// DoorTypeFront (1): any declared door folds to front-door semantics.
	DoorTypeFront DoorType = 1
)

// NormalizeDoorType folds any declared door string to DoorTypeFront:
// legacy side-door behaviour is folded into front-door semantics
// uniformly; an empty/unset door position means the container is a
// pallet.
func NormalizeDoorType(dp DoorPosition) DoorType {
	if dp == DoorNone {
		return DoorTypePallet
	}
	return DoorTypeFront
}

// Container is a pallet or shipping container.
type Container struct {
	ID             int
	TypeID         string
	Length         float64
	Width          float64
	Height         float64
	MaxWeight      float64
	ExLength       float64
	ExWidth        float64
	ExHeight       float64
	ExWeight       float64
	PickupPriority int
	DoorPosition   DoorPosition
	Origin         Position

	Items       []Item
	TotalWeight float64
}

// DoorType returns the normalized door classification for this container.
func (c *Container) DoorType() DoorType {
	return NormalizeDoorType(c.DoorPosition)
}

// Volume returns length*width*height of the loadable interior.
func (c *Container) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// Bounds returns the container's AABB in world space.
func (c *Container) Bounds() (xmin, ymin, zmin, xmax, ymax, zmax float64) {
	return c.Origin.X, c.Origin.Y, c.Origin.Z,
		c.Origin.X + c.Width, c.Origin.Y + c.Length, c.Origin.Z + c.Height
}

// AddItem appends a placed item and updates the running weight total
// incrementally rather than recomputing from scratch.
func (c *Container) AddItem(it Item) {
	c.Items = append(c.Items, it)
	c.TotalWeight += it.Weight
}

// RemainingWeightCapacity returns how much more weight the container can
// carry before exceeding MaxWeight (ignoring Eps).
func (c *Container) RemainingWeightCapacity() float64 {
	return c.MaxWeight - c.TotalWeight
}

// TemplateKey identifies container types for the layout template cache:
// containers with the same key can replay each other's layout.
type TemplateKey struct {
	TypeID   string
	DoorType DoorType
}

// Key returns this container's template cache key.
func (c *Container) Key() TemplateKey {
	return TemplateKey{TypeID: c.TypeID, DoorType: c.DoorType()}
}

// PoolTemplateKey groups containers for pool capping, which is keyed more
// finely than the layout template cache (geometry and weight matter, not
// just type id).
type PoolTemplateKey struct {
	TypeID    string
	Length    float64
	Width     float64
	Height    float64
	MaxWeight float64
	DoorType  DoorType
}

// PoolKey returns this container's pool-capping template key.
func (c *Container) PoolKey() PoolTemplateKey {
	return PoolTemplateKey{
		TypeID:    c.TypeID,
		Length:    c.Length,
		Width:     c.Width,
		Height:    c.Height,
		MaxWeight: c.MaxWeight,
		DoorType:  c.DoorType(),
	}
}

// Clone returns a copy of the container with an empty item list.
func (c *Container) Clone() Container {
	cp := *c
	cp.Items = nil
	cp.TotalWeight = 0
	return cp
}

// DeduplicatePlacements removes items that duplicate an already-seen id,
// deducting their weight. This is a defensive post-pass run after template
// replay or a mixed-SKU sweep. It returns the number of duplicates removed
// so callers can log a warning.
func (c *Container) DeduplicatePlacements() int {
	seen := make(map[int]bool, len(c.Items))
	kept := c.Items[:0]
	removed := 0
	for _, it := range c.Items {
		if seen[it.ID] {
			c.TotalWeight -= it.Weight
			removed++
			continue
		}
		seen[it.ID] = true
		kept = append(kept, it)
	}
	c.Items = kept
	return removed
}

// Placement is a packer-local record binding an item to a concrete pose
// inside a container. Packers build these while searching and commit
// the winning one onto the container's Items list.
type Placement struct {
	Item       Item
	X, Y, Z    float64
	Rotation   int
	DX, DY, DZ float64
	Supporters []int // item ids
	LayerLevel int
}

// Top returns the z-coordinate of the placement's top face.
func (p Placement) Top() float64 { return p.Z + p.DZ }

// PlacementTemplate is an anonymized (position, dims, rotation, layer,
// sku-signature) tuple recorded by the layout template cache.
type PlacementTemplate struct {
	X, Y, Z    float64
	DX, DY, DZ float64
	Rotation   int
	LayerLevel int
	SKU        SKUSignature
}

// NewUUID returns a short synthetic string identifier: the first eight
// characters of a random UUID.
func NewUUID() string {
	return uuid.New().String()[:8]
}

// SortItemsByFinalRankDesc sorts a slice of items by FinalRank descending
// — the global pack order convention where a larger final_rank means more
// urgent and is packed first.
func SortItemsByFinalRankDesc(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].FinalRank > items[j].FinalRank
	})
}
