package solver

import "github.com/piwi3910/loadplan/internal/loadmodel"

// TemplateCache is the layout template cache: keyed by (container type_id,
// door_type_int), populated on first successful pack, and replayed on a
// later container sharing the key when every slot's SKU signature is
// satisfiable from the remaining pool. Never used for pallets except as a
// disabled hint; scoped to a single solve.
type TemplateCache struct {
	templates map[loadmodel.TemplateKey][]loadmodel.PlacementTemplate
}

// NewTemplateCache returns an empty, solve-scoped cache.
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{templates: make(map[loadmodel.TemplateKey][]loadmodel.PlacementTemplate)}
}

// Record stores c's current placements as the template for its key after a
// successful pack. The first template recorded for a key is kept; later
// calls for the same key leave it unchanged.
func (tc *TemplateCache) Record(c *loadmodel.Container) {
	if c.DoorType() == loadmodel.DoorTypePallet {
		return
	}
	if _, exists := tc.templates[c.Key()]; exists {
		return
	}
	slots := make([]loadmodel.PlacementTemplate, len(c.Items))
	for i, it := range c.Items {
		dx, dy, dz := it.RotatedDims(it.Rotation)
		slots[i] = loadmodel.PlacementTemplate{
			X: it.Position.X, Y: it.Position.Y, Z: it.Position.Z,
			DX: dx, DY: dy, DZ: dz,
			Rotation: it.Rotation, LayerLevel: it.Layer,
			SKU: it.Signature(),
		}
	}
	tc.templates[c.Key()] = slots
}

// TryApply attempts to replay the cached template for c's key against the
// supplied candidate pool. It returns the items consumed (in slot order,
// positioned per the template) and ok=true only if every slot could be
// satisfied and the replay is collision-free; otherwise it returns
// ok=false and the caller must fall through to normal packing.
func (tc *TemplateCache) TryApply(c *loadmodel.Container, pool []loadmodel.Item) (placed []loadmodel.Item, ok bool) {
	if c.DoorType() == loadmodel.DoorTypePallet {
		return nil, false
	}
	slots, exists := tc.templates[c.Key()]
	if !exists || len(slots) == 0 {
		return nil, false
	}

	available := append([]loadmodel.Item{}, pool...)
	used := make([]bool, len(available))

	result := make([]loadmodel.Item, 0, len(slots))
	for _, slot := range slots {
		idx := -1
		for i, it := range available {
			if used[i] {
				continue
			}
			if matchesSignature(it, slot.SKU) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, false
		}
		used[idx] = true
		it := available[idx]
		it.Position = loadmodel.Position{X: slot.X, Y: slot.Y, Z: slot.Z}
		it.Rotation = slot.Rotation
		it.Layer = slot.LayerLevel
		it.Placed = true
		result = append(result, it)
	}

	if collides(result) {
		return nil, false
	}
	return result, true
}

func matchesSignature(it loadmodel.Item, sig loadmodel.SKUSignature) bool {
	return it.Signature() == sig
}

func collides(items []loadmodel.Item) bool {
	for i := 0; i < len(items); i++ {
		ai := items[i]
		adx, ady, adz := ai.RotatedDims(ai.Rotation)
		for j := i + 1; j < len(items); j++ {
			bj := items[j]
			bdx, bdy, bdz := bj.RotatedDims(bj.Rotation)
			overlap := ai.Position.X < bj.Position.X+bdx-loadmodel.Eps &&
				ai.Position.X+adx > bj.Position.X+loadmodel.Eps &&
				ai.Position.Y < bj.Position.Y+bdy-loadmodel.Eps &&
				ai.Position.Y+ady > bj.Position.Y+loadmodel.Eps &&
				ai.Position.Z < bj.Position.Z+bdz-loadmodel.Eps &&
				ai.Position.Z+adz > bj.Position.Z+loadmodel.Eps
			if overlap {
				return true
			}
		}
	}
	return false
}
