package tiler

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformItems(n int, w, l, h float64) []loadmodel.Item {
	items := make([]loadmodel.Item, n)
	for i := range items {
		items[i] = loadmodel.Item{ID: i + 1, ItemTypeID: "sku-a", Width: w, Length: l, Height: h, IsSideUp: true}
	}
	return items
}

func TestTileUniformGridFullyCoversEvenFloor(t *testing.T) {
	c := &loadmodel.Container{Width: 400, Length: 800, Height: 1000}
	items := uniformItems(8, 200, 200, 100)

	res := Tile(c, items, true, false)
	require.Equal(t, 8, res.BoxesPerLayer)
	assert.InDelta(t, 1.0, res.Coverage, 1e-6)
	assert.Empty(t, res.Unplaced)
}

func TestTileLeavesExcessItemsUnplaced(t *testing.T) {
	c := &loadmodel.Container{Width: 400, Length: 400, Height: 1000}
	items := uniformItems(10, 200, 200, 100)

	res := Tile(c, items, true, false)
	assert.Equal(t, 4, res.BoxesPerLayer)
	assert.Len(t, res.Unplaced, 6)
}

func TestTileMixedDimensionsFallsBackToMaxRects(t *testing.T) {
	c := &loadmodel.Container{Width: 600, Length: 600, Height: 1000}
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 300, Length: 300, Height: 100, IsSideUp: true},
		{ID: 2, ItemTypeID: "b", Width: 200, Length: 150, Height: 100, IsSideUp: true},
		{ID: 3, ItemTypeID: "c", Width: 100, Length: 100, Height: 100, IsSideUp: true},
	}

	res := Tile(c, items, false, true)
	assert.Len(t, res.Placements, 3)
}

func TestTileProducesNoOverlappingPlacements(t *testing.T) {
	c := &loadmodel.Container{Width: 1000, Length: 1000, Height: 1000}
	items := uniformItems(12, 250, 200, 100)
	res := Tile(c, items, true, false)

	for i := 0; i < len(res.Placements); i++ {
		for j := i + 1; j < len(res.Placements); j++ {
			a, b := res.Placements[i], res.Placements[j]
			overlapX := a.X < b.X+250 && a.X+250 > b.X
			overlapY := a.Y < b.Y+200 && a.Y+200 > b.Y
			assert.False(t, overlapX && overlapY, "placements %d and %d overlap", a.ItemID, b.ItemID)
		}
	}
}
