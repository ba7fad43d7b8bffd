package palletpack

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pallet() *loadmodel.Container {
	return &loadmodel.Container{Width: 800, Length: 1200, Height: 1800, MaxWeight: 1000}
}

func TestPackSingleItemCentersIt(t *testing.T) {
	c := pallet()
	items := []loadmodel.Item{{ID: 1, ItemTypeID: "a", Width: 200, Length: 300, Height: 100, Weight: 10}}

	unused := Pack(c, items)
	assert.Empty(t, unused)
	require.Len(t, c.Items, 1)
	placed := c.Items[0]
	dx, dy, _ := placed.RotatedDims(placed.Rotation)
	assert.InDelta(t, (c.Width-dx)/2, placed.Position.X, 1e-6)
	assert.InDelta(t, (c.Length-dy)/2, placed.Position.Y, 1e-6)
}

func TestPackSingleSKUStacksMultipleUnits(t *testing.T) {
	c := pallet()
	items := make([]loadmodel.Item, 6)
	for i := range items {
		items[i] = loadmodel.Item{ID: i + 1, ItemTypeID: "a", Width: 200, Length: 200, Height: 100, Weight: 5, IsSideUp: true, MaxStack: -1}
	}

	unused := Pack(c, items)
	assert.Empty(t, unused)
	assert.Len(t, c.Items, 6)
}

func TestPackMixedSKUPlacesViaBLF(t *testing.T) {
	c := pallet()
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 200, Length: 200, Height: 100, Weight: 5, IsSideUp: true, FinalRank: 2},
		{ID: 2, ItemTypeID: "b", Width: 150, Length: 150, Height: 100, Weight: 5, IsSideUp: true, FinalRank: 1},
	}

	unused := Pack(c, items)
	assert.Empty(t, unused)
	assert.Len(t, c.Items, 2)
}

func TestPackRejectsOverweightItems(t *testing.T) {
	c := &loadmodel.Container{Width: 800, Length: 1200, Height: 1800, MaxWeight: 5}
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 100, Length: 100, Height: 100, Weight: 10, IsSideUp: true},
	}

	unused := Pack(c, items)
	assert.Len(t, unused, 1)
	assert.Empty(t, c.Items)
}

func TestPriorityAllowedWindowRule(t *testing.T) {
	stored := map[int]bool{1: true}
	assert.True(t, priorityAllowed(stored, 1))
	assert.True(t, priorityAllowed(stored, 2))
	assert.False(t, priorityAllowed(stored, 3))
}

func TestPackMixedSKURejectsCandidateOutsidePriorityWindow(t *testing.T) {
	c := pallet()
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 200, Length: 200, Height: 100, Weight: 5, IsSideUp: true, PickupPriority: 1, FinalRank: 2},
		{ID: 2, ItemTypeID: "b", Width: 150, Length: 150, Height: 100, Weight: 5, IsSideUp: true, PickupPriority: 5, FinalRank: 1},
	}

	unused := Pack(c, items)
	require.Len(t, unused, 1)
	assert.Equal(t, 2, unused[0].ID)
	assert.Len(t, c.Items, 1)
}
