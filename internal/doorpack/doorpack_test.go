package doorpack

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doorContainer() *loadmodel.Container {
	return &loadmodel.Container{
		Width: 1000, Length: 2000, Height: 1500, MaxWeight: 5000,
		DoorPosition: loadmodel.DoorFront,
	}
}

func TestPackIdenticalItemsUsesGridFastPath(t *testing.T) {
	c := doorContainer()
	items := make([]loadmodel.Item, 4)
	for i := range items {
		items[i] = loadmodel.Item{ID: i + 1, ItemTypeID: "a", Width: 400, Length: 500, Height: 300, Weight: 10, IsSideUp: true}
	}

	unused := Pack(c, items)
	assert.Empty(t, unused)
	assert.Len(t, c.Items, 4)
}

func TestPackMixedRankOrderedSweep(t *testing.T) {
	c := doorContainer()
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 300, Length: 300, Height: 200, Weight: 10, IsSideUp: true, FinalRank: 1},
		{ID: 2, ItemTypeID: "b", Width: 400, Length: 400, Height: 200, Weight: 10, IsSideUp: true, FinalRank: 2},
	}

	unused := Pack(c, items)
	assert.Empty(t, unused)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].ID, "higher final_rank item should be placed first")
}

func TestPackSimBatchFloorPrefillCommitsTilerPositions(t *testing.T) {
	c := doorContainer()
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "pallet-1", ItemType: "sim_batch", Width: 500, Length: 600, Height: 400, Weight: 50, IsSideUp: true},
		{ID: 2, ItemTypeID: "pallet-2", ItemType: "sim_batch", Width: 500, Length: 600, Height: 400, Weight: 50, IsSideUp: true},
	}

	unused := Pack(c, items)
	assert.Empty(t, unused)
	require.Len(t, c.Items, 2)
	for _, it := range c.Items {
		assert.Equal(t, 1, it.Layer)
		assert.Equal(t, 1, it.MaxStack)
		assert.Equal(t, 0.0, it.Position.Z)
	}
}

func TestPackRejectsOverweightItems(t *testing.T) {
	c := &loadmodel.Container{Width: 1000, Length: 2000, Height: 1500, MaxWeight: 5, DoorPosition: loadmodel.DoorFront}
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 300, Length: 300, Height: 200, Weight: 10, IsSideUp: true},
	}

	unused := Pack(c, items)
	require.Len(t, unused, 1)
	assert.Empty(t, c.Items)
}
