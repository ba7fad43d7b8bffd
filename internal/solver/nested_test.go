package solver

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackPalletsRejectsPlanWhenAnyPalletHasLeftover(t *testing.T) {
	pallets := []loadmodel.Container{
		{ID: 1, TypeID: "pallet", Length: 100, Width: 100, Height: 100, MaxWeight: 1},
	}
	itemsByPallet := map[int][]loadmodel.Item{
		1: {{ID: 1, ItemTypeID: "a", Width: 500, Length: 500, Height: 500, Weight: 5, IsSideUp: true}},
	}

	_, ok := PackPallets(pallets, itemsByPallet)
	assert.False(t, ok)
}

func TestPackPalletsSucceedsWhenEverythingFits(t *testing.T) {
	pallets := []loadmodel.Container{
		{ID: 1, TypeID: "pallet", Length: 1200, Width: 800, Height: 1800, MaxWeight: 1000, ExLength: 1220, ExWidth: 820, ExHeight: 150, ExWeight: 25},
	}
	itemsByPallet := map[int][]loadmodel.Item{
		1: {{ID: 1, ItemTypeID: "a", Width: 200, Length: 200, Height: 100, Weight: 5, IsSideUp: true, PickupPriority: 3}},
	}

	packed, ok := PackPallets(pallets, itemsByPallet)
	require.True(t, ok)
	require.Len(t, packed, 1)
	assert.Len(t, packed[0].Items, 1)
}

func TestBuildSimBatchItemsDerivesDimsWeightAndPriority(t *testing.T) {
	pallet := loadmodel.Container{ID: 1, TypeID: "pallet", ExLength: 1220, ExWidth: 820, ExHeight: 150, ExWeight: 25}
	pallet.AddItem(loadmodel.Item{ID: 1, Width: 200, Length: 200, Height: 100, Weight: 5, PickupPriority: 3, Position: loadmodel.Position{Z: 0}})
	pallet.AddItem(loadmodel.Item{ID: 2, Width: 200, Length: 200, Height: 100, Weight: 5, PickupPriority: 4, Position: loadmodel.Position{Z: 100}})

	simBatch := BuildSimBatchItems([]loadmodel.Container{pallet})
	require.Len(t, simBatch, 1)
	item := simBatch[0]
	assert.Equal(t, 820.0, item.Width)
	assert.Equal(t, 1220.0, item.Length)
	assert.Equal(t, 150.0+200.0, item.Height)
	assert.Equal(t, 25.0+10.0, item.Weight)
	assert.True(t, item.IsSideUp)
	assert.Equal(t, 1, item.MaxStack)
	assert.True(t, item.Grounded)
	assert.Equal(t, 7, item.PickupPriority)
}
