package solver

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/config"
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateComboPacksAllItemsIntoOnePallet(t *testing.T) {
	combo := []loadmodel.Container{
		{ID: 1, TypeID: "pallet", Length: 1200, Width: 800, Height: 1800, MaxWeight: 1000},
	}
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 200, Length: 200, Height: 100, Weight: 5, IsSideUp: true},
	}

	result := evaluateCombo(combo, items, nil, nil)
	assert.Empty(t, result.unused)
	require.Len(t, result.containers, 1)
	assert.Len(t, result.containers[0].Items, 1)
}

func TestEvaluateComboSortsContainersByPriorityThenVolume(t *testing.T) {
	combo := []loadmodel.Container{
		{ID: 2, TypeID: "small", Length: 500, Width: 500, Height: 500, MaxWeight: 1000, PickupPriority: 1},
		{ID: 1, TypeID: "big", Length: 1000, Width: 1000, Height: 1000, MaxWeight: 1000, PickupPriority: 1},
	}
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 100, Length: 100, Height: 100, Weight: 1, IsSideUp: true},
	}

	result := evaluateCombo(combo, items, nil, nil)
	require.Len(t, result.containers, 2)
	assert.Equal(t, 1, result.containers[0].ID)
}

func TestEvaluateCombinationsReturnsUnusedWhenNothingFits(t *testing.T) {
	cfg := config.Default()
	pool := []loadmodel.Container{
		{ID: 1, TypeID: "tiny", Length: 10, Width: 10, Height: 10, MaxWeight: 1},
	}
	items := []loadmodel.Item{
		{ID: 1, ItemTypeID: "a", Width: 500, Length: 500, Height: 500, Weight: 5, IsSideUp: true},
	}
	combos := EnumerateCombinations(pool, items, cfg)

	result := EvaluateCombinations(combos, pool, items, cfg)
	assert.Len(t, result.unused, 1)
}
