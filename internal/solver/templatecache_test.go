package solver

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedContainer(id int) loadmodel.Container {
	c := loadmodel.Container{
		ID: id, TypeID: "box40", Length: 1200, Width: 1000, Height: 2000,
		MaxWeight: 5000, DoorPosition: loadmodel.DoorFront,
	}
	c.AddItem(loadmodel.Item{
		ID: 1, OrderID: "o1", ItemTypeID: "sku-a", ItemType: "carton",
		Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2,
		Position: loadmodel.Position{X: 0, Y: 0, Z: 0}, Placed: true, Layer: 1,
	})
	c.AddItem(loadmodel.Item{
		ID: 2, OrderID: "o1", ItemTypeID: "sku-b", ItemType: "carton",
		Width: 300, Length: 300, Height: 100, Weight: 15, MaxStack: 2,
		Position: loadmodel.Position{X: 400, Y: 0, Z: 0}, Placed: true, Layer: 1,
	})
	return c
}

func TestTemplateCacheReplaysSuccessfullyOntoSameKeyContainer(t *testing.T) {
	tc := NewTemplateCache()
	recorded := recordedContainer(1)
	tc.Record(&recorded)

	target := loadmodel.Container{ID: 2, TypeID: "box40", DoorPosition: loadmodel.DoorFront}
	pool := []loadmodel.Item{
		{ID: 11, OrderID: "o1", ItemTypeID: "sku-a", ItemType: "carton", Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2},
		{ID: 12, OrderID: "o1", ItemTypeID: "sku-b", ItemType: "carton", Width: 300, Length: 300, Height: 100, Weight: 15, MaxStack: 2},
	}

	placed, ok := tc.TryApply(&target, pool)
	require.True(t, ok)
	require.Len(t, placed, 2)
	assert.Equal(t, loadmodel.Position{X: 0, Y: 0, Z: 0}, placed[0].Position)
	assert.Equal(t, loadmodel.Position{X: 400, Y: 0, Z: 0}, placed[1].Position)
	assert.True(t, placed[0].Placed)
	assert.True(t, placed[1].Placed)
}

func TestTemplateCacheFallsBackWhenSignatureUnsatisfiable(t *testing.T) {
	tc := NewTemplateCache()
	recorded := recordedContainer(1)
	tc.Record(&recorded)

	target := loadmodel.Container{ID: 2, TypeID: "box40", DoorPosition: loadmodel.DoorFront}
	pool := []loadmodel.Item{
		{ID: 11, OrderID: "o1", ItemTypeID: "sku-a", ItemType: "carton", Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2},
		// no item matching sku-b's signature
	}

	placed, ok := tc.TryApply(&target, pool)
	assert.False(t, ok)
	assert.Nil(t, placed)
}

func TestTemplateCacheFallsBackOnCollidingReplay(t *testing.T) {
	tc := NewTemplateCache()

	// A template recorded from a container whose stored placements overlap
	// (e.g. a stale/corrupt record) must never be replayed.
	overlapping := loadmodel.Container{ID: 1, TypeID: "box40", DoorPosition: loadmodel.DoorFront}
	overlapping.AddItem(loadmodel.Item{
		ID: 1, OrderID: "o1", ItemTypeID: "sku-a", ItemType: "carton",
		Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2,
		Position: loadmodel.Position{X: 0, Y: 0, Z: 0}, Placed: true, Layer: 1,
	})
	overlapping.AddItem(loadmodel.Item{
		ID: 2, OrderID: "o1", ItemTypeID: "sku-b", ItemType: "carton",
		Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2,
		Position: loadmodel.Position{X: 50, Y: 50, Z: 0}, Placed: true, Layer: 1,
	})
	tc.Record(&overlapping)

	target := loadmodel.Container{ID: 2, TypeID: "box40", DoorPosition: loadmodel.DoorFront}
	pool := []loadmodel.Item{
		{ID: 11, OrderID: "o1", ItemTypeID: "sku-a", ItemType: "carton", Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2},
		{ID: 12, OrderID: "o1", ItemTypeID: "sku-b", ItemType: "carton", Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2},
	}

	placed, ok := tc.TryApply(&target, pool)
	assert.False(t, ok)
	assert.Nil(t, placed)
}

func TestTemplateCacheNeverRecordsOrAppliesForPallets(t *testing.T) {
	tc := NewTemplateCache()

	pallet := loadmodel.Container{ID: 1, TypeID: "pallet-eur", DoorPosition: loadmodel.DoorNone}
	pallet.AddItem(loadmodel.Item{
		ID: 1, OrderID: "o1", ItemTypeID: "sku-a", ItemType: "carton",
		Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2,
		Position: loadmodel.Position{X: 0, Y: 0, Z: 0}, Placed: true, Layer: 1,
	})
	tc.Record(&pallet)
	assert.Empty(t, tc.templates, "pallets must never populate the layout template cache")

	target := loadmodel.Container{ID: 2, TypeID: "pallet-eur", DoorPosition: loadmodel.DoorNone}
	pool := []loadmodel.Item{
		{ID: 11, OrderID: "o1", ItemTypeID: "sku-a", ItemType: "carton", Width: 200, Length: 200, Height: 100, Weight: 10, MaxStack: 2},
	}
	placed, ok := tc.TryApply(&target, pool)
	assert.False(t, ok)
	assert.Nil(t, placed)
}
