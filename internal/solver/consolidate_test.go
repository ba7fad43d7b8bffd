package solver

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidateMergesSparsePalletIntoFullerOne(t *testing.T) {
	full := loadmodel.Container{ID: 1, TypeID: "pallet", Length: 1200, Width: 800, Height: 1800, MaxWeight: 1000}
	full.AddItem(loadmodel.Item{ID: 1, ItemTypeID: "a", Width: 700, Length: 1100, Height: 1700, Weight: 100, IsSideUp: true, Position: loadmodel.Position{X: 50, Y: 50, Z: 0}})

	sparse := loadmodel.Container{ID: 2, TypeID: "pallet", Length: 1200, Width: 800, Height: 1800, MaxWeight: 1000}
	sparse.AddItem(loadmodel.Item{ID: 2, ItemTypeID: "b", Width: 50, Length: 50, Height: 50, Weight: 5, IsSideUp: true})

	out := Consolidate([]loadmodel.Container{full, sparse})
	assert.Len(t, out, 1)
}

func TestConsolidateLeavesDoorContainersAlone(t *testing.T) {
	door := loadmodel.Container{ID: 1, TypeID: "c", Length: 1000, Width: 1000, Height: 1000, MaxWeight: 1000, DoorPosition: loadmodel.DoorFront}
	door.AddItem(loadmodel.Item{ID: 1, Width: 50, Length: 50, Height: 50, Weight: 5})

	out := Consolidate([]loadmodel.Container{door})
	require.Len(t, out, 1)
	assert.Len(t, out[0].Items, 1)
}

func TestConsolidateNoOpWithFewerThanTwoPallets(t *testing.T) {
	pallet := loadmodel.Container{ID: 1, TypeID: "pallet", Length: 1200, Width: 800, Height: 1800, MaxWeight: 1000}
	pallet.AddItem(loadmodel.Item{ID: 1, Width: 50, Length: 50, Height: 50, Weight: 5})

	out := Consolidate([]loadmodel.Container{pallet})
	assert.Len(t, out, 1)
}
