package solver

import (
	"testing"

	"github.com/piwi3910/loadplan/internal/config"
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/stretchr/testify/assert"
)

func uniformPool(n int) []loadmodel.Container {
	out := make([]loadmodel.Container, n)
	for i := range out {
		out[i] = loadmodel.Container{ID: i + 1, TypeID: "A", Length: 1000, Width: 1000, Height: 1000, MaxWeight: 500}
	}
	return out
}

func TestCapPoolLeavesSmallPoolsUntouched(t *testing.T) {
	pool := uniformPool(10)
	cfg := config.Default()
	out := CapPool(pool, nil, cfg)
	assert.Len(t, out, 10)
}

func TestCapPoolShrinksOversizedPool(t *testing.T) {
	pool := uniformPool(600)
	items := []loadmodel.Item{{ID: 1, Width: 100, Length: 100, Height: 100, Weight: 10}}
	cfg := config.Default()
	out := CapPool(pool, items, cfg)
	assert.Less(t, len(out), 600)
	assert.GreaterOrEqual(t, len(out), 3)
}

func TestCapPoolNeverDropsBelowOne(t *testing.T) {
	pool := uniformPool(600)
	cfg := config.Default()
	out := CapPool(pool, nil, cfg)
	assert.GreaterOrEqual(t, len(out), 1)
}
