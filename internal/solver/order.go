package solver

import (
	"sort"

	"github.com/piwi3910/loadplan/internal/loadmodel"
)

// OrderOutput sorts each container's items for stable, readable output:
// door containers by (depth_center_along_door_axis, z_center,
// lateral_center) ascending, so the plan reads from the back wall (y = 0)
// toward the door; pallets by ascending (z, y, x) so the lowest layer comes
// first.
func OrderOutput(containers []loadmodel.Container) []loadmodel.Container {
	for i := range containers {
		sortContainerItems(&containers[i])
	}
	sort.SliceStable(containers, func(i, j int) bool {
		return containers[i].ID < containers[j].ID
	})
	return containers
}

func sortContainerItems(c *loadmodel.Container) {
	if c.DoorType() == loadmodel.DoorTypePallet {
		sort.SliceStable(c.Items, func(i, j int) bool {
			a, b := c.Items[i], c.Items[j]
			if a.Position.Z != b.Position.Z {
				return a.Position.Z < b.Position.Z
			}
			if a.Position.Y != b.Position.Y {
				return a.Position.Y < b.Position.Y
			}
			return a.Position.X < b.Position.X
		})
		return
	}

	sort.SliceStable(c.Items, func(i, j int) bool {
		a, b := c.Items[i], c.Items[j]
		da, db := depthCenter(a), depthCenter(b)
		if da != db {
			return da < db
		}
		za, zb := zCenter(a), zCenter(b)
		if za != zb {
			return za < zb
		}
		return lateralCenter(a) < lateralCenter(b)
	})
}

// depthCenter returns the item's center along the door axis (Y, matching
// the rest of the core's door-axis convention).
func depthCenter(it loadmodel.Item) float64 {
	_, dy, _ := it.RotatedDims(it.Rotation)
	return it.Position.Y + dy/2
}

func zCenter(it loadmodel.Item) float64 {
	_, _, dz := it.RotatedDims(it.Rotation)
	return it.Position.Z + dz/2
}

func lateralCenter(it loadmodel.Item) float64 {
	dx, _, _ := it.RotatedDims(it.Rotation)
	return it.Position.X + dx/2
}
