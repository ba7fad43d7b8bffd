package solver

import (
	"math"

	"github.com/piwi3910/loadplan/internal/config"
	"github.com/piwi3910/loadplan/internal/loadmodel"
)

// CapPool trims an oversized container pool: above cfg.PoolCap entries,
// group containers by PoolKey and keep only as many of each template as
// the item set could plausibly need, plus a slack margin.
func CapPool(containers []loadmodel.Container, items []loadmodel.Item, cfg config.SolverConfig) []loadmodel.Container {
	if len(containers) <= cfg.PoolCap {
		return containers
	}

	totalVolume, totalWeight := 0.0, 0.0
	for _, it := range items {
		totalVolume += it.Volume()
		totalWeight += it.Weight
	}

	byTemplate := make(map[loadmodel.PoolTemplateKey][]loadmodel.Container)
	var order []loadmodel.PoolTemplateKey
	for _, c := range containers {
		k := c.PoolKey()
		if _, ok := byTemplate[k]; !ok {
			order = append(order, k)
		}
		byTemplate[k] = append(byTemplate[k], c)
	}

	var out []loadmodel.Container
	for _, k := range order {
		group := byTemplate[k]
		available := len(group)

		volume := k.Length * k.Width * k.Height
		needByVolume := 0
		if volume > 0 {
			needByVolume = int(math.Ceil(totalVolume / volume))
		}
		needByVolumeAt70 := 0
		if volume > 0 && cfg.TargetUtilization > 0 {
			needByVolumeAt70 = int(math.Ceil(totalVolume / (volume * cfg.TargetUtilization)))
		}
		needByWeight := 0
		if k.MaxWeight > 0 {
			needByWeight = int(math.Ceil(totalWeight / k.MaxWeight))
		}

		need := maxInt(needByVolume, needByVolumeAt70, needByWeight)
		slack := maxInt(3, int(math.Ceil(float64(need)*0.15))+1)
		target := minInt(available, need+slack)
		if target < 1 {
			target = 1
		}
		if target > available {
			target = available
		}
		out = append(out, group[:target]...)
	}
	return out
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
