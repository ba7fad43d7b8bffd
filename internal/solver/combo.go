package solver

import (
	"sort"
	"strconv"
	"strings"

	"github.com/piwi3910/loadplan/internal/config"
	"github.com/piwi3910/loadplan/internal/loadmodel"
)

// combo is one candidate combination of pool indices.
type combo struct {
	indices []int
	key     costKey
}

// costKey is the 5-key cost tuple combinations are ranked by. Lower is
// better, compared lexicographically.
type costKey struct {
	size                 int
	slackRatio           float64
	oneMinusWorstBinUtil float64
	maxContainerVolume   float64
	avgContainerVolume   float64
}

func lessKey(a, b costKey) bool {
	if a.size != b.size {
		return a.size < b.size
	}
	if a.slackRatio != b.slackRatio {
		return a.slackRatio < b.slackRatio
	}
	if a.oneMinusWorstBinUtil != b.oneMinusWorstBinUtil {
		return a.oneMinusWorstBinUtil < b.oneMinusWorstBinUtil
	}
	if a.maxContainerVolume != b.maxContainerVolume {
		return a.maxContainerVolume < b.maxContainerVolume
	}
	return a.avgContainerVolume < b.avgContainerVolume
}

func computeCostKey(containers []loadmodel.Container, totalItemVolume float64) costKey {
	sorted := append([]loadmodel.Container{}, containers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Volume() > sorted[j].Volume() })

	var sumVolume, maxVolume float64
	worstUtil := 1.0
	haveWorst := false
	remaining := totalItemVolume
	for _, c := range sorted {
		v := c.Volume()
		sumVolume += v
		if v > maxVolume {
			maxVolume = v
		}
		assign := remaining
		if assign > v {
			assign = v
		}
		if assign < 0 {
			assign = 0
		}
		util := 0.0
		if v > 0 {
			util = assign / v
		}
		if !haveWorst || util < worstUtil {
			worstUtil = util
			haveWorst = true
		}
		remaining -= assign
	}

	slackRatio := 0.0
	if totalItemVolume > 0 {
		slackRatio = (sumVolume - totalItemVolume) / totalItemVolume
	}
	avgVolume := 0.0
	if len(sorted) > 0 {
		avgVolume = sumVolume / float64(len(sorted))
	}

	return costKey{
		size:                 len(sorted),
		slackRatio:           slackRatio,
		oneMinusWorstBinUtil: 1 - worstUtil,
		maxContainerVolume:   maxVolume,
		avgContainerVolume:   avgVolume,
	}
}

func totalVolumeWeight(items []loadmodel.Item) (volume, weight float64) {
	for _, it := range items {
		volume += it.Volume()
		weight += it.Weight
	}
	return
}

// EnumerateCombinations builds candidate container combinations: for small
// pools, enumerate every feasible non-empty subset (plus the full set as a
// fallback); for large pools, backtrack over per-template counts. Either
// way the result is ranked by costKey and capped at cfg.TopCombosKept.
func EnumerateCombinations(pool []loadmodel.Container, items []loadmodel.Item, cfg config.SolverConfig) [][]loadmodel.Container {
	if len(pool) == 0 {
		return nil
	}

	sameTemplate := true
	firstKey := pool[0].PoolKey()
	for _, c := range pool[1:] {
		if c.PoolKey() != firstKey {
			sameTemplate = false
			break
		}
	}
	if sameTemplate && len(pool) > 1 {
		return [][]loadmodel.Container{append([]loadmodel.Container{}, pool...)}
	}

	itemVolume, itemWeight := totalVolumeWeight(items)

	var combos []combo
	fullIdx := make([]int, len(pool))
	for i := range pool {
		fullIdx[i] = i
	}
	combos = append(combos, combo{indices: fullIdx, key: computeCostKey(pool, itemVolume)})

	if len(pool) <= cfg.SmallComboThreshold {
		combos = append(combos, enumerateSubsets(pool, itemVolume, itemWeight)...)
	} else {
		combos = append(combos, backtrackByTemplate(pool, itemVolume, itemWeight)...)
	}

	combos = dedupeCombos(combos)
	sort.Slice(combos, func(i, j int) bool { return lessKey(combos[i].key, combos[j].key) })
	if len(combos) > cfg.TopCombosKept {
		combos = combos[:cfg.TopCombosKept]
	}

	out := make([][]loadmodel.Container, len(combos))
	for i, cb := range combos {
		containers := make([]loadmodel.Container, len(cb.indices))
		for j, idx := range cb.indices {
			containers[j] = pool[idx]
		}
		out[i] = containers
	}
	return out
}

func enumerateSubsets(pool []loadmodel.Container, itemVolume, itemWeight float64) []combo {
	n := len(pool)
	var out []combo
	for mask := 1; mask < (1 << n); mask++ {
		var indices []int
		var volume, weightCap float64
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				indices = append(indices, i)
				volume += pool[i].Volume()
				weightCap += pool[i].MaxWeight
			}
		}
		if volume+loadmodel.Eps < itemVolume || weightCap+loadmodel.Eps < itemWeight {
			continue
		}
		subset := make([]loadmodel.Container, len(indices))
		for j, idx := range indices {
			subset[j] = pool[idx]
		}
		out = append(out, combo{indices: indices, key: computeCostKey(subset, itemVolume)})
	}
	return out
}

// backtrackByTemplate handles the > cfg.SmallComboThreshold case: group the
// pool by template, cap per-template use, and explore count combinations
// across templates rather than individual containers.
func backtrackByTemplate(pool []loadmodel.Container, itemVolume, itemWeight float64) []combo {
	byTemplate := make(map[loadmodel.PoolTemplateKey][]int)
	var keys []loadmodel.PoolTemplateKey
	for i, c := range pool {
		k := c.PoolKey()
		if _, ok := byTemplate[k]; !ok {
			keys = append(keys, k)
		}
		byTemplate[k] = append(byTemplate[k], i)
	}

	maxUse := make([]int, len(keys))
	for i, k := range keys {
		available := len(byTemplate[k])
		need := 1
		if k.Length*k.Width*k.Height > 0 {
			need = int(itemVolume/(k.Length*k.Width*k.Height)) + 1
		}
		maxUse[i] = minInt(available, need+3)
	}

	var out []combo
	counts := make([]int, len(keys))
	var backtrack func(i int)
	backtrack = func(i int) {
		if i == len(keys) {
			var indices []int
			var volume, weightCap float64
			for ki, cnt := range counts {
				for j := 0; j < cnt; j++ {
					idx := byTemplate[keys[ki]][j]
					indices = append(indices, idx)
					volume += pool[idx].Volume()
					weightCap += pool[idx].MaxWeight
				}
			}
			if len(indices) > 0 && volume+loadmodel.Eps >= itemVolume && weightCap+loadmodel.Eps >= itemWeight {
				subset := make([]loadmodel.Container, len(indices))
				for j, idx := range indices {
					subset[j] = pool[idx]
				}
				out = append(out, combo{indices: indices, key: computeCostKey(subset, itemVolume)})
			}
			return
		}
		for cnt := 0; cnt <= maxUse[i]; cnt++ {
			counts[i] = cnt
			backtrack(i + 1)
		}
		counts[i] = 0
	}
	backtrack(0)
	return out
}

func dedupeCombos(combos []combo) []combo {
	seen := make(map[string]bool, len(combos))
	out := combos[:0]
	for _, c := range combos {
		sorted := append([]int{}, c.indices...)
		sort.Ints(sorted)
		var b strings.Builder
		for _, idx := range sorted {
			b.WriteString(strconv.Itoa(idx))
			b.WriteByte(',')
		}
		key := b.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
