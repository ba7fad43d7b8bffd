// Package solver orchestrates the whole load-planning core: pool capping,
// container-combination enumeration and ranking, trial packing,
// consolidation, and output ordering, with a safety-net retry against the
// untrimmed pool when capping cost the plan placed items.
package solver

import (
	"go.uber.org/zap"

	"github.com/piwi3910/loadplan/internal/config"
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/piwi3910/loadplan/internal/logging"
	"github.com/piwi3910/loadplan/internal/stage"
)

// SolveInput is the solver's external interface.
type SolveInput struct {
	Containers []loadmodel.Container
	Items      []loadmodel.Item
	// CoLocationGroups is accepted for forward compatibility but unused:
	// Co-location is advisory only and has no enforced effect on placement
	// order or adjacency in this core.
	CoLocationGroups []string
	Origin           loadmodel.Position
}

// SolveResult is the external interface's output: the packed containers
// and whatever items could not be placed anywhere.
type SolveResult struct {
	Containers []loadmodel.Container
	Unused     []loadmodel.Item
}

// Solve runs the full pipeline: stage the items, drop structurally
// infeasible ones up front, cap the container pool if it's oversized,
// enumerate and rank candidate combinations, evaluate them, consolidate
// sparse pallets, and order the output. If pool capping happened and the
// capped result left items unused, it retries once against the full pool
// and keeps whichever result placed strictly more items.
func Solve(input SolveInput, cfg config.SolverConfig, logger *zap.Logger) SolveResult {
	logger = logging.OrDefault(logger)

	items := make([]loadmodel.Item, len(input.Items))
	copy(items, input.Items)
	for i := range items {
		items[i].Position = loadmodel.Position{}
		items[i].Placed = false
	}
	stage.Stage(items)

	containers := make([]loadmodel.Container, len(input.Containers))
	copy(containers, input.Containers)
	for i := range containers {
		containers[i].Origin = input.Origin
		containers[i].Items = nil
		containers[i].TotalWeight = 0
	}

	var feasible, infeasible []loadmodel.Item
	for _, it := range items {
		if stage.FitsInAnyContainer(it, containers) {
			feasible = append(feasible, it)
		} else {
			infeasible = append(infeasible, it)
		}
	}

	if len(containers) == 0 {
		return SolveResult{Unused: items}
	}

	cappedPool := CapPool(containers, feasible, cfg)
	result := solveAgainst(cappedPool, feasible, cfg)

	if len(cappedPool) < len(containers) && len(result.unused) > 0 {
		retry := solveAgainst(containers, feasible, cfg)
		if retry.placedCount(len(feasible)) > result.placedCount(len(feasible)) {
			logger.Info("safety-net retry adopted",
				zap.Int("placed_before", result.placedCount(len(feasible))),
				zap.Int("placed_after", retry.placedCount(len(feasible))))
			result = retry
		}
	}

	finalContainers := Consolidate(result.containers)
	finalContainers = OrderOutput(finalContainers)

	unused := append([]loadmodel.Item{}, result.unused...)
	unused = append(unused, infeasible...)

	logger.Info("solve complete",
		zap.Int("containers_used", countUsed(finalContainers)),
		zap.Int("items_placed", len(feasible)-len(result.unused)),
		zap.Int("items_unused", len(unused)))

	return SolveResult{Containers: finalContainers, Unused: unused}
}

func solveAgainst(pool []loadmodel.Container, items []loadmodel.Item, cfg config.SolverConfig) evalResult {
	combos := EnumerateCombinations(pool, items, cfg)
	return EvaluateCombinations(combos, pool, items, cfg)
}

func countUsed(containers []loadmodel.Container) int {
	n := 0
	for _, c := range containers {
		if len(c.Items) > 0 {
			n++
		}
	}
	return n
}
