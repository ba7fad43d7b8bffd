package tiler

// maxRects2D is a 2D MaxRects free-rectangle tracker for floor tiling:
// every overlapping free rect is split into up to four maximal residual
// rects instead of a single guillotine cut, which lets later items reuse
// strips spanning more than one earlier placement.
type maxRects2D struct {
	free []rect2D
}

type rect2D struct {
	X, Y, W, H float64
}

func newMaxRects2D(w, h float64) *maxRects2D {
	return &maxRects2D{free: []rect2D{{0, 0, w, h}}}
}

// fitScore returns (wastedArea, shortSideLeftover, freeRectArea) for placing
// a w x h box in r, or ok=false if it doesn't fit. Lower is better on all
// three, applied in that order: minimize wasted area, then minimize
// short-side leftover, then minimize free-rect area.
func fitScore(w, h float64, r rect2D) (wasted, shortLeft, area float64, ok bool) {
	if w > r.W+eps || h > r.H+eps {
		return 0, 0, 0, false
	}
	wasted = r.W*r.H - w*h
	leftoverW := r.W - w
	leftoverH := r.H - h
	shortLeft = leftoverW
	if leftoverH < leftoverW {
		shortLeft = leftoverH
	}
	return wasted, shortLeft, r.W * r.H, true
}

// insert places a w x h box using best-fit scoring across all free rects.
func (m *maxRects2D) insert(w, h float64) (ok bool, x, y float64) {
	bestIdx := -1
	var bestWasted, bestShort, bestArea float64

	for i, r := range m.free {
		wasted, short, area, fits := fitScore(w, h, r)
		if !fits {
			continue
		}
		if bestIdx < 0 ||
			wasted < bestWasted-eps ||
			(abs(wasted-bestWasted) < eps && short < bestShort-eps) ||
			(abs(wasted-bestWasted) < eps && abs(short-bestShort) < eps && area < bestArea-eps) {
			bestIdx = i
			bestWasted, bestShort, bestArea = wasted, short, area
		}
	}
	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := m.free[bestIdx]
	placed := rect2D{X: chosen.X, Y: chosen.Y, W: w, H: h}
	m.splitAroundPlacement(placed)
	return true, placed.X, placed.Y
}

func (m *maxRects2D) splitAroundPlacement(placed rect2D) {
	var next []rect2D
	for _, r := range m.free {
		if !rectsOverlap2D(r, placed) {
			next = append(next, r)
			continue
		}
		if placed.X > r.X+eps {
			next = append(next, rect2D{X: r.X, Y: r.Y, W: placed.X - r.X, H: r.H})
		}
		if placed.X+placed.W < r.X+r.W-eps {
			next = append(next, rect2D{X: placed.X + placed.W, Y: r.Y, W: (r.X + r.W) - (placed.X + placed.W), H: r.H})
		}
		if placed.Y > r.Y+eps {
			next = append(next, rect2D{X: r.X, Y: r.Y, W: r.W, H: placed.Y - r.Y})
		}
		if placed.Y+placed.H < r.Y+r.H-eps {
			next = append(next, rect2D{X: r.X, Y: placed.Y + placed.H, W: r.W, H: (r.Y + r.H) - (placed.Y + placed.H)})
		}
	}
	m.free = pruneContained2D(next)
}

func rectsOverlap2D(a, b rect2D) bool {
	return a.X < b.X+b.W-eps && a.X+a.W > b.X+eps &&
		a.Y < b.Y+b.H-eps && a.Y+a.H > b.Y+eps
}

func pruneContained2D(rects []rect2D) []rect2D {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect2D, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i != j && containsRect2D(b, a) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

func containsRect2D(outer, inner rect2D) bool {
	return outer.X <= inner.X+eps && outer.Y <= inner.Y+eps &&
		outer.X+outer.W >= inner.X+inner.W-eps &&
		outer.Y+outer.H >= inner.Y+inner.H-eps
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
