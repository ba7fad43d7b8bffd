package loadmodel

import "testing"

func TestRotDimIdentity(t *testing.T) {
	w, l, h := RotDim(10, 20, 30, 0)
	if w != 10 || l != 20 || h != 30 {
		t.Errorf("rotation 0 should be identity, got %v %v %v", w, l, h)
	}
}

func TestRotDimOutOfRangeTreatedAsIdentity(t *testing.T) {
	w, l, h := RotDim(10, 20, 30, 99)
	if w != 10 || l != 20 || h != 30 {
		t.Errorf("out-of-range rotation should fall back to identity, got %v %v %v", w, l, h)
	}
}

func TestEffectiveMaxStackWeightDefaultsFromMaxStack(t *testing.T) {
	it := Item{Weight: 10, MaxStack: 3}
	got := it.EffectiveMaxStackWeight()
	want := 20.0
	if got != want {
		t.Errorf("expected default maxStackWeight %v, got %v", want, got)
	}
}

func TestEffectiveMaxStackWeightUnlimitedStackStillDefaultsFromWeight(t *testing.T) {
	it := Item{Weight: 10, MaxStack: -1}
	got := it.EffectiveMaxStackWeight()
	want := 9999 * 10.0
	if got != want {
		t.Errorf("expected unlimited-stack default %v (9999*weight), got %v", want, got)
	}
}

func TestEffectiveMaxStackWeightExplicitNegativeResolvesToSentinel(t *testing.T) {
	it := Item{Weight: 10, MaxStack: 3, MaxStackWeight: -1}
	got := it.EffectiveMaxStackWeight()
	if got < 1e300 {
		t.Errorf("explicit negative maxStackWeight should resolve to a very large sentinel, got %v", got)
	}
}

func TestEffectiveMaxStackUnlimitedResolvesToLargeCap(t *testing.T) {
	it := Item{MaxStack: -1}
	if got := it.EffectiveMaxStack(); got != 10000 {
		t.Errorf("expected 10000, got %d", got)
	}
}

func TestAllowedRotationsSideUpRestricted(t *testing.T) {
	it := Item{IsSideUp: true}
	rots := it.AllowedRotations()
	if len(rots) != 2 {
		t.Errorf("side-up items should allow exactly 2 rotations, got %d", len(rots))
	}
}

func TestAllowedRotationsFullSet(t *testing.T) {
	it := Item{IsSideUp: false}
	rots := it.AllowedRotations()
	if len(rots) != 6 {
		t.Errorf("expected all 6 rotations, got %d", len(rots))
	}
}

func TestSignatureRoundsGeometryNoise(t *testing.T) {
	a := Item{Width: 100.00001, Length: 50, Height: 20, Weight: 5}
	b := Item{Width: 100.00002, Length: 50, Height: 20, Weight: 5}
	if a.Signature() != b.Signature() {
		t.Errorf("signatures should collapse floating point noise below round4 precision")
	}
}

func TestCloneResetsPlacementState(t *testing.T) {
	it := Item{Position: Position{X: 1, Y: 2, Z: 3}, Placed: true, Rotation: 4, Layer: 9}
	c := it.Clone()
	if c.Placed || c.Rotation != 0 || c.Layer != 1 || c.Position != (Position{}) {
		t.Errorf("clone should reset placement state, got %+v", c)
	}
}

func TestNormalizeDoorTypeFoldsAllDeclaredDoorsToFront(t *testing.T) {
	for _, dp := range []DoorPosition{DoorFront, DoorSide, DoorLeft, DoorRight, DoorBack, DoorTop} {
		if got := NormalizeDoorType(dp); got != DoorTypeFront {
			t.Errorf("door position %q should fold to DoorTypeFront, got %v", dp, got)
		}
	}
	if got := NormalizeDoorType(DoorNone); got != DoorTypePallet {
		t.Errorf("empty door position should resolve to DoorTypePallet, got %v", got)
	}
}

func TestContainerAddItemUpdatesWeight(t *testing.T) {
	c := &Container{MaxWeight: 100}
	c.AddItem(Item{Weight: 30})
	c.AddItem(Item{Weight: 20})
	if c.TotalWeight != 50 {
		t.Errorf("expected total weight 50, got %v", c.TotalWeight)
	}
	if rem := c.RemainingWeightCapacity(); rem != 50 {
		t.Errorf("expected remaining capacity 50, got %v", rem)
	}
}

func TestBuildOrientationCacheSmallestFootprint(t *testing.T) {
	it := Item{Width: 10, Length: 40, Height: 5}
	cache := BuildOrientationCache(it)
	if len(cache.Orientations) != 6 {
		t.Fatalf("expected 6 orientations, got %d", len(cache.Orientations))
	}
	o, ok := cache.SmallestFootprint()
	if !ok {
		t.Fatal("expected a smallest footprint orientation")
	}
	if o.Footprint > 10*5+Eps {
		t.Errorf("smallest footprint should be around 10*5=50, got %v", o.Footprint)
	}
}
