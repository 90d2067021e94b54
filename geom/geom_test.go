// Package geom_test exercises the Vertex/Box algebra: overlap edge
// cases, empty-box absorption, expansion, and point distances.
package geom_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/epsjoin/geom"
)

func TestVertexArithmetic(t *testing.T) {
	v := geom.V(1, 2, 3)
	w := geom.V(4, 5, 6)
	if got := v.Add(w); got != geom.V(5, 7, 9) {
		t.Fatalf("Add: got %v", got)
	}
	if got := w.Sub(v); got != geom.V(3, 3, 3) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := v.Dot(w); got != 32 {
		t.Fatalf("Dot: got %v", got)
	}
	if got := geom.Distance(v, v); got != 0 {
		t.Fatalf("Distance to self: got %v", got)
	}
	if got := geom.SquaredDistance(geom.V(0, 0, 0), geom.V(1, 2, 2)); got != 9 {
		t.Fatalf("SquaredDistance: got %v", got)
	}
	if got := geom.Midpoint(v, w); got != geom.V(2.5, 3.5, 4.5) {
		t.Fatalf("Midpoint: got %v", got)
	}
}

func TestOverlapClosedIntervals(t *testing.T) {
	a := geom.NewBox(geom.V(0, 0, 0), geom.V(1, 1, 1))
	b := geom.NewBox(geom.V(1, 0, 0), geom.V(2, 1, 1)) // shares a face
	if !geom.Overlap(a, b) {
		t.Fatal("face-sharing boxes must overlap (closed intervals)")
	}
	c := geom.NewBox(geom.V(1.0000001, 0, 0), geom.V(2, 1, 1))
	if geom.Overlap(a, c) {
		t.Fatal("disjoint boxes must not overlap")
	}
	// Corner contact still counts.
	d := geom.NewBox(geom.V(1, 1, 1), geom.V(2, 2, 2))
	if !geom.Overlap(a, d) {
		t.Fatal("corner-sharing boxes must overlap")
	}
}

func TestEmptyBoxBehavior(t *testing.T) {
	e := geom.EmptyBox()
	a := geom.NewBox(geom.V(0, 0, 0), geom.V(1, 1, 1))
	if geom.Overlap(e, a) || geom.Overlap(a, e) {
		t.Fatal("empty box must overlap nothing")
	}
	if got := geom.CombineSafe(e, a); got != a {
		t.Fatalf("empty absorbs: got %v", got)
	}
	if got := geom.CombineSafe(a, e); got != a {
		t.Fatalf("empty absorbs: got %v", got)
	}
	if got := geom.CombineSafe(e, e); !got.Empty {
		t.Fatalf("empty+empty must stay empty, got %v", got)
	}
	if e.Volume() != 0 {
		t.Fatal("empty box has zero volume")
	}
	if !math.IsInf(e.PointDistance(geom.V(0, 0, 0)), 1) {
		t.Fatal("distance to empty box is infinite")
	}
}

func TestCombineAndVolume(t *testing.T) {
	a := geom.NewBox(geom.V(0, 0, 0), geom.V(1, 2, 3))
	b := geom.NewBox(geom.V(-1, 1, 1), geom.V(2, 2, 2))
	u := geom.Combine(a, b)
	if u.Lo != geom.V(-1, 0, 0) || u.Hi != geom.V(2, 2, 3) {
		t.Fatalf("Combine: got %v", u)
	}
	if got := a.Volume(); got != 6 {
		t.Fatalf("Volume: got %v", got)
	}
	if got := a.Length(2); got != 3 {
		t.Fatalf("Length: got %v", got)
	}
	if got := a.Center(); got != geom.V(0.5, 1, 1.5) {
		t.Fatalf("Center: got %v", got)
	}
}

func TestExpand(t *testing.T) {
	a := geom.NewBox(geom.V(0, 0, 0), geom.V(1, 1, 1)).Expand(0.5)
	if a.Lo != geom.V(-0.5, -0.5, -0.5) || a.Hi != geom.V(1.5, 1.5, 1.5) {
		t.Fatalf("Expand: got %v", a)
	}
	if got := geom.EmptyBox().Expand(3); !got.Empty {
		t.Fatal("expanding the empty box must keep it empty")
	}
}

func TestEnclose(t *testing.T) {
	b := geom.NewBox(geom.V(0, 0, 0), geom.V(2, 2, 2))
	if !b.EnclosesPoint(geom.V(0, 0, 0)) || !b.EnclosesPoint(geom.V(2, 2, 2)) {
		t.Fatal("faces are inside (closed containment)")
	}
	if b.EnclosesPoint(geom.V(2.1, 1, 1)) {
		t.Fatal("outside point must not be enclosed")
	}
	inner := geom.NewBox(geom.V(0.5, 0.5, 0.5), geom.V(1, 1, 1))
	if !b.Encloses(inner) {
		t.Fatal("inner box must be enclosed")
	}
	if b.Encloses(geom.NewBox(geom.V(1, 1, 1), geom.V(3, 1.5, 1.5))) {
		t.Fatal("overflowing box must not be enclosed")
	}
}

func TestEncloseHalfOpen(t *testing.T) {
	b := geom.NewBox(geom.V(0, 0, 0), geom.V(2, 2, 2))
	if !b.EnclosesPointHalfOpen(geom.V(0, 0, 0)) {
		t.Fatal("lower faces are inside under the half-open test")
	}
	if b.EnclosesPointHalfOpen(geom.V(2, 1, 1)) {
		t.Fatal("upper faces are outside under the half-open test")
	}
	// Adjacent boxes claim a shared face point exactly once.
	right := geom.NewBox(geom.V(2, 0, 0), geom.V(4, 2, 2))
	p := geom.V(2, 1, 1)
	if b.EnclosesPointHalfOpen(p) || !right.EnclosesPointHalfOpen(p) {
		t.Fatal("a face point must belong to exactly one adjacent box")
	}
	if geom.EmptyBox().EnclosesPointHalfOpen(geom.V(0, 0, 0)) {
		t.Fatal("empty box encloses nothing")
	}
}

func TestCorners(t *testing.T) {
	b := geom.NewBox(geom.V(0, 0, 0), geom.V(1, 1, 1))
	seen := map[geom.Vertex]bool{}
	for _, c := range b.Corners() {
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 distinct corners, got %d", len(seen))
	}
	if !seen[geom.V(0, 0, 0)] || !seen[geom.V(1, 1, 1)] || !seen[geom.V(1, 0, 1)] {
		t.Fatal("missing expected corners")
	}
}

func TestPointDistance(t *testing.T) {
	b := geom.NewBox(geom.V(0, 0, 0), geom.V(1, 1, 1))
	if got := b.PointDistance(geom.V(0.5, 0.5, 0.5)); got != 0 {
		t.Fatalf("inside point: got %v", got)
	}
	if got := b.PointDistance(geom.V(2, 0.5, 0.5)); got != 1 {
		t.Fatalf("axis-aligned outside point: got %v", got)
	}
	if got := b.PointDistance(geom.V(2, 2, 0.5)); math.Abs(got-math.Sqrt2) > 1e-12 {
		t.Fatalf("diagonal outside point: got %v", got)
	}
}

func TestBoundingBoxOf(t *testing.T) {
	bb := geom.BoundingBoxOf(geom.V(1, 5, -1), geom.V(0, 7, 3))
	if bb.Lo != geom.V(0, 5, -1) || bb.Hi != geom.V(1, 7, 3) {
		t.Fatalf("BoundingBoxOf: got %v", bb)
	}
	if !geom.BoundingBoxOf().Empty {
		t.Fatal("bounding box of nothing is empty")
	}
}

func TestRandomSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	world := geom.NewBox(geom.V(-1, -1, -1), geom.V(1, 1, 1))
	for i := 0; i < 100; i++ {
		if p := geom.RandomPoint(rng, world); !world.EnclosesPoint(p) {
			t.Fatalf("sampled point %v escaped the world", p)
		}
		if b := geom.RandomBox(rng, world, 0.1); math.Abs(b.Length(0)-0.1) > 1e-12 {
			t.Fatalf("random box extent: got %v", b.Length(0))
		}
	}
}
