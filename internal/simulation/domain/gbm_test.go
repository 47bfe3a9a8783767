package domain

import (
	"math"
	"testing"
)

func TestNormalVariateMoments(t *testing.T) {
	rng := NewRand(7, 1)

	const n = 100000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		z := NormalVariate(rng)
		sum += z
		sumSq += z * z
	}

	mean := sum / n
	variance := sumSq/n - mean*mean

	if math.Abs(mean) > 0.02 {
		t.Errorf("sample mean = %v, want ~0", mean)
	}
	if math.Abs(variance-1) > 0.05 {
		t.Errorf("sample variance = %v, want ~1", variance)
	}
}

func TestGeneratePathShape(t *testing.T) {
	rng := NewRand(42, 1)
	path := GeneratePath(rng, 100, 0.05, 0.2, 1, 252)

	if len(path) != 253 {
		t.Fatalf("path length = %d, want steps+1 = 253", len(path))
	}
	if path[0] != 100 {
		t.Errorf("path[0] = %v, want initial price 100", path[0])
	}
	for i, p := range path {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("path[%d] = %v, prices must stay positive and finite", i, p)
		}
	}
}

func TestGeneratePathDeterministic(t *testing.T) {
	a := GeneratePath(NewRand(99, 1), 100, 0.05, 0.2, 1, 50)
	b := GeneratePath(NewRand(99, 1), 100, 0.05, 0.2, 1, 50)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different paths at step %d: %v vs %v", i, a[i], b[i])
		}
	}

	c := GeneratePath(NewRand(99, 2), 100, 0.05, 0.2, 1, 50)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different streams produced identical paths")
	}
}

func TestGeneratePathZeroVolatility(t *testing.T) {
	// sigma=0 时路径退化为确定性增长 S0*exp(mu*T)
	path := GeneratePath(NewRand(1, 1), 100, 0.05, 0, 1, 10)
	want := 100 * math.Exp(0.05)
	if got := path[len(path)-1]; math.Abs(got-want) > 1e-9 {
		t.Errorf("deterministic terminal = %v, want %v", got, want)
	}
}
