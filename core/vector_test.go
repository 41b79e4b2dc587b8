package core

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("scales to unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})

		var sumSquares float64
		for _, x := range v {
			sumSquares += float64(x) * float64(x)
		}
		if math.Abs(sumSquares-1.0) > 1e-6 {
			t.Errorf("expected unit vector, got squared length %v", sumSquares)
		}
		if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
			t.Errorf("unexpected components: %v", v)
		}
	})

	t.Run("zero vector unchanged", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		for i, x := range v {
			if x != 0 {
				t.Errorf("component %d changed: %v", i, x)
			}
		}
	})

	t.Run("empty vector", func(t *testing.T) {
		v := NormalizeVector([]float32{})
		if len(v) != 0 {
			t.Errorf("expected empty vector, got %v", v)
		}
	})
}
