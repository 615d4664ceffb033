package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2, 3)
	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("NewVector(1, 2, 3) = %v; want (1, 2, 3)", v)
	}
}

func TestNewVectorPlanarPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector3D
	}{
		{"Zero radius", 0, 0, Vector3D{}},
		{"Zero angle (+Z axis)", 10, 0, Vector3D{X: 0, Z: 10}},
		{"90 degrees (+X axis)", 10, math.Pi / 2, Vector3D{X: 10, Z: 0}},
		{"180 degrees (-Z axis)", 10, math.Pi, Vector3D{X: 0, Z: -10}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector3D{X: 1, Z: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPlanarPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPlanarPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
			if got.Y != 0 {
				t.Errorf("NewVectorPlanarPolar should stay on the X/Z plane, got Y=%v", got.Y)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector3D{1.234, 5.678, 9.012}
	want := "(1.23, 5.68, 9.01)" // Expecting rounding to 2 decimals based on implementation
	if got := v.String(); got != want {
		t.Errorf("Vector3D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector3D{1, 2, 3}
	v2 := Vector3D{4, 5, 6}

	t.Run("Add", func(t *testing.T) {
		want := Vector3D{5, 7, 9}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector3D{-3, -3, -3}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector3D{2, 4, 6}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Div", func(t *testing.T) {
		want := Vector3D{0.5, 1, 1.5}
		got, err := v1.Div(2)
		if err != nil {
			t.Errorf("%v.Div(2) generated error: %v; want %v", v1, err, want)
		}
		if !got.Eq(want) {
			t.Errorf("%v.Div(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		got, err := v1.Div(0)
		if err == nil {
			t.Errorf("%v.Div(0) should have generated an error, result=%v", v1, got)
		}
		if !math.IsInf(got.X, 0) || !math.IsInf(got.Y, 0) || !math.IsInf(got.Z, 0) {
			t.Errorf("Div(0) should result in Inf coordinates, got %v", got)
		}
	})
}

func TestVector_Products(t *testing.T) {
	x := Vector3D{1, 0, 0}
	y := Vector3D{0, 1, 0}
	z := Vector3D{0, 0, 1}

	t.Run("Dot", func(t *testing.T) {
		// Orthogonal
		if got := x.Dot(y); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
		// Parallel
		if got := x.Dot(Vector3D{2, 0, 0}); got != 2 {
			t.Errorf("Dot parallel = %v; want 2", got)
		}
	})

	t.Run("Cross", func(t *testing.T) {
		// X cross Y = Z (right-handed basis)
		if got := x.Cross(y); !got.Eq(z) {
			t.Errorf("Cross X,Y = %v; want %v", got, z)
		}
		// Parallel vectors cross is the zero vector
		if got := x.Cross(x); !got.Eq(Vector3D{}) {
			t.Errorf("Cross self = %v; want zero vector", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector3D{2, 3, 6} // 2-3-6-7 quadruple

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 7 {
			t.Errorf("Len = %v; want 7", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 49 {
			t.Errorf("LenSqr = %v; want 49", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		want := Vector3D{2.0 / 7, 3.0 / 7, 6.0 / 7}
		if !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		zero := Vector3D{}
		got := zero.Normalize()
		if !got.Eq(zero) {
			t.Errorf("Normalize(0,0,0) = %v; want (0,0,0)", got)
		}
		if math.IsNaN(got.X) || math.IsNaN(got.Y) || math.IsNaN(got.Z) {
			t.Errorf("Normalize(0,0,0) produced NaN: %v", got)
		}
	})
}

func TestVector_ClampLen(t *testing.T) {
	t.Run("Within limit is unchanged", func(t *testing.T) {
		v := Vector3D{1, 0, 1}
		got := v.ClampLen(5)
		if got != v {
			t.Errorf("ClampLen(5) = %v; want %v unchanged", got, v)
		}
	})

	t.Run("Exactly at limit is unchanged", func(t *testing.T) {
		v := Vector3D{3, 0, 4} // length 5
		got := v.ClampLen(5)
		if got != v {
			t.Errorf("ClampLen(5) = %v; want %v unchanged", got, v)
		}
	})

	t.Run("Above limit is rescaled to exactly max", func(t *testing.T) {
		v := Vector3D{3, 0, 4} // length 5
		got := v.ClampLen(1)
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("ClampLen(1) length = %v; want 1", got.Len())
		}
		// Direction preserved
		if !got.Normalize().Eq(v.Normalize()) {
			t.Errorf("ClampLen changed direction: %v vs %v", got.Normalize(), v.Normalize())
		}
	})

	t.Run("Zero max yields zero vector", func(t *testing.T) {
		v := Vector3D{3, 0, 4}
		if got := v.ClampLen(0); !got.Eq(Vector3D{}) {
			t.Errorf("ClampLen(0) = %v; want zero vector", got)
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector3D{1, 1, 1}
	v2 := Vector3D{3, 4, 7} // dx=2, dy=3, dz=6, dist=7

	if got := v1.DistanceTo(v2); got != 7 {
		t.Errorf("DistanceTo = %v; want 7", got)
	}

	if got := v1.DistanceSquaredTo(v2); got != 49 {
		t.Errorf("DistanceSquaredTo = %v; want 49", got)
	}
}

func TestVector_Lerp(t *testing.T) {
	v1 := Vector3D{0, 0, 0}
	v2 := Vector3D{10, 10, 10}
	got := v1.Lerp(v2, 0.5)
	want := Vector3D{5, 5, 5}
	if !got.Eq(want) {
		t.Errorf("Lerp(0.5) = %v; want %v", got, want)
	}
}
