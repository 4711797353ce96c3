package core

import (
	"math"
	"testing"
)

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		normal   Vec3
		expected Vec3
	}{
		{
			name:     "Straight down onto floor",
			vector:   NewVec3(0, -1, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(0, 1, 0),
		},
		{
			name:     "45 degree incidence",
			vector:   NewVec3(1, -1, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(1, 1, 0),
		},
		{
			name:     "Non-unit normal gives same result",
			vector:   NewVec3(1, -1, 0),
			normal:   NewVec3(0, 5, 0),
			expected: NewVec3(1, 1, 0),
		},
		{
			name:     "Parallel to surface is unchanged",
			vector:   NewVec3(0, 0, 3),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(0, 0, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Reflect(tt.normal)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_CrossIsOrthogonal(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-4, 0.5, 2)
	c := a.Cross(b)

	if math.Abs(c.Dot(a)) > 1e-9 || math.Abs(c.Dot(b)) > 1e-9 {
		t.Errorf("Cross product %v is not orthogonal to inputs", c)
	}

	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	if z := x.Cross(y); z != NewVec3(0, 0, 1) {
		t.Errorf("Expected x cross y = (0,0,1), got %v", z)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Z-0.8) > 1e-12 {
		t.Errorf("Expected (0.6, 0, 0.8), got %v", v)
	}

	// Zero vector stays zero instead of producing NaN
	if zero := NewVec3(0, 0, 0).Normalize(); zero != (Vec3{}) {
		t.Errorf("Expected zero vector, got %v", zero)
	}
}

func TestVec3_LengthSquared(t *testing.T) {
	v := NewVec3(1, -2, 2)
	if v.LengthSquared() != 9 {
		t.Errorf("Expected 9, got %f", v.LengthSquared())
	}
	if v.LengthSquared() != v.Dot(v) {
		t.Errorf("Expected LengthSquared to equal v·v, got %f vs %f", v.LengthSquared(), v.Dot(v))
	}
}

func TestVec3_Clamp(t *testing.T) {
	v := NewVec3(-10, 128, 400).Clamp(0, 255)
	expected := NewVec3(0, 128, 255)
	if v != expected {
		t.Errorf("Expected %v, got %v", expected, v)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(0, 0, -10), NewVec3(0, 0, 1))
	p := ray.At(9)
	if p != NewVec3(0, 0, -1) {
		t.Errorf("Expected (0,0,-1), got %v", p)
	}
}
