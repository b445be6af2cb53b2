package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"negate", NewVec3(1, 1, 1).Negate(), NewVec3(-1, -1, -1)},
		{"add", NewVec3(1, 10, 100).Add(NewVec3(2, 20, 200)), NewVec3(3, 30, 300)},
		{"subtract", NewVec3(5, 50, 500).Subtract(NewVec3(1, 10, 100)), NewVec3(4, 40, 400)},
		{"multiply vec", NewVec3(5, 2, 3).MultiplyVec(NewVec3(4, 2, 2)), NewVec3(20, 4, 6)},
		{"multiply scalar", NewVec3(1, 2, 3).Multiply(10), NewVec3(10, 20, 30)},
		{"divide scalar", NewVec3(10, 20, 30).Divide(10), NewVec3(1, 2, 3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"normalize axis", NewVec3(5, 0, 0).Normalize(), NewVec3(1, 0, 0)},
		{"lerp midpoint", NewVec3(1, 1, 1).Lerp(NewVec3(0, 0, 0), 0.5), NewVec3(0.5, 0.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3Lengths(t *testing.T) {
	v := NewVec3(2, 3, 4)
	if v.LengthSquared() != 29 {
		t.Errorf("Expected length squared 29, got %f", v.LengthSquared())
	}
	if v.Length() != math.Sqrt(29) {
		t.Errorf("Expected length %f, got %f", math.Sqrt(29), v.Length())
	}
	if dot := NewVec3(2, 4, 3).Dot(NewVec3(6, 5, 1)); dot != 35 {
		t.Errorf("Expected dot 35, got %f", dot)
	}
}

func TestVec3NormalizeIsUnitLength(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		v := RandomVec3Range(sampler, -100, 100)
		if v.NearZero() {
			continue
		}
		if l := v.Normalize().Length(); math.Abs(l-1.0) > 1e-12 {
			t.Fatalf("Normalize(%v) has length %v", v, l)
		}
	}
}

func TestVec3NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"one component large", NewVec3(1e-9, 1e-7, 0), false},
		{"unit", NewVec3(0, 1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.v, got, tt.expected)
			}
		})
	}
}

func TestReflectFlipsNormalComponent(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))
	for i := 0; i < 500; i++ {
		n := RandomUnitVector(sampler)
		v := RandomVec3Range(sampler, -5, 5)
		r := Reflect(v, n)

		if math.Abs(r.Dot(n)+v.Dot(n)) > 1e-9 {
			t.Fatalf("dot(reflect(v,n),n) = %f, expected %f", r.Dot(n), -v.Dot(n))
		}
		if math.Abs(r.Length()-v.Length()) > 1e-9 {
			t.Fatalf("reflection changed length: %f -> %f", v.Length(), r.Length())
		}
	}
}

func TestRefractNormalIncidence(t *testing.T) {
	n := NewVec3(0, 1, 0)
	uv := NewVec3(0, -1, 0)

	refracted := Refract(uv, n, 1.0/1.5)
	if refracted.Subtract(uv).Length() > 1e-12 {
		t.Errorf("Normal incidence should pass straight through, got %v", refracted)
	}
}

func TestRefractSnellsLaw(t *testing.T) {
	n := NewVec3(0, 1, 0)
	uv := NewVec3(1, -1, 0).Normalize()
	eta := 1.0 / 1.5

	refracted := Refract(uv, n, eta)

	sinIn := math.Sqrt(1 - math.Pow(uv.Negate().Dot(n), 2))
	sinOut := math.Sqrt(1 - math.Pow(refracted.Negate().Dot(n), 2))
	if math.Abs(sinOut-eta*sinIn) > 1e-9 {
		t.Errorf("Snell's law violated: sinOut=%f, eta*sinIn=%f", sinOut, eta*sinIn)
	}
	if math.Abs(refracted.Length()-1) > 1e-9 {
		t.Errorf("Refracted unit vector should stay unit length, got %f", refracted.Length())
	}
}

func TestRayAt(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	if p := ray.At(2.5); !p.Equals(NewVec3(1, 2, -2)) {
		t.Errorf("Expected (1,2,-2), got %v", p)
	}
}

func TestGammaCorrectSquareRoot(t *testing.T) {
	c := NewVec3(0.25, 1, 0).GammaCorrect(2.0)
	if !c.Equals(NewVec3(0.5, 1, 0)) {
		t.Errorf("Expected (0.5,1,0), got %v", c)
	}
}
