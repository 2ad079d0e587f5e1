package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := LookAt(Vec3{10, 20, 30}, Vec3{}, Vec3{0, 0, 1})
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I = %v, want %v", result, m)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{100, -50, 25}
	m := LookAt(eye, Vec3{}, Vec3{0, 0, 1})
	got := m.TransformVec3(eye)
	if got.Length() > 1e-3 {
		t.Errorf("LookAt eye maps to %v, want origin", got)
	}

	// The target lies straight ahead on -Z in view space.
	target := m.TransformVec3(Vec3{})
	if math.Abs(float64(target.X)) > 1e-3 || math.Abs(float64(target.Y)) > 1e-3 || target.Z >= 0 {
		t.Errorf("LookAt target maps to %v, want (0, 0, -d)", target)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(float32(math.Pi/2), 1, 1, 100)
	near := p.TransformVec3(Vec3{0, 0, -1})
	far := p.TransformVec3(Vec3{0, 0, -100})
	if math.Abs(float64(near.Z+1)) > 1e-4 {
		t.Errorf("near plane depth = %v, want -1", near.Z)
	}
	if math.Abs(float64(far.Z-1)) > 1e-4 {
		t.Errorf("far plane depth = %v, want 1", far.Z)
	}
}

func TestInverse(t *testing.T) {
	view := LookAt(Vec3{300, -200, 150}, Vec3{10, 20, 0}, Vec3{0, 0, 1})
	m := Perspective(1.2, 16.0/9.0, 4, 8192).Mul(view)

	got := m.Mul(m.Inverse())
	want := Identity()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-3 {
			t.Fatalf("M * M^-1 = %v, want identity", got)
		}
	}

	var singular Mat4
	if singular.Inverse() != Identity() {
		t.Error("inverse of a singular matrix should be identity")
	}
}
