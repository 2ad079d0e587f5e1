package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3MA(t *testing.T) {
	got := Vec3{1, 2, 3}.MA(2, Vec3{0, 0, 1})
	want := Vec3{1, 2, 5}
	if got != want {
		t.Errorf("Vec3.MA() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 0}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, want zero", zero)
	}
}

func TestVec3Components(t *testing.T) {
	v := Vec3{4, 5, 6}
	for i, want := range []float32{4, 5, 6} {
		if got := v.Get(i); got != want {
			t.Errorf("Get(%d) = %v, want %v", i, got, want)
		}
	}
	if got := v.With(1, -1); got != (Vec3{4, -1, 6}) {
		t.Errorf("With(1, -1) = %v", got)
	}
	if got := v.Array(); got != [3]float32{4, 5, 6} {
		t.Errorf("Array() = %v", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 0, -1}
	if got := a.Min(b); got != (Vec3{1, 0, -2}) {
		t.Errorf("Min() = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, -1}) {
		t.Errorf("Max() = %v", got)
	}
}
