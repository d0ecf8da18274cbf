package vec

import "testing"

func TestVec2Add(t *testing.T) {
	got := Vec2{X: 1, Y: -2}.Add(Vec2{X: 3, Y: 4})
	if !got.Equals(Vec2{X: 4, Y: 2}) {
		t.Errorf("получено %v", got)
	}
}

func TestVec3Add(t *testing.T) {
	got := Vec3{X: 1, Y: 2, Z: 3}.Add(Vec3{X: -1, Y: -2, Z: -3})
	if !got.Equals(Vec3{}) {
		t.Errorf("получено %v", got)
	}
}

func TestVec3ToVec2(t *testing.T) {
	got := Vec3{X: 7, Y: -8, Z: 100}.ToVec2()
	if !got.Equals(Vec2{X: 7, Y: -8}) {
		t.Errorf("получено %v", got)
	}
}

func TestString(t *testing.T) {
	if s := (Vec2{X: 1, Y: 2}).String(); s != "(1, 2)" {
		t.Errorf("Vec2.String: %s", s)
	}
	if s := (Vec3{X: 1, Y: 2, Z: 3}).String(); s != "(1, 2, 3)" {
		t.Errorf("Vec3.String: %s", s)
	}
}
