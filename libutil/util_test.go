package libutil

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type recordingDeleter struct {
	id    int
	order *[]int
}

func (d *recordingDeleter) Delete() {
	*d.order = append(*d.order, d.id)
}

func TestDeleteAllReverseOrder(t *testing.T) {
	var order []int
	deleters := []Deleter{
		&recordingDeleter{1, &order},
		nil,
		&recordingDeleter{2, &order},
		&recordingDeleter{3, &order},
	}
	DeleteAll(deleters)

	expected := []int{3, 2, 1}
	if len(order) != len(expected) {
		t.Fatalf("deleted %v, expected %v", order, expected)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("deletion %d should be %d but was %d", i, expected[i], order[i])
		}
	}
}

func closeVec3(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-5
}

func TestHsl2rgb(t *testing.T) {
	cases := []struct {
		hsl, rgb mgl32.Vec3
	}{
		{mgl32.Vec3{0, 1, 0.5}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{1. / 3., 1, 0.5}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{2. / 3., 1, 0.5}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0.5, 1, 0.25}, mgl32.Vec3{0, 0.5, 0.5}},
		{mgl32.Vec3{0.3, 0, 0.25}, mgl32.Vec3{0.25, 0.25, 0.25}},
	}
	for _, c := range cases {
		if got := Hsl2rgb(c.hsl); !closeVec3(got, c.rgb) {
			t.Errorf("hsl %v should be %v but was %v", c.hsl, c.rgb, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Errorf("clamp out of range")
	}
}
