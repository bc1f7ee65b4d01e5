package libgl

import "testing"

func TestMipmapCount(t *testing.T) {
	cases := []struct{ w, h, levels int }{
		{1, 1, 1},
		{2, 2, 2},
		{128, 128, 8},
		{64, 32, 7},
		{512, 512, 10},
		{0, 0, 1},
	}
	for _, c := range cases {
		if got := MipmapCount(c.w, c.h); got != c.levels {
			t.Errorf("%dx%d should have %d levels but had %d", c.w, c.h, c.levels, got)
		}
	}
}
