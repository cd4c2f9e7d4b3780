package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	cases := []struct {
		w, l   int
		draw   bool
		ww, ll int
	}{
		{1200, 1200, false, 1216, 1184},
		{1200, 1200, true, 1200, 1200},
		{1400, 1200, false, 1408, 1192},
		{1200, 1400, false, 1224, 1376},
		{1200, 1400, true, 1208, 1392},
	}
	for _, tc := range cases {
		c := Apply(tc.w, tc.l, tc.draw)
		if c.WinnerNew != tc.ww || c.LoserNew != tc.ll {
			t.Errorf("Apply(%d, %d, %v) = %d/%d, want %d/%d",
				tc.w, tc.l, tc.draw, c.WinnerNew, c.LoserNew, tc.ww, tc.ll)
		}
	}
}

func TestExpected(t *testing.T) {
	assert.InDelta(t, 0.5, Expected(1500, 1500), 1e-9)
	assert.InDelta(t, 1.0, Expected(1600, 1200)+Expected(1200, 1600), 1e-9)
	assert.InDelta(t, 1/(1+0.1), Expected(1600, 1200), 1e-9)
}

func TestDeltas(t *testing.T) {
	c := Apply(Default, Default, false)
	assert.Equal(t, 16, c.WinnerDelta())
	assert.Equal(t, -16, c.LoserDelta())
}
