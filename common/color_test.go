package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		err  bool
	}{
		{in: "#f1f1f1", want: 0xf1f1f1},
		{in: "0xFFFFFF", want: 0xffffff},
		{in: " 8d8d8d ", want: 0x8d8d8d},
		{in: "#000", want: 0x000},
		{in: "", err: true},
		{in: "#1234567", err: true},
		{in: "zzzzzz", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorTextRoundTrip(t *testing.T) {
	text, err := Color(0x0a0b0c).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#0a0b0c", string(text))

	var c Color
	require.NoError(t, c.UnmarshalText([]byte("#ABCDEF")))
	assert.Equal(t, Color(0xabcdef), c)
	assert.Error(t, c.UnmarshalText([]byte("nope")))
}

func TestColorLinear(t *testing.T) {
	assert.Equal(t, Color(0xffffff).Linear(), Color(0xffffff).RGB())

	lin := Color(0x808080).Linear()
	assert.InDelta(t, 0.2158605, lin[0], 1e-5)

	dark := Color(0x0a0000).Linear()
	assert.InDelta(t, (10.0/255.0)/12.92, dark[0], 1e-7)
}

func TestColorFromLinear(t *testing.T) {
	for _, c := range []Color{0xf1f1f1, 0x000000, 0xffffff, 0x123456, 0x8d8d8d} {
		l := c.Linear()
		assert.Equal(t, c, ColorFromLinear(l[0], l[1], l[2]), c.String())
	}
	assert.Equal(t, Color(0xff0000), ColorFromLinear(2, -1, 0))
}
