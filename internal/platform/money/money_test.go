package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound_HalfUp(t *testing.T) {
	cases := map[string]string{
		"45":      "45.00",
		"1.005":   "1.01",
		"2.675":   "2.68",
		"10.0049": "10.00",
		"0.125":   "0.13",
	}
	for in, want := range cases {
		got := Format(Round(decimal.RequireFromString(in)))
		assert.Equal(t, want, got, "Round(%s)", in)
	}
}

func TestCovers_UsesTolerance(t *testing.T) {
	total := decimal.RequireFromString("45.00")

	assert.True(t, Covers(decimal.RequireFromString("45.00"), total))
	assert.True(t, Covers(decimal.RequireFromString("44.9995"), total))
	assert.True(t, Covers(decimal.RequireFromString("55.00"), total))
	assert.False(t, Covers(decimal.RequireFromString("44.99"), total))
}

func TestSum_RoundsResult(t *testing.T) {
	got := Sum(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"), decimal.RequireFromString("0.004"))
	assert.Equal(t, "0.30", Format(got))
	assert.True(t, Sum().IsZero())
}

func TestParse_AcceptsComma(t *testing.T) {
	d, err := Parse(" 15,99 ")
	require.NoError(t, err)
	assert.Equal(t, "15.99", Format(d))

	_, err = Parse("abc")
	assert.Error(t, err)
}
