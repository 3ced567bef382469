package bigmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimalRoundTrip(t *testing.T) {
	d, err := ParseDecimal("0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.500000000000000000", d.String())
}

func TestDecimalOneExact(t *testing.T) {
	assert.True(t, DecimalOne().Equal(DecimalOne()))
	one, err := ParseDecimal("1")
	require.NoError(t, err)
	assert.True(t, one.Equal(DecimalOne()))
}

func TestPercentagesSumToExactlyOne(t *testing.T) {
	half, err := ParseDecimal("0.5")
	require.NoError(t, err)
	sum := half.Add(half)
	assert.True(t, sum.Equal(DecimalOne()))
}

func TestThreeWaySplitNeverSumsExactlyWithNaiveRounding(t *testing.T) {
	third, err := ParseDecimal("0.333333333333333333")
	require.NoError(t, err)
	sum := third.Add(third).Add(third)
	assert.False(t, sum.Equal(DecimalOne()), "three repeating thirds deliberately fall one unit short of one")
}

func TestMulAmountFloors(t *testing.T) {
	half, err := ParseDecimal("0.5")
	require.NoError(t, err)
	got, err := half.MulAmount(NewAmount(7))
	require.NoError(t, err)
	assert.Equal(t, "3", got.String())
}

func TestRejectsTooManyFractionalDigits(t *testing.T) {
	_, err := ParseDecimal("0.1234567890123456789")
	assert.Error(t, err)
}
