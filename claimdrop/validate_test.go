package claimdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantra-chain/claimdrop-core/bigmath"
)

func pct(t *testing.T, s string) bigmath.Decimal {
	t.Helper()
	d, err := bigmath.ParseDecimal(s)
	require.NoError(t, err)
	return d
}

func validParams(t *testing.T, now uint64) CampaignParams {
	t.Helper()
	return CampaignParams{
		Name:        "airdrop",
		Description: "a test airdrop",
		Kind:        "standard",
		TotalReward: Coin{Denom: "uom", Amount: bigmath.NewAmount(1_000_000)},
		Distribution: []Slot{
			{Kind: SlotLumpSum, Percentage: pct(t, "0.5"), StartTime: now + 10},
			{Kind: SlotLinearVesting, Percentage: pct(t, "0.5"), StartTime: now + 10, EndTime: now + 1000},
		},
		StartTime: now + 1,
		EndTime:   now + 2000,
	}
}

func TestValidateParamsAccepts(t *testing.T) {
	now := uint64(100)
	assert.NoError(t, ValidateParams(validParams(t, now), now))
}

func TestValidateParamsRejectsNonFuturStart(t *testing.T) {
	now := uint64(100)
	p := validParams(t, now)
	p.StartTime = now
	err := ValidateParams(p, now)
	require.Error(t, err)
	assert.Equal(t, KindInvalidCampaignParam, err.(*Error).Kind)
}

func TestValidateParamsRejectsEndBeforeStart(t *testing.T) {
	now := uint64(100)
	p := validParams(t, now)
	p.EndTime = p.StartTime
	err := ValidateParams(p, now)
	require.Error(t, err)
}

func TestValidateParamsRejectsZeroDurationLinearVesting(t *testing.T) {
	// Scenario S1: LinearVesting{percentage=1, start=now+100, end=now+100}.
	now := uint64(100)
	p := CampaignParams{
		Name:        "airdrop",
		Description: "d",
		Kind:        "k",
		TotalReward: Coin{Denom: "uom", Amount: bigmath.NewAmount(1000)},
		Distribution: []Slot{
			{Kind: SlotLinearVesting, Percentage: bigmath.DecimalOne(), StartTime: now + 100, EndTime: now + 100},
		},
		StartTime: now + 1,
		EndTime:   now + 1000,
	}
	err := ValidateParams(p, now)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindInvalidDistributionTimes, cerr.Kind)
}

func TestValidateParamsRejectsPercentagesNotSummingToOne(t *testing.T) {
	now := uint64(100)
	p := validParams(t, now)
	p.Distribution[1].Percentage = pct(t, "0.4")
	err := ValidateParams(p, now)
	require.Error(t, err)
}

func TestValidateParamsRejectsCliffNotShorterThanDuration(t *testing.T) {
	now := uint64(100)
	cliff := uint64(990)
	p := CampaignParams{
		Name:        "airdrop",
		Description: "d",
		Kind:        "k",
		TotalReward: Coin{Denom: "uom", Amount: bigmath.NewAmount(1000)},
		Distribution: []Slot{
			{Kind: SlotLinearVesting, Percentage: bigmath.DecimalOne(), StartTime: now + 10, EndTime: now + 1000, CliffDuration: &cliff},
		},
		StartTime: now + 1,
		EndTime:   now + 2000,
	}
	err := ValidateParams(p, now)
	require.Error(t, err)
}

func TestValidateParamsAcceptsZeroLengthCliffDistinctFromAbsent(t *testing.T) {
	now := uint64(100)
	zero := uint64(0)
	p := CampaignParams{
		Name:        "airdrop",
		Description: "d",
		Kind:        "k",
		TotalReward: Coin{Denom: "uom", Amount: bigmath.NewAmount(1000)},
		Distribution: []Slot{
			{Kind: SlotLinearVesting, Percentage: bigmath.DecimalOne(), StartTime: now + 10, EndTime: now + 1000, CliffDuration: &zero},
		},
		StartTime: now + 1,
		EndTime:   now + 2000,
	}
	assert.NoError(t, ValidateParams(p, now))
}

func TestValidateParamsRejectsSlotStartBeforeCampaignStart(t *testing.T) {
	now := uint64(100)
	p := validParams(t, now)
	p.Distribution[0].StartTime = p.StartTime - 1
	err := ValidateParams(p, now)
	require.Error(t, err)
}
