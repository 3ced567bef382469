package claimdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantra-chain/claimdrop-core/bigmath"
	"github.com/mantra-chain/claimdrop-core/host"
	"github.com/mantra-chain/claimdrop-core/store"
)

// identityValidator passes addresses through unchanged, standing in
// for a real chain's bech32/f-address canonicalization in tests that
// only care about claimdrop's own state machine.
type identityValidator struct{}

func (identityValidator) Canonicalize(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidInput("address must not be empty")
	}
	return raw, nil
}

var _ host.AddressValidator = identityValidator{}

const (
	testOwner    = "owner1"
	testDenom    = "uom"
	testOperator = "operator1"
)

func newTestKeeper(t *testing.T, bankBalance int64) (*Keeper, *store.FakeBank, *store.FakeClock) {
	t.Helper()
	mem := store.NewMemory()
	bank := store.NewFakeBank(map[string]bigmath.Amount{testDenom: bigmath.NewAmount(bankBalance)})
	clock := store.NewFakeClock(0)
	owner := store.NewFakeOwnership(testOwner)
	k := NewKeeper(mem, bank, clock, identityValidator{}, owner)
	return k, bank, clock
}

func basicParams(now uint64, total int64) CampaignParams {
	return CampaignParams{
		Name:        "drop",
		Description: "a test campaign",
		Kind:        "standard",
		TotalReward: Coin{Denom: testDenom, Amount: bigmath.NewAmount(total)},
		Distribution: []Slot{
			{Kind: SlotLumpSum, Percentage: pct2("0.5"), StartTime: now + 10},
			{Kind: SlotLinearVesting, Percentage: pct2("0.5"), StartTime: now + 10, EndTime: now + 110},
		},
		StartTime: now + 1,
		EndTime:   now + 100000,
	}
}

func singleAllocation(address string, amount int64) []AllocationInput {
	return []AllocationInput{{Address: address, Amount: bigmath.NewAmount(amount)}}
}

func pct2(s string) bigmath.Decimal {
	d, err := bigmath.ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestScenarioS1ZeroDurationLinearVestingRejected reproduces spec.md
// §8 scenario S1 end to end through CreateCampaign.
func TestScenarioS1ZeroDurationLinearVestingRejected(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	now := uint64(0)
	params := CampaignParams{
		Name:        "drop",
		Description: "d",
		Kind:        "standard",
		TotalReward: Coin{Denom: testDenom, Amount: bigmath.NewAmount(1000)},
		Distribution: []Slot{
			{Kind: SlotLinearVesting, Percentage: bigmath.DecimalOne(), StartTime: now + 100, EndTime: now + 100},
		},
		StartTime: now + 1,
		EndTime:   now + 1000,
	}
	_, err := k.CreateCampaign(testOwner, params)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindInvalidDistributionTimes, cerr.Kind)
}

// TestScenarioS2PartialClaimDrainsLumpSumFirst reproduces spec.md §8
// scenario S2 through the full Keeper path.
func TestScenarioS2PartialClaimDrainsLumpSumFirst(t *testing.T) {
	k, _, clock := newTestKeeper(t, 1000)
	now := uint64(0)
	_, err := k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)

	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 1000))
	require.NoError(t, err)

	clock.Set(now + 86400)

	r1, err := k.Claim("alice", "alice", requested(300))
	require.NoError(t, err)
	assert.Equal(t, "300", r1.Attributes["amount"])
	require.Len(t, r1.Transfers, 1)
	assert.Equal(t, "alice", r1.Transfers[0].To)
	assert.Equal(t, "300", r1.Transfers[0].Amount.String())

	r2, err := k.Claim("alice", "alice", requested(200))
	require.NoError(t, err)
	assert.Equal(t, "200", r2.Attributes["amount"])

	r3, err := k.Claim("alice", "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "500", r3.Attributes["amount"])

	total, err := k.ClaimedTotal()
	require.NoError(t, err)
	assert.Equal(t, "1000", total.Amount.String())
}

// TestScenarioS3RoundingCompensationThroughKeeper reproduces spec.md
// §8 scenario S3 through the full Keeper path: three slots splitting
// an allocation unevenly must still deliver the whole allocation once
// every slot has finished.
func TestScenarioS3RoundingCompensationThroughKeeper(t *testing.T) {
	k, _, clock := newTestKeeper(t, 1000)
	now := uint64(0)
	third := pct2("0.333333333333333333")
	params := CampaignParams{
		Name:        "drop",
		Description: "d",
		Kind:        "standard",
		TotalReward: Coin{Denom: testDenom, Amount: bigmath.NewAmount(1000)},
		Distribution: []Slot{
			{Kind: SlotLumpSum, Percentage: third, StartTime: now + 10},
			{Kind: SlotLumpSum, Percentage: third, StartTime: now + 10},
			{Kind: SlotLumpSum, Percentage: pct2("0.333333333333333334"), StartTime: now + 10},
		},
		StartTime: now + 1,
		EndTime:   now + 100000,
	}
	_, err := k.CreateCampaign(testOwner, params)
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 1000))
	require.NoError(t, err)

	clock.Set(now + 10)
	res, err := k.Claim("alice", "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "1000", res.Attributes["amount"])
}

// TestScenarioS4ClaimBeforeDistributionStartIsNothingToClaim reproduces
// spec.md §8 scenario S4, pinning the Open Question's interpretation
// (a): a campaign can be started while its sole slot has not, and a
// claim attempt in that window yields NothingToClaim rather than an
// early compensation payout.
func TestScenarioS4ClaimBeforeDistributionStartIsNothingToClaim(t *testing.T) {
	k, _, clock := newTestKeeper(t, 1000)
	now := uint64(0)
	params := CampaignParams{
		Name:        "drop",
		Description: "d",
		Kind:        "standard",
		TotalReward: Coin{Denom: testDenom, Amount: bigmath.NewAmount(1000)},
		Distribution: []Slot{
			{Kind: SlotLinearVesting, Percentage: bigmath.DecimalOne(), StartTime: now + 1000, EndTime: now + 2000},
		},
		StartTime: now + 1,
		EndTime:   now + 100000,
	}
	_, err := k.CreateCampaign(testOwner, params)
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 1000))
	require.NoError(t, err)

	clock.Set(now + 500)
	_, err = k.Claim("alice", "alice", nil)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindNothingToClaim, cerr.Kind)
}

// TestScenarioS5SweepRejectsRewardDenom reproduces spec.md §8 scenario
// S5: sweeping the reward denom is rejected while a campaign exists,
// sweeping any other denom succeeds and emits sweep_tokens.
func TestScenarioS5SweepRejectsRewardDenom(t *testing.T) {
	k, bank, _ := newTestKeeper(t, 1000)
	now := uint64(0)
	_, err := k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)

	_, err = k.Sweep(testOwner, testDenom, nil)
	require.Error(t, err)
	assert.Equal(t, KindCampaignError, err.(*Error).Kind)

	bank.Credit("uatom", bigmath.NewAmount(50))
	res, err := k.Sweep(testOwner, "uatom", nil)
	require.NoError(t, err)
	assert.Equal(t, "sweep_tokens", res.Attributes["event"])
	assert.Equal(t, "50", res.Attributes["amount"])
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, testOwner, res.Transfers[0].To)
}

func TestSweepRejectsNonOwner(t *testing.T) {
	k, bank, _ := newTestKeeper(t, 1000)
	bank.Credit("uatom", bigmath.NewAmount(10))
	_, err := k.Sweep("alice", "uatom", nil)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, err.(*Error).Kind)
}

// TestScenarioS6OwnerCannotBeBlacklisted reproduces spec.md §8 scenario
// S6: the owner can hold an allocation and is never blacklistable.
func TestScenarioS6OwnerCannotBeBlacklisted(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.BlacklistAddress(testOwner, testOwner, true)
	require.Error(t, err)
	assert.Equal(t, KindCampaignError, err.(*Error).Kind)

	now := uint64(0)
	_, err = k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation(testOwner, 100))
	require.NoError(t, err, "the owner is allowed to hold an allocation like any other address")
}

func TestCreateCampaignRejectsNonAuthorizedSender(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.CreateCampaign("stranger", basicParams(0, 1000))
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, err.(*Error).Kind)
}

func TestCreateCampaignRejectsWhenOneAlreadyExists(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.CreateCampaign(testOwner, basicParams(0, 1000))
	require.NoError(t, err)
	_, err = k.CreateCampaign(testOwner, basicParams(0, 1000))
	require.Error(t, err)
	assert.Equal(t, KindCampaignError, err.(*Error).Kind)
}

func TestCloseCampaignRefundsRemainingBalance(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.CreateCampaign(testOwner, basicParams(0, 1000))
	require.NoError(t, err)

	res, err := k.CloseCampaign(testOwner)
	require.NoError(t, err)
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, testOwner, res.Transfers[0].To)
	assert.Equal(t, "1000", res.Transfers[0].Amount.String())

	campaign, err := k.GetCampaign()
	require.NoError(t, err)
	assert.True(t, campaign.IsClosed())
}

func TestAddAllocationsRejectsAfterCampaignStart(t *testing.T) {
	k, _, clock := newTestKeeper(t, 1000)
	now := uint64(0)
	_, err := k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)
	clock.Set(now + 100000)

	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 10))
	require.Error(t, err)
	assert.Equal(t, KindCampaignError, err.(*Error).Kind)
}

func TestAddAllocationsRejectsDuplicates(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.CreateCampaign(testOwner, basicParams(0, 1000))
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 10))
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 10))
	require.Error(t, err)
	assert.Equal(t, KindAllocationAlreadyExists, err.(*Error).Kind)
}

// TestAddAllocationsRejectsInBatchDuplicate reproduces
// original_source/src/commands.rs's add_allocations: a repeated
// address within a single batch is caught on the second occurrence,
// exactly as if it had already been saved (original_source/tests),
// even though nothing has been committed to the Store yet.
func TestAddAllocationsRejectsInBatchDuplicate(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.CreateCampaign(testOwner, basicParams(0, 1000))
	require.NoError(t, err)

	_, err = k.AddAllocations(testOwner, []AllocationInput{
		{Address: "alice", Amount: bigmath.NewAmount(10)},
		{Address: "bob", Amount: bigmath.NewAmount(20)},
		{Address: "alice", Amount: bigmath.NewAmount(30)},
	})
	require.Error(t, err)
	assert.Equal(t, KindAllocationAlreadyExists, err.(*Error).Kind)

	// the whole batch must have been discarded, including "bob".
	_, exists, err := k.loadAllocation("bob")
	require.NoError(t, err)
	assert.False(t, exists, "a rejected batch must not partially commit")
}

func TestAddAllocationsRejectsOversizedBatch(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.CreateCampaign(testOwner, basicParams(0, 1000))
	require.NoError(t, err)

	batch := make([]AllocationInput, 0, MaxAllocationBatch+1)
	for i := 0; i < MaxAllocationBatch+1; i++ {
		batch = append(batch, AllocationInput{Address: itoa(i), Amount: bigmath.NewAmount(1)})
	}
	_, err = k.AddAllocations(testOwner, batch)
	require.Error(t, err)
	assert.Equal(t, KindBatchSizeLimitExceeded, err.(*Error).Kind)
}

func TestReplaceAddressMigratesAllocationAndClaims(t *testing.T) {
	k, _, clock := newTestKeeper(t, 1000)
	now := uint64(0)
	_, err := k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 1000))
	require.NoError(t, err)

	clock.Set(now + 10)
	_, err = k.Claim("alice", "alice", requested(100))
	require.NoError(t, err)

	_, err = k.ReplaceAddress(testOwner, "alice", "alice2")
	require.NoError(t, err)

	_, err = k.Claim("alice", "alice", nil)
	require.Error(t, err, "the old address no longer has an allocation")
	assert.Equal(t, KindNoAllocationFound, err.(*Error).Kind)

	res, err := k.Claim("alice2", "alice2", nil)
	require.NoError(t, err)
	assert.NotEqual(t, "0", res.Attributes["amount"])
}

func TestClaimRejectsBlacklistedReceiver(t *testing.T) {
	k, _, clock := newTestKeeper(t, 1000)
	now := uint64(0)
	_, err := k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 1000))
	require.NoError(t, err)
	_, err = k.BlacklistAddress(testOwner, "alice", true)
	require.NoError(t, err)

	clock.Set(now + 10)
	_, err = k.Claim("alice", "alice", nil)
	require.Error(t, err)
	assert.Equal(t, KindAddressBlacklisted, err.(*Error).Kind)
}

func TestClaimOnBehalfRequiresAuthorizedSender(t *testing.T) {
	k, _, clock := newTestKeeper(t, 1000)
	now := uint64(0)
	_, err := k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 1000))
	require.NoError(t, err)
	clock.Set(now + 10)

	_, err = k.Claim("stranger", "alice", nil)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, err.(*Error).Kind)

	_, err = k.ManageAuthorized(testOwner, []string{testOperator}, true)
	require.NoError(t, err)

	res, err := k.Claim(testOperator, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Attributes["receiver"])
}

func TestClaimRejectsInsufficientContractBalance(t *testing.T) {
	k, _, clock := newTestKeeper(t, 10)
	now := uint64(0)
	_, err := k.CreateCampaign(testOwner, basicParams(now, 1000))
	require.NoError(t, err)
	_, err = k.AddAllocations(testOwner, singleAllocation("alice", 1000))
	require.NoError(t, err)

	clock.Set(now + 10)
	_, err = k.Claim("alice", "alice", nil)
	require.Error(t, err)
	assert.Equal(t, KindCampaignError, err.(*Error).Kind)
}

func TestManageAuthorizedRejectsNonOwner(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.ManageAuthorized("stranger", []string{"alice"}, true)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, err.(*Error).Kind)
}

func TestManageAuthorizedRejectsEmptyBatch(t *testing.T) {
	k, _, _ := newTestKeeper(t, 1000)
	_, err := k.ManageAuthorized(testOwner, nil, true)
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, err.(*Error).Kind)
}
