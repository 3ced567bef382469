package claimdrop

import (
	"sort"

	"github.com/mantra-chain/claimdrop-core/bigmath"
)

// ClaimInput bundles everything the Claim Calculator needs, mirroring
// spec.md §4.4 "Inputs": campaign snapshot, wall-clock t, recipient's
// allocation, their prior claim record, and an optional explicit
// requested amount.
type ClaimInput struct {
	Campaign   *Campaign
	Allocation bigmath.Amount
	Claims     ClaimRecord
	Now        uint64
	Requested  *bigmath.Amount
}

// ClaimResult is the calculator's output: the per-slot deltas to
// merge into the claim record and the total amount to transfer.
type ClaimResult struct {
	// PerSlotDelta maps slot index -> the amount newly claimed from
	// that slot in this call (spec.md §4.4 Step 6/7). Callers add
	// these into the stored SlotClaim.Amount and overwrite its
	// LastTimestamp with Now.
	PerSlotDelta map[int]bigmath.Amount
	TotalAmount  bigmath.Amount
}

// ComputeClaim runs the claim calculator described in spec.md §4.4.
// It does not check access control, blacklist membership, solvency,
// or campaign-lifecycle preconditions (create/close/start) — those
// are the Keeper's job in actor.go, which calls ComputeClaim only
// after every precondition holds. This separation matches the
// teacher's own split between rt.ValidateImmediateCallerIs (access,
// in the actor) and the pure state-transition math (in monies.go).
func ComputeClaim(in ClaimInput) (ClaimResult, error) {
	slots := in.Campaign.Distribution

	// Step 1: per-slot new-claimable.
	newClaimable := make([]bigmath.Amount, len(slots))
	vestedBy := make([]bigmath.Amount, len(slots))
	priorBy := make([]bigmath.Amount, len(slots))
	allFinished := true
	for k, slot := range slots {
		vested, err := VestedAmount(slot, in.Allocation, in.Now)
		if err != nil {
			return ClaimResult{}, err
		}
		prior := bigmath.Zero()
		if c, ok := in.Claims[k]; ok {
			prior = c.Amount
		}
		vestedBy[k], priorBy[k] = vested, prior
		newClaimable[k] = vested.SubSaturating(prior)
		if !SlotFinished(slot, in.Now) {
			allFinished = false
		}
	}

	// Step 2: rounding compensation, only when every slot is finished
	// (spec.md §4.4 Step 2 and the Open Question resolution in
	// SPEC_FULL.md §4.4-ADD: interpretation (a) — no early compensation).
	if allFinished {
		target := bigmath.Zero()
		for _, slot := range slots {
			t, err := SlotTarget(slot, in.Allocation)
			if err != nil {
				return ClaimResult{}, err
			}
			target = target.Add(t)
		}
		comp, err := in.Allocation.Sub(target)
		if err != nil {
			// target can only exceed allocation due to a validation
			// bug upstream (percentages summing to exactly one is
			// enforced at creation); treat as a bug-class error.
			return ClaimResult{}, ErrCampaign("distribution compensation underflow: %v", err)
		}
		if !comp.IsZero() {
			lastFinished := -1
			for k, slot := range slots {
				if SlotFinished(slot, in.Now) {
					lastFinished = k
				}
			}
			if lastFinished >= 0 {
				// The compensated slot's cumulative target is its vested
				// amount plus comp; subtracting what was already claimed
				// from it keeps comp from being paid out again.
				newClaimable[lastFinished] = vestedBy[lastFinished].Add(comp).SubSaturating(priorBy[lastFinished])
			}
		}
	}

	// Step 3: maximum claimable.
	max := bigmath.Zero()
	for _, v := range newClaimable {
		max = max.Add(v)
	}

	// Step 4: resolve actual claim amount.
	var claimAmount bigmath.Amount
	if in.Requested == nil {
		claimAmount = max
	} else {
		req := *in.Requested
		if !req.GreaterThan(bigmath.Zero()) || req.GreaterThan(max) {
			return ClaimResult{}, ErrInvalidClaimAmount("requested amount must be in (0, max claimable]")
		}
		claimAmount = req
	}
	if claimAmount.IsZero() {
		return ClaimResult{}, ErrNothingToClaim
	}

	// Step 6: partition claimAmount across slots, lump sums first
	// (spec.md §4.4 Step 6 — "a contract").
	delta, err := partition(claimAmount, slots, newClaimable)
	if err != nil {
		return ClaimResult{}, err
	}

	return ClaimResult{PerSlotDelta: delta, TotalAmount: claimAmount}, nil
}

// partition splits remaining across slot indices with new_k > 0, lump
// sum slots (ascending index) before linear-vesting slots (ascending
// index), per spec.md §4.4 Step 6.
func partition(remaining bigmath.Amount, slots []Slot, newClaimable []bigmath.Amount) (map[int]bigmath.Amount, error) {
	var lumpSums, linear []int
	for k, slot := range slots {
		if newClaimable[k].IsZero() {
			continue
		}
		switch slot.Kind {
		case SlotLumpSum:
			lumpSums = append(lumpSums, k)
		case SlotLinearVesting:
			linear = append(linear, k)
		}
	}
	sort.Ints(lumpSums)
	sort.Ints(linear)
	ordered := append(lumpSums, linear...)

	delta := make(map[int]bigmath.Amount, len(ordered))
	for _, k := range ordered {
		if remaining.IsZero() {
			break
		}
		take := bigmath.Min(remaining, newClaimable[k])
		delta[k] = take
		var err error
		remaining, err = remaining.Sub(take)
		if err != nil {
			return nil, err
		}
	}
	if !remaining.IsZero() {
		return nil, ErrDistributionNotDrain
	}
	return delta, nil
}
