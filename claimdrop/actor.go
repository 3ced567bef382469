package claimdrop

import (
	"github.com/mantra-chain/claimdrop-core/bigmath"
	"github.com/mantra-chain/claimdrop-core/host"
)

// MutationResult is the effect set a successful handler produces:
// attributes/events for the host to emit (spec.md §6) and any
// outbound transfer instructions to queue (spec.md §5 — the core
// never executes a transfer itself).
type MutationResult struct {
	Attributes map[string]string
	Transfers  []host.TransferInstruction
}

func result(action string, extra map[string]string, transfers ...host.TransferInstruction) MutationResult {
	attrs := map[string]string{"action": action}
	for k, v := range extra {
		attrs[k] = v
	}
	return MutationResult{Attributes: attrs, Transfers: transfers}
}

// CreateCampaign implements spec.md §4.5 "create_campaign": gated by
// is_authorized(sender), only accepted while no campaign exists.
func (k *Keeper) CreateCampaign(sender string, params CampaignParams) (MutationResult, error) {
	if err := k.accessLattice().RequireAuthorized(sender); err != nil {
		return MutationResult{}, err
	}

	existing, err := k.loadCampaign()
	if err != nil {
		return MutationResult{}, err
	}
	if existing != nil {
		return MutationResult{}, ErrCampaign("campaign already exists")
	}

	now := k.Clock.Now()
	if err := ValidateParams(params, now); err != nil {
		return MutationResult{}, err
	}

	campaign := &Campaign{
		Name:         params.Name,
		Description:  params.Description,
		Kind:         params.Kind,
		TotalReward:  params.TotalReward,
		Claimed:      Coin{Denom: params.TotalReward.Denom, Amount: bigmath.Zero()},
		Distribution: params.Distribution,
		StartTime:    params.StartTime,
		EndTime:      params.EndTime,
	}

	b := k.newBatch()
	if err := b.saveCampaign(campaign); err != nil {
		return MutationResult{}, err
	}
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}
	return result("create_campaign", map[string]string{"name": params.Name}), nil
}

// CloseCampaign implements "close_campaign": gated by
// is_authorized(sender), only while the campaign is open. Any
// remaining reward-denom balance is refunded to the owner.
func (k *Keeper) CloseCampaign(sender string) (MutationResult, error) {
	if err := k.accessLattice().RequireAuthorized(sender); err != nil {
		return MutationResult{}, err
	}

	campaign, err := k.loadCampaign()
	if err != nil {
		return MutationResult{}, err
	}
	if campaign == nil {
		return MutationResult{}, ErrCampaign("no campaign exists")
	}
	if campaign.IsClosed() {
		return MutationResult{}, ErrCampaign("campaign already closed")
	}

	now := k.Clock.Now()
	campaign.Closed = &now

	balance, err := k.Bank.BalanceOf(campaign.TotalReward.Denom)
	if err != nil {
		return MutationResult{}, WrapStoreError(err, "query bank balance")
	}

	b := k.newBatch()
	if err := b.saveCampaign(campaign); err != nil {
		return MutationResult{}, err
	}
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}

	var transfers []host.TransferInstruction
	if !balance.IsZero() {
		transfers = append(transfers, host.TransferInstruction{
			To: k.Owner.Current(), Denom: campaign.TotalReward.Denom, Amount: balance,
		})
	}
	return result("close_campaign", nil, transfers...), nil
}

// TopUp implements "top_up": gated by is_authorized(sender); the
// actual funds-attached transfer is performed entirely by the host
// (spec.md §4.5: "no-op on state beyond balance") — the core only
// checks that a campaign exists; a closed campaign still accepts a
// top-up.
func (k *Keeper) TopUp(sender string, amount Coin) (MutationResult, error) {
	if err := k.accessLattice().RequireAuthorized(sender); err != nil {
		return MutationResult{}, err
	}
	campaign, err := k.loadCampaign()
	if err != nil {
		return MutationResult{}, err
	}
	if campaign == nil {
		return MutationResult{}, ErrCampaign("no campaign exists")
	}
	return result("top_up", map[string]string{"denom": amount.Denom, "amount": amount.Amount.String()}), nil
}

// AddAllocations implements "add_allocations": batch <= 3000,
// accepted before campaign.start_time (or before the campaign
// exists), rejecting duplicates both against already-stored
// allocations and within the batch itself (original_source's
// add_allocations catches a repeated address on the second loop
// iteration's has() check; a seen-set reproduces that here since
// writes are staged, not applied, until commit).
func (k *Keeper) AddAllocations(sender string, allocations []AllocationInput) (MutationResult, error) {
	if err := k.accessLattice().RequireAuthorized(sender); err != nil {
		return MutationResult{}, err
	}
	if len(allocations) > MaxAllocationBatch {
		return MutationResult{}, ErrBatchSizeLimitExceeded(len(allocations), MaxAllocationBatch)
	}

	campaign, err := k.loadCampaign()
	if err != nil {
		return MutationResult{}, err
	}
	if campaign != nil {
		now := k.Clock.Now()
		if now >= campaign.StartTime {
			return MutationResult{}, ErrCampaign("allocations can only be added before the campaign starts")
		}
	}

	b := k.newBatch()
	seen := make(map[string]struct{}, len(allocations))
	for _, item := range allocations {
		address, err := k.canonicalize(item.Address)
		if err != nil {
			return MutationResult{}, err
		}
		if !item.Amount.GreaterThan(bigmath.Zero()) {
			return MutationResult{}, ErrInvalidInput("allocation amount for %s must be > 0", address)
		}
		if _, dup := seen[address]; dup {
			return MutationResult{}, ErrAllocationAlreadyExists(address)
		}
		seen[address] = struct{}{}
		_, exists, err := k.loadAllocation(address)
		if err != nil {
			return MutationResult{}, err
		}
		if exists {
			return MutationResult{}, ErrAllocationAlreadyExists(address)
		}
		if err := b.saveAllocation(address, item.Amount); err != nil {
			return MutationResult{}, err
		}
	}
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}
	return result("add_allocations", map[string]string{"count": itoa(len(allocations))}), nil
}

// RemoveAddress implements "remove_address": idempotent, accepted
// before the campaign starts; also purges the address from the
// blacklist.
func (k *Keeper) RemoveAddress(sender string, raw string) (MutationResult, error) {
	if err := k.accessLattice().RequireAuthorized(sender); err != nil {
		return MutationResult{}, err
	}
	address, err := k.canonicalize(raw)
	if err != nil {
		return MutationResult{}, err
	}

	campaign, err := k.loadCampaign()
	if err != nil {
		return MutationResult{}, err
	}
	if campaign != nil {
		now := k.Clock.Now()
		if now >= campaign.StartTime {
			return MutationResult{}, ErrCampaign("allocations can only be removed before the campaign starts")
		}
	}

	b := k.newBatch()
	b.deleteAllocation(address)
	b.setBlacklisted(address, false)
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}
	return result("remove_address", map[string]string{"address": address}), nil
}

// ReplaceAddress implements "replace_address": accepted at any time,
// migrating allocation + claims + blacklist entry atomically. Fails
// if newAddress already has an allocation. Re-validates the
// owner-protection invariant after the migration (SPEC_FULL.md
// §3-ADD, pinned by original_source/tests/owner_protection.rs): if
// the migrated address is the owner, it must not end up blacklisted.
func (k *Keeper) ReplaceAddress(sender string, rawOld, rawNew string) (MutationResult, error) {
	if err := k.accessLattice().RequireAuthorized(sender); err != nil {
		return MutationResult{}, err
	}
	oldAddress, err := k.canonicalize(rawOld)
	if err != nil {
		return MutationResult{}, err
	}
	newAddress, err := k.canonicalize(rawNew)
	if err != nil {
		return MutationResult{}, err
	}

	oldAmount, exists, err := k.loadAllocation(oldAddress)
	if err != nil {
		return MutationResult{}, err
	}
	if !exists {
		return MutationResult{}, ErrNoAllocation(oldAddress)
	}
	_, newExists, err := k.loadAllocation(newAddress)
	if err != nil {
		return MutationResult{}, err
	}
	if newExists {
		return MutationResult{}, ErrAllocationAlreadyExists(newAddress)
	}

	oldClaims, err := k.loadClaims(oldAddress)
	if err != nil {
		return MutationResult{}, err
	}
	oldBlacklisted, err := k.isBlacklisted(oldAddress)
	if err != nil {
		return MutationResult{}, err
	}
	if oldBlacklisted {
		if err := k.accessLattice().RequireBlacklistable(newAddress); err != nil {
			return MutationResult{}, err
		}
	}

	b := k.newBatch()
	b.deleteAllocation(oldAddress)
	if err := b.saveAllocation(newAddress, oldAmount); err != nil {
		return MutationResult{}, err
	}
	if len(oldClaims) > 0 {
		b.del(prefixClaims, oldAddress)
		if err := b.saveClaims(newAddress, oldClaims); err != nil {
			return MutationResult{}, err
		}
	}
	b.setBlacklisted(oldAddress, false)
	b.setBlacklisted(newAddress, oldBlacklisted)
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}
	return result("replace_address", map[string]string{"old": oldAddress, "new": newAddress}), nil
}

// BlacklistAddress implements "blacklist_address": rejects
// blacklisting the owner, from any caller.
func (k *Keeper) BlacklistAddress(sender, raw string, blacklisted bool) (MutationResult, error) {
	if err := k.accessLattice().RequireAuthorized(sender); err != nil {
		return MutationResult{}, err
	}
	address, err := k.canonicalize(raw)
	if err != nil {
		return MutationResult{}, err
	}
	if blacklisted {
		if err := k.accessLattice().RequireBlacklistable(address); err != nil {
			return MutationResult{}, err
		}
	}

	b := k.newBatch()
	b.setBlacklisted(address, blacklisted)
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}
	return result("blacklist_address", map[string]string{"address": address, "blacklisted": boolStr(blacklisted)}), nil
}

// ManageAuthorized implements "manage_authorized": owner-only, batch
// <= 1000, non-empty.
func (k *Keeper) ManageAuthorized(sender string, rawAddresses []string, authorize bool) (MutationResult, error) {
	if err := k.accessLattice().RequireOwner(sender); err != nil {
		return MutationResult{}, err
	}
	if len(rawAddresses) == 0 {
		return MutationResult{}, ErrInvalidInput("authorized-wallets batch must be non-empty")
	}
	if len(rawAddresses) > MaxAuthorizedBatch {
		return MutationResult{}, ErrBatchSizeLimitExceeded(len(rawAddresses), MaxAuthorizedBatch)
	}

	b := k.newBatch()
	addresses := make([]string, 0, len(rawAddresses))
	for _, raw := range rawAddresses {
		address, err := k.canonicalize(raw)
		if err != nil {
			return MutationResult{}, err
		}
		b.setAuthorizedOperator(address, authorize)
		addresses = append(addresses, address)
	}
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}
	return result("manage_authorized", map[string]string{"count": itoa(len(addresses))}), nil
}

// Sweep implements "sweep": owner-only, rescues non-reward-denom
// balance. Rejects sweeping the reward denom while a campaign exists,
// an amount exceeding the balance, or a zero balance.
func (k *Keeper) Sweep(sender, denom string, amount *bigmath.Amount) (MutationResult, error) {
	if err := k.accessLattice().RequireOwner(sender); err != nil {
		return MutationResult{}, err
	}

	campaign, err := k.loadCampaign()
	if err != nil {
		return MutationResult{}, err
	}
	if campaign != nil && denom == campaign.TotalReward.Denom {
		return MutationResult{}, ErrCampaign("reward denom is not sweepable while a campaign exists")
	}

	balance, err := k.Bank.BalanceOf(denom)
	if err != nil {
		return MutationResult{}, WrapStoreError(err, "query bank balance")
	}
	if balance.IsZero() {
		return MutationResult{}, ErrCampaign("balance is zero")
	}

	sweepAmount := balance
	if amount != nil {
		if amount.GreaterThan(balance) {
			return MutationResult{}, ErrCampaign("sweep amount exceeds balance")
		}
		sweepAmount = *amount
	}

	owner := k.Owner.Current()
	res := result("sweep", map[string]string{
		"denom": denom, "amount": sweepAmount.String(), "recipient": owner,
	}, host.TransferInstruction{To: owner, Denom: denom, Amount: sweepAmount})
	res.Attributes["event"] = "sweep_tokens"
	return res, nil
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Claim implements the claim calculator's host-facing handler
// (spec.md §4.4): it enforces every precondition and access check,
// then delegates the pure math to ComputeClaim, then persists and
// queues the outbound transfer.
func (k *Keeper) Claim(rawSender, rawReceiver string, requested *bigmath.Amount) (MutationResult, error) {
	sender, err := k.canonicalize(rawSender)
	if err != nil {
		return MutationResult{}, err
	}
	receiver, err := k.canonicalize(rawReceiver)
	if err != nil {
		return MutationResult{}, err
	}

	campaign, err := k.loadCampaign()
	if err != nil {
		return MutationResult{}, err
	}
	if campaign == nil {
		return MutationResult{}, ErrCampaign("no campaign exists")
	}
	now := k.Clock.Now()
	if now < campaign.StartTime {
		return MutationResult{}, ErrCampaign("campaign has not started")
	}
	if campaign.IsClosed() {
		return MutationResult{}, ErrCampaign("campaign is closed")
	}

	lattice := k.accessLattice()
	if sender == receiver {
		if err := lattice.RequireCanClaimFor(sender, receiver); err != nil {
			return MutationResult{}, err
		}
	} else {
		if err := lattice.RequireCanClaimOnBehalf(sender, receiver); err != nil {
			return MutationResult{}, err
		}
	}

	allocation, exists, err := k.loadAllocation(receiver)
	if err != nil {
		return MutationResult{}, err
	}
	if !exists {
		return MutationResult{}, ErrNoAllocation(receiver)
	}
	claims, err := k.loadClaims(receiver)
	if err != nil {
		return MutationResult{}, err
	}

	claimResult, err := ComputeClaim(ClaimInput{
		Campaign:   campaign,
		Allocation: allocation,
		Claims:     claims,
		Now:        now,
		Requested:  requested,
	})
	if err != nil {
		return MutationResult{}, err
	}

	balance, err := k.Bank.BalanceOf(campaign.TotalReward.Denom)
	if err != nil {
		return MutationResult{}, WrapStoreError(err, "query bank balance")
	}
	if claimResult.TotalAmount.GreaterThan(balance) {
		return MutationResult{}, ErrCampaign("insufficient contract balance for claim")
	}

	merged := ClaimRecord{}
	for slotIdx, v := range claims {
		merged[slotIdx] = v
	}
	for slotIdx, delta := range claimResult.PerSlotDelta {
		prior := bigmath.Zero()
		if c, ok := merged[slotIdx]; ok {
			prior = c.Amount
		}
		merged[slotIdx] = SlotClaim{Amount: prior.Add(delta), LastTimestamp: now}
	}
	if merged.TotalClaimed().GreaterThan(allocation) {
		return MutationResult{}, ErrExceededMaxClaim
	}

	campaign.Claimed.Amount = campaign.Claimed.Amount.Add(claimResult.TotalAmount)

	b := k.newBatch()
	if err := b.saveClaims(receiver, merged); err != nil {
		return MutationResult{}, err
	}
	if err := b.saveCampaign(campaign); err != nil {
		return MutationResult{}, err
	}
	if err := b.commit(); err != nil {
		return MutationResult{}, err
	}

	return result("claim", map[string]string{
		"receiver": receiver, "denom": campaign.TotalReward.Denom, "amount": claimResult.TotalAmount.String(),
	}, host.TransferInstruction{To: receiver, Denom: campaign.TotalReward.Denom, Amount: claimResult.TotalAmount}), nil
}
