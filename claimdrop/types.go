// Package claimdrop implements the core of a single-campaign
// token-airdrop state machine: campaign lifecycle, a composite
// lump-sum/linear-vesting distribution schedule, and the claim
// calculator that turns a (recipient, time) pair into an exact
// integer transfer amount. It depends only on the host package's
// abstractions (Store, Bank, Clock, AddressValidator, Ownership) and
// never on a concrete transport or persistence engine.
package claimdrop

import "github.com/mantra-chain/claimdrop-core/bigmath"

// Coin pairs a denom with an amount, the wire shape spec.md §3 uses
// for total_reward and claimed.
type Coin struct {
	Denom  string
	Amount bigmath.Amount
}

// SlotKind distinguishes the two closed Slot variants (spec.md §3).
// Kept as a closed enum rather than an interface/trait hierarchy per
// spec.md §9: "prefer this over an open trait hierarchy — the
// schedule evaluator must be able to exhaustively pattern-match."
type SlotKind int

const (
	// SlotLumpSum vests its entire share atomically at StartTime.
	SlotLumpSum SlotKind = iota
	// SlotLinearVesting vests continuously between StartTime and
	// EndTime, with an optional cliff.
	SlotLinearVesting
)

func (k SlotKind) String() string {
	switch k {
	case SlotLumpSum:
		return "lump_sum"
	case SlotLinearVesting:
		return "linear_vesting"
	default:
		return "unknown"
	}
}

// Slot is one element of a campaign's composite distribution
// schedule. EndTime and CliffDuration are only meaningful when
// Kind == SlotLinearVesting; CliffDuration is nil when no cliff was
// configured (distinct from an explicit zero-length cliff).
type Slot struct {
	Kind          SlotKind
	Percentage    bigmath.Decimal
	StartTime     uint64
	EndTime       uint64 // LinearVesting only
	CliffDuration *uint64
}

// AllocationInput is one entry of an add_allocations batch. Kept as an
// ordered slice element rather than folded into a map keyed by
// address: a map cannot represent a repeated address, and
// original_source/src/commands.rs's add_allocations (line ~427-468)
// rejects an in-batch repeat the same way it rejects one against
// already-stored state, so the handler needs to be able to observe
// the repeat in the first place (spec.md §4.5 "reject duplicates").
type AllocationInput struct {
	Address string
	Amount  bigmath.Amount
}

// CampaignParams is the validated input to CreateCampaign (spec.md
// §3/§4.1).
type CampaignParams struct {
	Name         string
	Description  string
	Kind         string
	TotalReward  Coin
	Distribution []Slot
	StartTime    uint64
	EndTime      uint64
}

// Campaign is the singleton persisted campaign value object.
type Campaign struct {
	Name         string
	Description  string
	Kind         string
	TotalReward  Coin
	Claimed      Coin
	Distribution []Slot
	StartTime    uint64
	EndTime      uint64
	// Closed is the wall-clock close timestamp; nil while the
	// campaign is open (spec.md §3: "optional wall-clock timestamp of
	// termination").
	Closed *uint64
}

// IsClosed reports whether the campaign has been terminated.
func (c *Campaign) IsClosed() bool { return c.Closed != nil }

// HasStarted reports whether t has reached the campaign's start, per
// the implicit Configured -> Started transition of spec.md §4.6.
func (c *Campaign) HasStarted(t uint64) bool { return t >= c.StartTime }

// SlotClaim is the per-slot amount already transferred and the
// timestamp of the call that produced it (spec.md §3 "Claim record").
type SlotClaim struct {
	Amount        bigmath.Amount
	LastTimestamp uint64
}

// ClaimRecord is one address's claim history across all slots, keyed
// by slot index. A nil/empty ClaimRecord means the address has never
// claimed (spec.md §3: "Created lazily on first claim").
type ClaimRecord map[int]SlotClaim

// TotalClaimed sums the amounts across every slot in the record.
func (r ClaimRecord) TotalClaimed() bigmath.Amount {
	total := bigmath.Zero()
	for _, c := range r {
		total = total.Add(c.Amount)
	}
	return total
}
