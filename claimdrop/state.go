package claimdrop

import (
	"encoding/json"

	"github.com/mantra-chain/claimdrop-core/bigmath"
	"github.com/mantra-chain/claimdrop-core/host"
)

// Persisted layout prefixes, matching spec.md §6 exactly.
const (
	prefixCampaign   = "CAMPAIGN"
	prefixAllocation = "ALLOCATIONS"
	prefixClaims     = "CLAIMS"
	prefixBlacklist  = "BLACKLIST"
	prefixAuthorized = "AUTHORIZED_WALLETS"

	campaignSingletonKey = "campaign"
)

// Keeper mediates every read and write against the host's Store,
// Bank, Clock and AddressValidator collaborators (spec.md §6). A
// single Keeper value is not safe for concurrent use — spec.md §5
// assumes one request at a time, sequenced by the host, so the Keeper
// takes no internal lock.
type Keeper struct {
	Store     host.Store
	Bank      host.Bank
	Clock     host.Clock
	Addresses host.AddressValidator
	Owner     host.Ownership
}

// NewKeeper wires the five host collaborators into a Keeper.
func NewKeeper(store host.Store, bank host.Bank, clock host.Clock, addresses host.AddressValidator, owner host.Ownership) *Keeper {
	return &Keeper{Store: store, Bank: bank, Clock: clock, Addresses: addresses, Owner: owner}
}

// batch accumulates writes gathered while a handler runs and applies
// them only once the handler has fully succeeded — the Go realization
// of spec.md §5's "either all persistent writes commit, or none do."
// Reads always go straight to the Store (never to the batch), mirroring
// spec.md §5's "within a claim, reads precede writes."
type batch struct {
	k       *Keeper
	writes  []pendingWrite
	deletes []pendingWrite
}

type pendingWrite struct {
	prefix, key string
	value       []byte
}

func (k *Keeper) newBatch() *batch { return &batch{k: k} }

func (b *batch) put(prefix, key string, value []byte) {
	b.writes = append(b.writes, pendingWrite{prefix, key, value})
}

func (b *batch) del(prefix, key string) {
	b.deletes = append(b.deletes, pendingWrite{prefix: prefix, key: key})
}

// commit applies every staged write and delete. Called only after a
// handler's entire body has succeeded; any error returned earlier by
// the handler must discard the batch instead of calling commit.
func (b *batch) commit() error {
	for _, w := range b.writes {
		if err := b.k.Store.Put(w.prefix, w.key, w.value); err != nil {
			return WrapStoreError(err, "commit write")
		}
	}
	for _, d := range b.deletes {
		if err := b.k.Store.Delete(d.prefix, d.key); err != nil {
			return WrapStoreError(err, "commit delete")
		}
	}
	return nil
}

func (k *Keeper) loadCampaign() (*Campaign, error) {
	raw, ok, err := k.Store.Get(prefixCampaign, campaignSingletonKey)
	if err != nil {
		return nil, WrapStoreError(err, "load campaign")
	}
	if !ok {
		return nil, nil
	}
	var c Campaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, WrapStoreError(err, "decode campaign")
	}
	return &c, nil
}

func (b *batch) saveCampaign(c *Campaign) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return WrapStoreError(err, "encode campaign")
	}
	b.put(prefixCampaign, campaignSingletonKey, raw)
	return nil
}

func (k *Keeper) loadAllocation(address string) (bigmath.Amount, bool, error) {
	raw, ok, err := k.Store.Get(prefixAllocation, address)
	if err != nil {
		return bigmath.Amount{}, false, WrapStoreError(err, "load allocation")
	}
	if !ok {
		return bigmath.Amount{}, false, nil
	}
	var a bigmath.Amount
	if err := json.Unmarshal(raw, &a); err != nil {
		return bigmath.Amount{}, false, WrapStoreError(err, "decode allocation")
	}
	return a, true, nil
}

func (b *batch) saveAllocation(address string, amount bigmath.Amount) error {
	raw, err := json.Marshal(amount)
	if err != nil {
		return WrapStoreError(err, "encode allocation")
	}
	b.put(prefixAllocation, address, raw)
	return nil
}

func (b *batch) deleteAllocation(address string) {
	b.del(prefixAllocation, address)
}

func (k *Keeper) loadClaims(address string) (ClaimRecord, error) {
	raw, ok, err := k.Store.Get(prefixClaims, address)
	if err != nil {
		return nil, WrapStoreError(err, "load claims")
	}
	if !ok {
		return ClaimRecord{}, nil
	}
	var r ClaimRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, WrapStoreError(err, "decode claims")
	}
	return r, nil
}

func (b *batch) saveClaims(address string, r ClaimRecord) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return WrapStoreError(err, "encode claims")
	}
	b.put(prefixClaims, address, raw)
	return nil
}

func (k *Keeper) isBlacklisted(address string) (bool, error) {
	_, ok, err := k.Store.Get(prefixBlacklist, address)
	if err != nil {
		return false, WrapStoreError(err, "load blacklist entry")
	}
	return ok, nil
}

func (b *batch) setBlacklisted(address string, blacklisted bool) {
	if blacklisted {
		b.put(prefixBlacklist, address, []byte{1})
	} else {
		b.del(prefixBlacklist, address)
	}
}

func (k *Keeper) isAuthorizedOperator(address string) (bool, error) {
	_, ok, err := k.Store.Get(prefixAuthorized, address)
	if err != nil {
		return false, WrapStoreError(err, "load authorized entry")
	}
	return ok, nil
}

func (b *batch) setAuthorizedOperator(address string, authorized bool) {
	if authorized {
		b.put(prefixAuthorized, address, []byte{1})
	} else {
		b.del(prefixAuthorized, address)
	}
}

// accessLattice builds an AccessLattice for the current request,
// wiring its point lookups straight to the Store-backed
// primitives above. Every gated handler in actor.go goes through this
// instead of re-deriving owner/authorized/blacklist checks itself.
func (k *Keeper) accessLattice() AccessLattice {
	return NewAccessLattice(k.Owner.Current(), k.isAuthorizedOperator, k.isBlacklisted)
}

func (k *Keeper) canonicalize(raw string) (string, error) {
	addr, err := k.Addresses.Canonicalize(raw)
	if err != nil {
		return "", ErrInvalidInput("%v", err)
	}
	return addr, nil
}
