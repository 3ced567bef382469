// Package host declares the abstractions the claimdrop core depends
// on and nothing else (spec.md §6): a typed key-value Store, a Bank
// balance/transfer collaborator, a request-scoped Clock, an
// AddressValidator, and the Ownership protocol. The core package
// (claimdrop) never imports a concrete store or transport; it only
// ever sees these interfaces, mirroring the teacher's vmr.Runtime
// abstraction that actors/builtin/miner codes against.
package host

import "github.com/mantra-chain/claimdrop-core/bigmath"

// Store is a typed, prefix-scoped key-value adapter. Two
// implementations exist in the store package: an in-memory map (used
// by every claimdrop test) and a bbolt-backed adapter for the demo
// host (cmd/claimdropd).
type Store interface {
	// Get loads the raw bytes at (prefix, key). ok is false if absent.
	Get(prefix, key string) (value []byte, ok bool, err error)
	// Put writes (prefix, key) -> value, overwriting any prior value.
	Put(prefix, key string, value []byte) error
	// Delete removes (prefix, key); a no-op if absent.
	Delete(prefix, key string) error
	// Iterate walks keys within prefix in lexical order starting
	// strictly after afterKey (empty string to start from the
	// beginning), calling fn for each (key, value) pair until fn
	// returns false or limit entries have been visited. It returns the
	// last key visited, for use as the next call's afterKey (the
	// spec's §6 "pagination" contract).
	Iterate(prefix, afterKey string, limit int, fn func(key string, value []byte) bool) (lastKey string, err error)
}

// TransferInstruction is a single outbound send the core queues but
// never executes itself (spec.md §5: "the outbound transfer is queued
// but not executed by the core").
type TransferInstruction struct {
	To     string
	Denom  string
	Amount bigmath.Amount
}

// Bank is the external bank-module collaborator (spec.md §6).
type Bank interface {
	// BalanceOf returns the contract's own balance of denom.
	BalanceOf(denom string) (bigmath.Amount, error)
}

// Clock supplies the single wall-clock reading used for an entire
// request (spec.md §5: "all evaluations use the same timestamp within
// a single request").
type Clock interface {
	Now() uint64
}

// AddressValidator canonicalizes an untrusted address string,
// matching spec.md §6's "fails with InvalidInput on malformed input."
type AddressValidator interface {
	Canonicalize(raw string) (string, error)
}

// Ownership is the host-mediated owner-transfer protocol (spec.md §6).
// The claimdrop core only ever reads Current(); propose/accept are
// gated and executed entirely by the host, outside this module's
// scope (spec.md §1 Non-goals: "no on-chain governance").
type Ownership interface {
	Current() string
}
