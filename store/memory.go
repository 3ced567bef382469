// Package store provides concrete host.Store / host.Bank
// implementations: an in-memory map used throughout the claimdrop test
// suite, and a bbolt-backed adapter for the demo host in
// cmd/claimdropd.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mantra-chain/claimdrop-core/bigmath"
	"github.com/mantra-chain/claimdrop-core/host"
)

// Memory is an in-memory host.Store, used by every claimdrop unit
// test in place of a real chain's key-value store. Each Get, Put and
// Delete holds an internal mutex; Iterate copies the key list under the
// mutex and then reads each value separately, so it does not present a
// consistent snapshot if another goroutine writes during the walk.
type Memory struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

var _ host.Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string][]byte)}
}

func (m *Memory) bucket(prefix string) map[string][]byte {
	b, ok := m.data[prefix]
	if !ok {
		b = make(map[string][]byte)
		m.data[prefix] = b
	}
	return b
}

// Get implements host.Store.
func (m *Memory) Get(prefix, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[prefix]
	if !ok {
		return nil, false, nil
	}
	v, ok := b[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put implements host.Store.
func (m *Memory) Put(prefix, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.bucket(prefix)[key] = cp
	return nil
}

// Delete implements host.Store.
func (m *Memory) Delete(prefix, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.data[prefix]; ok {
		delete(b, key)
	}
	return nil
}

// Iterate implements host.Store.
func (m *Memory) Iterate(prefix, afterKey string, limit int, fn func(key string, value []byte) bool) (string, error) {
	m.mu.Lock()
	b := m.data[prefix]
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	m.mu.Unlock()

	sort.Strings(keys)
	lastKey := afterKey
	visited := 0
	for _, k := range keys {
		if k <= afterKey {
			continue
		}
		if limit > 0 && visited >= limit {
			break
		}
		v, ok, err := m.Get(prefix, k)
		if err != nil {
			return lastKey, err
		}
		if !ok {
			continue
		}
		visited++
		lastKey = k
		if !fn(k, v) {
			break
		}
	}
	return lastKey, nil
}

// FakeBank is a host.Bank backed by an in-memory balance table, used
// by claimdrop tests to exercise the solvency check (spec.md §4.4
// Step 5) deterministically.
type FakeBank struct {
	mu       sync.Mutex
	balances map[string]bigmath.Amount
}

var _ host.Bank = (*FakeBank)(nil)

// NewFakeBank returns a bank with the given starting balances.
func NewFakeBank(balances map[string]bigmath.Amount) *FakeBank {
	b := &FakeBank{balances: make(map[string]bigmath.Amount)}
	for denom, amt := range balances {
		b.balances[denom] = amt
	}
	return b
}

// BalanceOf implements host.Bank.
func (b *FakeBank) BalanceOf(denom string) (bigmath.Amount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.balances[denom]; ok {
		return v, nil
	}
	return bigmath.Zero(), nil
}

// Credit adds amt to denom's balance, simulating a top-up.
func (b *FakeBank) Credit(denom string, amt bigmath.Amount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[denom] = b.balances[denom].Add(amt)
}

// Debit subtracts amt from denom's balance, simulating an executed
// outbound transfer instruction.
func (b *FakeBank) Debit(denom string, amt bigmath.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur := b.balances[denom]
	next, err := cur.Sub(amt)
	if err != nil {
		return fmt.Errorf("store: insufficient %s balance: %w", denom, err)
	}
	b.balances[denom] = next
	return nil
}

// FakeClock is a host.Clock whose reading is set explicitly by tests,
// matching spec.md §5's "wall-clock time is a request-level input."
type FakeClock struct {
	now uint64
}

var _ host.Clock = (*FakeClock)(nil)

// NewFakeClock returns a clock reading now.
func NewFakeClock(now uint64) *FakeClock { return &FakeClock{now: now} }

// Now implements host.Clock.
func (c *FakeClock) Now() uint64 { return c.now }

// Set advances (or rewinds) the clock to now.
func (c *FakeClock) Set(now uint64) { c.now = now }

// FakeOwnership is a host.Ownership fixed at construction.
type FakeOwnership struct{ owner string }

var _ host.Ownership = FakeOwnership{}

// NewFakeOwnership returns an Ownership whose current owner is fixed.
func NewFakeOwnership(owner string) FakeOwnership { return FakeOwnership{owner: owner} }

// Current implements host.Ownership.
func (o FakeOwnership) Current() string { return o.owner }
