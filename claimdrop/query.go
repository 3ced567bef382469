package claimdrop

import (
	"encoding/base64"
	"encoding/json"

	"github.com/mantra-chain/claimdrop-core/bigmath"
)

// Page is a generic paginated result, the Go realization of spec.md
// §6's "allocations (paginated), claims (paginated)... " request
// surface. NextCursor encodes the last key visited; it is empty only
// when no entry was visited, and a cursor past the last entry yields
// an empty page whose cursor equals the one passed in.
type Page struct {
	NextCursor string
}

func encodeCursor(key string) string {
	if key == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(key))
}

func decodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", ErrInvalidInput("invalid pagination cursor")
	}
	return string(raw), nil
}

// GetCampaign returns the singleton campaign, or (nil, nil) if none
// has been created yet.
func (k *Keeper) GetCampaign() (*Campaign, error) {
	return k.loadCampaign()
}

// AllocationEntry is one row of a paginated allocations listing.
type AllocationEntry struct {
	Address string
	Amount  bigmath.Amount
}

// ListAllocations paginates the allocations map in canonical-address
// order, starting strictly after cursor (empty to start from the
// beginning).
func (k *Keeper) ListAllocations(cursor string, limit int) ([]AllocationEntry, string, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	var entries []AllocationEntry
	var decodeErr error
	lastKey, err := k.Store.Iterate(prefixAllocation, after, limit, func(key string, value []byte) bool {
		var amt bigmath.Amount
		if jsonErr := json.Unmarshal(value, &amt); jsonErr != nil {
			decodeErr = jsonErr
			return false
		}
		entries = append(entries, AllocationEntry{Address: key, Amount: amt})
		return true
	})
	if err != nil {
		return nil, "", WrapStoreError(err, "iterate allocations")
	}
	if decodeErr != nil {
		return nil, "", WrapStoreError(decodeErr, "decode allocation entry")
	}
	return entries, encodeCursor(lastKey), nil
}

// ClaimEntry is one row of a paginated claims listing.
type ClaimEntry struct {
	Address string
	Claims  ClaimRecord
}

// ListClaims paginates the claim records in canonical-address order.
func (k *Keeper) ListClaims(cursor string, limit int) ([]ClaimEntry, string, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	var entries []ClaimEntry
	var decodeErr error
	lastKey, err := k.Store.Iterate(prefixClaims, after, limit, func(key string, value []byte) bool {
		var r ClaimRecord
		if jsonErr := json.Unmarshal(value, &r); jsonErr != nil {
			decodeErr = jsonErr
			return false
		}
		entries = append(entries, ClaimEntry{Address: key, Claims: r})
		return true
	})
	if err != nil {
		return nil, "", WrapStoreError(err, "iterate claims")
	}
	if decodeErr != nil {
		return nil, "", WrapStoreError(decodeErr, "decode claim entry")
	}
	return entries, encodeCursor(lastKey), nil
}

// ClaimedTotal returns the campaign's running claimed total.
func (k *Keeper) ClaimedTotal() (Coin, error) {
	campaign, err := k.loadCampaign()
	if err != nil {
		return Coin{}, err
	}
	if campaign == nil {
		return Coin{}, ErrCampaign("no campaign exists")
	}
	return campaign.Claimed, nil
}

// IsBlacklisted is the public query-surface form of the access
// lattice's blacklist predicate.
func (k *Keeper) IsBlacklisted(rawAddress string) (bool, error) {
	address, err := k.canonicalize(rawAddress)
	if err != nil {
		return false, err
	}
	return k.isBlacklisted(address)
}

// ListAuthorizedWallets paginates the authorized-operator set.
func (k *Keeper) ListAuthorizedWallets(cursor string, limit int) ([]string, string, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	var addresses []string
	lastKey, err := k.Store.Iterate(prefixAuthorized, after, limit, func(key string, value []byte) bool {
		addresses = append(addresses, key)
		return true
	})
	if err != nil {
		return nil, "", WrapStoreError(err, "iterate authorized wallets")
	}
	return addresses, encodeCursor(lastKey), nil
}

// Ownership returns the current owner address.
func (k *Keeper) Ownership() string {
	return k.Owner.Current()
}
