package host

import (
	"fmt"

	addr "github.com/filecoin-project/go-address"
)

// FilecoinAddressValidator canonicalizes addresses through
// go-address, the same canonicalization library the teacher module
// uses on every incoming message (miner_actor.go's
// resolveControlAddress/resolveWorkerAddress rely on addr.Address
// equally). The claimdrop spec is chain-agnostic about address
// encoding, so reusing the teacher's own address library is a literal
// carry-over of "AddressValidator... delegated to the host"
// (spec.md §1).
type FilecoinAddressValidator struct{}

var _ AddressValidator = FilecoinAddressValidator{}

// Canonicalize parses raw as a go-address and returns its canonical
// string form, failing the same way spec.md §6 requires:
// "fails with InvalidInput on malformed input."
func (FilecoinAddressValidator) Canonicalize(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("host: empty address")
	}
	a, err := addr.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("host: invalid address %q: %w", raw, err)
	}
	if a == addr.Undef {
		return "", fmt.Errorf("host: undefined address %q", raw)
	}
	return a.String(), nil
}
