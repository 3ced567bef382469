package claimdrop

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind is a closed, pattern-matchable error taxonomy, the Go
// realization of the teacher's exitcode.ExitCode closed enum
// (actors/runtime/exitcode), adapted from "abort code" to "returned
// error value" because this spec's handlers return Result, not abort
// (spec.md §5, §7).
type Kind int

const (
	KindUnauthorized Kind = iota
	KindAddressBlacklisted
	KindCampaignError
	KindInvalidDistributionTimes
	KindInvalidCampaignParam
	KindInvalidInput
	KindNoAllocationFound
	KindAllocationAlreadyExists
	KindInvalidClaimAmount
	KindNothingToClaim
	KindExceededMaxClaimAmount
	KindBatchSizeLimitExceeded
)

// Error is the single error type every claimdrop operation returns,
// carrying a Kind so callers can branch with errors.Is/As the way
// spec.md §7 requires ("distinct, pattern-matchable kinds").
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for xerrors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a *Error with the same Kind, letting
// callers write `errors.Is(err, claimdrop.ErrNothingToClaim)`-style
// sentinel checks against the Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// Sentinel instances for errors.Is comparisons where no extra context
// is needed.
var (
	ErrUnauthorized         = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrAddressBlacklisted   = &Error{Kind: KindAddressBlacklisted, Message: "address is blacklisted"}
	ErrNoAllocationFound    = &Error{Kind: KindNoAllocationFound, Message: "no allocation found"}
	ErrNothingToClaim       = &Error{Kind: KindNothingToClaim, Message: "nothing to claim"}
	ErrExceededMaxClaim     = &Error{Kind: KindExceededMaxClaimAmount, Message: "exceeded max claim amount"}
	ErrAllocationExists     = &Error{Kind: KindAllocationAlreadyExists, Message: "allocation already exists"}
	ErrDistributionNotDrain = &Error{Kind: KindCampaignError, Message: "distribution error: remaining amount was not fully partitioned across slots"}
)

// ErrCampaign reports a campaign lifecycle/state violation (no
// campaign; already closed; already exists; reward denom not
// sweepable; insolvency).
func ErrCampaign(reason string, args ...interface{}) *Error {
	return newErr(KindCampaignError, "campaign error: %s", fmt.Sprintf(reason, args...))
}

// ErrInvalidDistributionTimes reports a slot time inconsistency
// (spec.md §4.1: "LinearVesting with end_time <= start_time").
func ErrInvalidDistributionTimes(start, end uint64) *Error {
	return newErr(KindInvalidDistributionTimes, "invalid distribution times: start=%d end=%d", start, end)
}

// ErrInvalidCampaignParam reports a CampaignParams validation
// failure for a specific field.
func ErrInvalidCampaignParam(param, reason string) *Error {
	return newErr(KindInvalidCampaignParam, "invalid campaign param %q: %s", param, reason)
}

// ErrInvalidInput reports a generic validation failure not tied to a
// campaign param (e.g. a malformed address).
func ErrInvalidInput(reason string, args ...interface{}) *Error {
	return newErr(KindInvalidInput, "invalid input: %s", fmt.Sprintf(reason, args...))
}

// ErrNoAllocation reports that address has no allocation.
func ErrNoAllocation(address string) *Error {
	return newErr(KindNoAllocationFound, "no allocation found for %s", address)
}

// ErrAllocationAlreadyExists reports that address already has an
// allocation.
func ErrAllocationAlreadyExists(address string) *Error {
	return newErr(KindAllocationAlreadyExists, "allocation already exists for %s", address)
}

// ErrInvalidClaimAmount reports that an explicitly requested claim
// amount is zero or exceeds the maximum claimable.
func ErrInvalidClaimAmount(reason string) *Error {
	return newErr(KindInvalidClaimAmount, "invalid claim amount: %s", reason)
}

// ErrBatchSizeLimitExceeded reports a batch mutation exceeding its
// bound (spec.md §9 "Batch bounds").
func ErrBatchSizeLimitExceeded(actual, max int) *Error {
	return newErr(KindBatchSizeLimitExceeded, "batch size %d exceeds limit %d", actual, max)
}

// WrapStoreError wraps a host.Store failure as a campaign-class error
// without ever swallowing the underlying cause, matching spec.md §7:
// "all errors bubble to the request boundary."
func WrapStoreError(cause error, context string) *Error {
	return wrapErr(KindCampaignError, xerrors.Errorf("%s: %w", context, cause), "persistence failure")
}
