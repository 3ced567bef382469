package claimdrop

import "github.com/mantra-chain/claimdrop-core/bigmath"

// SlotFinished reports done_k(t) of spec.md §4.4 Step 2: true iff the
// slot has finished vesting at t (LumpSum with t >= start; linear
// vesting with t >= end).
func SlotFinished(s Slot, t uint64) bool {
	switch s.Kind {
	case SlotLumpSum:
		return t >= s.StartTime
	case SlotLinearVesting:
		return t >= s.EndTime
	default:
		return false
	}
}

// VestedAmount returns the per-slot maximum cumulative vested amount
// for allocation A at time t (spec.md §4.2):
//
//	vested_k(A, t) = floor(A * percentage_k * f_k(t))
//
// computed as a single staged MulDiv over (A, numerator, denominator)
// so the fraction is never rounded on its own before being applied to
// A, per spec.md §4.2's "applied to the allocation amount (not to the
// fraction) to avoid precision loss."
func VestedAmount(s Slot, allocation bigmath.Amount, t uint64) (bigmath.Amount, error) {
	pctNum, pctDen := s.Percentage.Fraction()

	switch s.Kind {
	case SlotLumpSum:
		if t < s.StartTime {
			return bigmath.Zero(), nil
		}
		return allocation.MulDiv(pctNum, pctDen)

	case SlotLinearVesting:
		cliffEnd := s.StartTime
		if s.CliffDuration != nil {
			cliffEnd = s.StartTime + *s.CliffDuration
		}
		if t < cliffEnd {
			return bigmath.Zero(), nil
		}
		if t >= s.EndTime {
			return allocation.MulDiv(pctNum, pctDen)
		}

		// f(t) = (t - start) / (end - start); combine with percentage
		// into one numerator/denominator pair before the single
		// staged MulDiv against the allocation: vested = floor(A *
		// (percentage_num * elapsed) / (percentage_den * duration)).
		elapsed := bigmath.NewAmount(int64(t - s.StartTime))
		duration := bigmath.NewAmount(int64(s.EndTime - s.StartTime))

		num, err := pctNum.MulDiv(elapsed, bigmath.NewAmount(1))
		if err != nil {
			return bigmath.Amount{}, err
		}
		// num currently equals pctNum*elapsed (MulDiv with den=1 is an
		// exact multiply); den is pctDen*duration.
		den, err := pctDen.MulDiv(duration, bigmath.NewAmount(1))
		if err != nil {
			return bigmath.Amount{}, err
		}
		return allocation.MulDiv(num, den)

	default:
		return bigmath.Amount{}, ErrInvalidCampaignParam("distribution_type", "unknown slot kind")
	}
}

// SlotTarget returns floor(A * percentage_k), the per-slot finished
// target used by the rounding-compensation rule (spec.md §4.4 Step
// 2).
func SlotTarget(s Slot, allocation bigmath.Amount) (bigmath.Amount, error) {
	return s.Percentage.MulAmount(allocation)
}
