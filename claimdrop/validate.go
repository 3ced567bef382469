package claimdrop

import "github.com/mantra-chain/claimdrop-core/bigmath"

const (
	maxNameLength        = 140
	maxDescriptionLength = 2000
	maxKindLength        = 64

	// MaxAllocationBatch bounds add_allocations (spec.md §4.5, §9).
	MaxAllocationBatch = 3000
	// MaxAuthorizedBatch bounds manage_authorized (spec.md §4.5, §9).
	MaxAuthorizedBatch = 1000
)

// ValidateParams validates a CampaignParams the way spec.md §4.1
// requires, rejecting the first failure found with a structured
// error. now is the request-scoped clock reading used to check
// "start_time > now."
func ValidateParams(p CampaignParams, now uint64) error {
	if p.Name == "" || len(p.Name) > maxNameLength {
		return ErrInvalidCampaignParam("name", "must be non-empty and length-bounded")
	}
	if len(p.Description) > maxDescriptionLength {
		return ErrInvalidCampaignParam("description", "length-bounded")
	}
	if p.Kind == "" || len(p.Kind) > maxKindLength {
		return ErrInvalidCampaignParam("kind", "must be non-empty and length-bounded")
	}
	if p.TotalReward.Denom == "" {
		return ErrInvalidCampaignParam("total_reward.denom", "must be non-empty")
	}
	if !p.TotalReward.Amount.GreaterThan(bigmath.Zero()) {
		return ErrInvalidCampaignParam("total_reward.amount", "must be > 0")
	}
	if p.StartTime <= now {
		return ErrInvalidCampaignParam("start_time", "must be in the future")
	}
	if p.EndTime <= p.StartTime {
		return ErrInvalidCampaignParam("end_time", "must be after start_time")
	}
	if len(p.Distribution) == 0 {
		return ErrInvalidCampaignParam("distribution_type", "must be non-empty")
	}

	sum := bigmath.DecimalZero()
	for i, slot := range p.Distribution {
		if err := validateSlot(slot, p.StartTime, p.EndTime, i); err != nil {
			return err
		}
		sum = sum.Add(slot.Percentage)
	}
	if !sum.Equal(bigmath.DecimalOne()) {
		return ErrInvalidCampaignParam("distribution_type", "slot percentages must sum to exactly one")
	}
	return nil
}

func validateSlot(s Slot, campaignStart, campaignEnd uint64, index int) error {
	if !s.Percentage.IsPositive() || s.Percentage.GreaterThanOne() {
		return ErrInvalidCampaignParam(slotField(index, "percentage"), "must be in (0, 1]")
	}
	if s.StartTime < campaignStart {
		return ErrInvalidCampaignParam(slotField(index, "start_time"), "must be >= campaign start_time")
	}

	switch s.Kind {
	case SlotLumpSum:
		if s.StartTime > campaignEnd {
			return ErrInvalidCampaignParam(slotField(index, "start_time"), "must be <= campaign end_time")
		}
	case SlotLinearVesting:
		if s.EndTime > campaignEnd {
			return ErrInvalidCampaignParam(slotField(index, "end_time"), "must be <= campaign end_time")
		}
		if s.EndTime <= s.StartTime {
			return ErrInvalidDistributionTimes(s.StartTime, s.EndTime)
		}
		if s.CliffDuration != nil {
			duration := s.EndTime - s.StartTime
			if *s.CliffDuration >= duration {
				return ErrInvalidCampaignParam(slotField(index, "cliff_duration"), "must be less than end_time - start_time")
			}
		}
	default:
		return ErrInvalidCampaignParam(slotField(index, "kind"), "unknown slot kind")
	}
	return nil
}

func slotField(index int, field string) string {
	return "distribution_type[" + itoa(index) + "]." + field
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
