package services

import (
	"fmt"
	"math"
)

const (
	SplitEqual      = "equal"
	SplitCustom     = "custom"
	SplitPercentage = "percentage"
)

// SplitShare is one participant's portion of an expense.
type SplitShare struct {
	UserID     uint
	Amount     float64
	Percentage float64
}

// ComputeSplits divides an expense total across participants.
//   - equal: cent-exact division, remainder cents distributed to the first
//     participants so the shares always sum to the total.
//   - custom: caller supplies per-participant amounts; they must sum to the
//     total within a cent.
//   - percentage: caller supplies per-participant percentages summing to 100;
//     amounts are derived, with the rounding drift folded into the last share.
func ComputeSplits(total float64, splitType string, memberIDs []uint, custom map[uint]float64) ([]SplitShare, error) {
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("at least one participant is required")
	}
	if total <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	switch splitType {
	case SplitEqual, "":
		return equalSplits(total, memberIDs), nil
	case SplitCustom:
		return customSplits(total, memberIDs, custom)
	case SplitPercentage:
		return percentageSplits(total, memberIDs, custom)
	default:
		return nil, fmt.Errorf("unknown split type %q", splitType)
	}
}

func equalSplits(total float64, memberIDs []uint) []SplitShare {
	n := int64(len(memberIDs))
	totalCents := int64(math.Round(total * 100))
	base := totalCents / n
	remainder := totalCents % n

	pct := 100.0 / float64(n)
	shares := make([]SplitShare, 0, n)
	for i, id := range memberIDs {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		shares = append(shares, SplitShare{
			UserID:     id,
			Amount:     float64(cents) / 100,
			Percentage: pct,
		})
	}
	return shares
}

func customSplits(total float64, memberIDs []uint, amounts map[uint]float64) ([]SplitShare, error) {
	var sum float64
	shares := make([]SplitShare, 0, len(memberIDs))
	for _, id := range memberIDs {
		amount, ok := amounts[id]
		if !ok {
			return nil, fmt.Errorf("missing split amount for participant %d", id)
		}
		if amount < 0 {
			return nil, fmt.Errorf("split amount for participant %d is negative", id)
		}
		sum += amount
		shares = append(shares, SplitShare{
			UserID:     id,
			Amount:     math.Round(amount*100) / 100,
			Percentage: math.Round(amount/total*10000) / 100,
		})
	}
	if math.Abs(sum-total) > 0.01 {
		return nil, fmt.Errorf("split amounts sum to %.2f, expected %.2f", sum, total)
	}
	return shares, nil
}

func percentageSplits(total float64, memberIDs []uint, percentages map[uint]float64) ([]SplitShare, error) {
	var pctSum float64
	for _, id := range memberIDs {
		pct, ok := percentages[id]
		if !ok {
			return nil, fmt.Errorf("missing split percentage for participant %d", id)
		}
		if pct < 0 {
			return nil, fmt.Errorf("split percentage for participant %d is negative", id)
		}
		pctSum += pct
	}
	if math.Abs(pctSum-100) > 0.01 {
		return nil, fmt.Errorf("split percentages sum to %.2f, expected 100", pctSum)
	}

	totalCents := int64(math.Round(total * 100))
	var assigned int64
	shares := make([]SplitShare, 0, len(memberIDs))
	for i, id := range memberIDs {
		pct := percentages[id]
		cents := int64(math.Round(float64(totalCents) * pct / 100))
		if i == len(memberIDs)-1 {
			cents = totalCents - assigned
		}
		assigned += cents
		shares = append(shares, SplitShare{
			UserID:     id,
			Amount:     float64(cents) / 100,
			Percentage: pct,
		})
	}
	return shares, nil
}
