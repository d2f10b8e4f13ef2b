package services

import (
	"math"
	"testing"
)

func sumShares(shares []SplitShare) float64 {
	var sum float64
	for _, s := range shares {
		sum += s.Amount
	}
	return math.Round(sum*100) / 100
}

func TestComputeSplitsEqual(t *testing.T) {
	shares, err := ComputeSplits(300, SplitEqual, []uint{1, 2, 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range shares {
		if s.Amount != 100 {
			t.Fatalf("expected 100 per share, got %.2f for user %d", s.Amount, s.UserID)
		}
		if math.Abs(s.Percentage-100.0/3) > 0.01 {
			t.Fatalf("expected ~33.33%%, got %.2f", s.Percentage)
		}
	}
}

func TestComputeSplitsEqualRemainder(t *testing.T) {
	// 100 / 3 leaves one cent; the first participant absorbs it.
	shares, err := ComputeSplits(100, SplitEqual, []uint{1, 2, 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares[0].Amount != 33.34 {
		t.Fatalf("expected first share 33.34, got %.2f", shares[0].Amount)
	}
	if shares[1].Amount != 33.33 || shares[2].Amount != 33.33 {
		t.Fatalf("expected remaining shares 33.33, got %.2f and %.2f", shares[1].Amount, shares[2].Amount)
	}
	if got := sumShares(shares); got != 100 {
		t.Fatalf("shares sum to %.2f, expected 100", got)
	}
}

func TestComputeSplitsDefaultsToEqual(t *testing.T) {
	shares, err := ComputeSplits(50, "", []uint{1, 2}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares[0].Amount != 25 || shares[1].Amount != 25 {
		t.Fatalf("expected 25/25, got %.2f/%.2f", shares[0].Amount, shares[1].Amount)
	}
}

func TestComputeSplitsCustom(t *testing.T) {
	shares, err := ComputeSplits(120, SplitCustom, []uint{1, 2}, map[uint]float64{1: 80, 2: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares[0].Amount != 80 || shares[1].Amount != 40 {
		t.Fatalf("expected 80/40, got %.2f/%.2f", shares[0].Amount, shares[1].Amount)
	}
}

func TestComputeSplitsCustomSumMismatch(t *testing.T) {
	_, err := ComputeSplits(120, SplitCustom, []uint{1, 2}, map[uint]float64{1: 80, 2: 80})
	if err == nil {
		t.Fatal("expected error for mismatched custom sum")
	}
}

func TestComputeSplitsCustomMissingParticipant(t *testing.T) {
	_, err := ComputeSplits(120, SplitCustom, []uint{1, 2}, map[uint]float64{1: 120})
	if err == nil {
		t.Fatal("expected error for missing participant amount")
	}
}

func TestComputeSplitsPercentage(t *testing.T) {
	shares, err := ComputeSplits(200, SplitPercentage, []uint{1, 2, 3}, map[uint]float64{1: 50, 2: 30, 3: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares[0].Amount != 100 || shares[1].Amount != 60 || shares[2].Amount != 40 {
		t.Fatalf("unexpected amounts %.2f/%.2f/%.2f", shares[0].Amount, shares[1].Amount, shares[2].Amount)
	}
	if got := sumShares(shares); got != 200 {
		t.Fatalf("shares sum to %.2f, expected 200", got)
	}
}

func TestComputeSplitsPercentageRoundingDrift(t *testing.T) {
	// 3 x 33.33 + 0.01 tolerance; the last share absorbs the drift so the
	// total is exact.
	shares, err := ComputeSplits(100, SplitPercentage, []uint{1, 2, 3}, map[uint]float64{1: 33.33, 2: 33.33, 3: 33.34})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sumShares(shares); got != 100 {
		t.Fatalf("shares sum to %.2f, expected 100", got)
	}
}

func TestComputeSplitsPercentageSumMismatch(t *testing.T) {
	_, err := ComputeSplits(100, SplitPercentage, []uint{1, 2}, map[uint]float64{1: 60, 2: 60})
	if err == nil {
		t.Fatal("expected error for percentages not summing to 100")
	}
}

func TestComputeSplitsRejectsBadInput(t *testing.T) {
	if _, err := ComputeSplits(100, SplitEqual, nil, nil); err == nil {
		t.Fatal("expected error for no participants")
	}
	if _, err := ComputeSplits(0, SplitEqual, []uint{1}, nil); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := ComputeSplits(100, "ratio", []uint{1}, nil); err == nil {
		t.Fatal("expected error for unknown split type")
	}
}
