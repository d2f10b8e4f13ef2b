package services

import (
	"errors"
	"testing"
	"time"

	"tripmate-server/models"
)

func intPtr(n int) *int { return &n }

func TestValidateInvite(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name   string
		invite models.TripInvite
		want   error
	}{
		{"active unlimited", models.TripInvite{IsActive: true}, nil},
		{"disabled", models.TripInvite{IsActive: false}, ErrInviteDisabled},
		{"expired", models.TripInvite{IsActive: true, HasExpiry: true, ExpiresAt: &past}, ErrInviteExpired},
		{"not yet expired", models.TripInvite{IsActive: true, HasExpiry: true, ExpiresAt: &future}, nil},
		{"exhausted", models.TripInvite{IsActive: true, MaxUses: intPtr(3), CurrentUses: 3}, ErrInviteExhausted},
		{"uses remaining", models.TripInvite{IsActive: true, MaxUses: intPtr(3), CurrentUses: 2}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateInvite(&tc.invite, now)
			if !errors.Is(got, tc.want) && got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestValidateInviteCheckOrder(t *testing.T) {
	// A disabled invite that is also expired reports disabled first.
	past := time.Now().Add(-time.Hour)
	invite := models.TripInvite{IsActive: false, HasExpiry: true, ExpiresAt: &past}
	if err := ValidateInvite(&invite, time.Now()); !errors.Is(err, ErrInviteDisabled) {
		t.Fatalf("expected disabled before expired, got %v", err)
	}

	// An expired invite that is also exhausted reports expired first.
	invite = models.TripInvite{IsActive: true, HasExpiry: true, ExpiresAt: &past, MaxUses: intPtr(1), CurrentUses: 1}
	if err := ValidateInvite(&invite, time.Now()); !errors.Is(err, ErrInviteExpired) {
		t.Fatalf("expected expired before exhausted, got %v", err)
	}
}

func TestInvitePasswordRoundTrip(t *testing.T) {
	hash, err := HashInvitePassword("open sesame")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "open sesame" {
		t.Fatal("password stored in plain text")
	}
	if err := CheckInvitePassword(hash, "open sesame"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckInvitePassword(hash, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestCheckJoinPreconditions(t *testing.T) {
	full := models.Trip{CurrentMembers: 4, MaxMembers: 4}
	open := models.Trip{CurrentMembers: 2, MaxMembers: 4}
	active := models.TripMember{Status: MemberActive}
	removed := models.TripMember{Status: MemberRemoved}

	cases := []struct {
		name     string
		trip     *models.Trip
		existing *models.TripMember
		want     error
	}{
		{"fresh join on open trip", &open, nil, nil},
		{"fresh join on full trip", &full, nil, ErrTripFull},
		{"removed member rejoining full trip", &full, &removed, ErrTripFull},
		{"active member on open trip", &open, &active, ErrAlreadyMember},
		// Membership wins over capacity when both hold.
		{"active member on full trip", &full, &active, ErrAlreadyMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckJoinPreconditions(tc.trip, tc.existing)
			if !errors.Is(got, tc.want) && got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
