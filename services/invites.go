package services

import (
	"errors"
	"time"

	"tripmate-server/models"
	"tripmate-server/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Typed invite/membership failures. Routes map these onto status codes.
var (
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteDisabled  = errors.New("invite disabled")
	ErrInviteExpired   = errors.New("invite expired")
	ErrInviteExhausted = errors.New("invite usage limit reached")
	ErrWrongPassword   = errors.New("incorrect invite password")
	ErrAlreadyMember   = errors.New("already an active member")
	ErrTripFull        = errors.New("trip is at full capacity")
)

// ValidateInvite applies the redemption preconditions in order:
// active, then expiry, then usage cap.
func ValidateInvite(inv *models.TripInvite, now time.Time) error {
	if !inv.IsActive {
		return ErrInviteDisabled
	}
	if inv.HasExpiry && inv.ExpiresAt != nil && now.After(*inv.ExpiresAt) {
		return ErrInviteExpired
	}
	if inv.MaxUses != nil && inv.CurrentUses >= *inv.MaxUses {
		return ErrInviteExhausted
	}
	return nil
}

// HashInvitePassword stores invite passwords the same way user passwords are
// stored. bcrypt comparison is constant time.
func HashInvitePassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckInvitePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// CheckJoinPreconditions orders the join guards: an existing active member
// is reported as such before capacity is considered, so a member poking at a
// full trip sees ErrAlreadyMember rather than ErrTripFull. existing is nil
// when the user has never held a membership row on the trip.
func CheckJoinPreconditions(trip *models.Trip, existing *models.TripMember) error {
	if existing != nil && existing.Status == MemberActive {
		return ErrAlreadyMember
	}
	if trip.CurrentMembers >= trip.MaxMembers {
		return ErrTripFull
	}
	return nil
}

// addTravellerTx inserts an active Traveller membership and bumps the member
// counter on an already-locked trip row. Re-activates a removed row when one
// exists so the (trip, user) uniqueness holds.
func addTravellerTx(tx *gorm.DB, trip *models.Trip, userID uint) (*models.TripMember, error) {
	now := time.Now()
	var existing models.TripMember
	err := tx.Where("trip_id = ? AND user_id = ?", trip.ID, userID).First(&existing).Error
	switch {
	case err == nil:
		if preErr := CheckJoinPreconditions(trip, &existing); preErr != nil {
			return nil, preErr
		}
		existing.Role = RoleTraveller
		existing.Status = MemberActive
		existing.JoinedAt = &now
		existing.RemovedAt = nil
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		if err := bumpMemberCount(tx, trip); err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if preErr := CheckJoinPreconditions(trip, nil); preErr != nil {
			return nil, preErr
		}
		member := models.TripMember{
			TripID:   trip.ID,
			UserID:   userID,
			Role:     RoleTraveller,
			Status:   MemberActive,
			JoinedAt: &now,
		}
		if err := tx.Create(&member).Error; err != nil {
			return nil, err
		}
		if err := bumpMemberCount(tx, trip); err != nil {
			return nil, err
		}
		return &member, nil
	default:
		return nil, err
	}
}

func bumpMemberCount(tx *gorm.DB, trip *models.Trip) error {
	trip.CurrentMembers++
	return tx.Model(&models.Trip{}).Where("id = ?", trip.ID).
		Update("current_members", trip.CurrentMembers).Error
}

// RedeemInvite turns a valid invite code into an active Traveller membership.
// The invite and trip rows are locked for the duration of the transaction so
// two concurrent redemptions against the last seat cannot both succeed.
func RedeemInvite(code string, userID uint, password string) (*models.TripMember, error) {
	var member *models.TripMember
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.TripInvite
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("invite_code = ?", code).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		if err := ValidateInvite(&inv, time.Now()); err != nil {
			return err
		}

		if inv.HasPassword && inv.PasswordHash != "" {
			if err := CheckInvitePassword(inv.PasswordHash, password); err != nil {
				return err
			}
		}

		var trip models.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, inv.TripID).Error; err != nil {
			return err
		}

		m, err := addTravellerTx(tx, &trip, userID)
		if err != nil {
			return err
		}
		member = m

		return tx.Model(&models.TripInvite{}).Where("id = ?", inv.ID).
			Update("current_uses", inv.CurrentUses+1).Error
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// JoinTripDirect adds the user as a Traveller straight away (public trips
// with auto-approval enabled). Same locking discipline as RedeemInvite.
func JoinTripDirect(tripID, userID uint) (*models.TripMember, error) {
	var member *models.TripMember
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var trip models.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, tripID).Error; err != nil {
			return err
		}
		m, err := addTravellerTx(tx, &trip, userID)
		if err != nil {
			return err
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}
