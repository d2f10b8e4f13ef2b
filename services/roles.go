package services

import (
	"errors"

	"tripmate-server/models"
	"tripmate-server/storage"

	"gorm.io/gorm"
)

const (
	RoleAdmin     = "Admin"
	RoleManager   = "Manager"
	RoleTraveller = "Traveller"
)

const (
	MemberActive  = "active"
	MemberRemoved = "removed"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityLink    = "link"
)

// TripAccess is the single authorization decision every trip route consumes.
// An empty Role means the user is not an active member; the creator is
// always treated as Admin even when no membership row exists.
type TripAccess struct {
	Role      string `json:"role"`
	IsCreator bool   `json:"isCreator"`
}

func (a TripAccess) IsMember() bool { return a.Role != "" }

// CanManageTrip gates structural edits: title, dates, visibility, status,
// deletion, member roles.
func (a TripAccess) CanManageTrip() bool { return a.Role == RoleAdmin }

// CanOperate gates operational actions: itinerary edits, invites,
// join-request review.
func (a TripAccess) CanOperate() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// CanView reports whether the trip content is visible to this access level.
// Public trips are viewable by anyone; private and link trips require
// membership.
func (a TripAccess) CanView(trip *models.Trip) bool {
	if trip.Visibility == VisibilityPublic {
		return true
	}
	return a.IsMember()
}

// AccessFor derives the access decision from already-loaded rows. member may
// be nil. Kept separate from the DB lookup so the rule is testable on its own.
func AccessFor(trip *models.Trip, member *models.TripMember, userID uint) TripAccess {
	if userID == 0 {
		return TripAccess{}
	}
	if trip.CreatedBy == userID {
		return TripAccess{Role: RoleAdmin, IsCreator: true}
	}
	if member != nil && member.Status == MemberActive {
		return TripAccess{Role: member.Role}
	}
	return TripAccess{}
}

// ResolveTripAccess loads the membership row for (trip, user) and applies
// AccessFor. userID 0 means unauthenticated.
func ResolveTripAccess(trip *models.Trip, userID uint) TripAccess {
	if userID == 0 {
		return TripAccess{}
	}
	var member models.TripMember
	err := storage.DB.Where("trip_id = ? AND user_id = ?", trip.ID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessFor(trip, nil, userID)
		}
		return AccessFor(trip, nil, userID)
	}
	return AccessFor(trip, &member, userID)
}
