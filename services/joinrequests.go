package services

import (
	"errors"
	"os"
	"time"

	"tripmate-server/models"
	"tripmate-server/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRequestNotFound   = errors.New("join request not found")
	ErrRequestNotPending = errors.New("join request already reviewed")
	ErrRequestPending    = errors.New("a pending join request already exists")
	ErrRequestRejected   = errors.New("a previous join request was rejected")
)

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AllowRerequestAfterReject controls whether a user may file a new request
// after a terminal rejection. Set ALLOW_REREQUEST_AFTER_REJECT=false to
// disallow; the default permits a fresh request.
var AllowRerequestAfterReject = os.Getenv("ALLOW_REREQUEST_AFTER_REJECT") != "false"

// TripAcceptsJoinRequests reports whether a trip can receive join requests.
// Public and link-visibility trips both accept them; only private trips are
// closed to requests.
func TripAcceptsJoinRequests(trip *models.Trip) bool {
	return trip.Visibility != VisibilityPrivate
}

// CreateJoinRequest files a pending request for (trip, user). Duplicate
// pending requests and existing active memberships are rejected before the
// insert; the partial unique index backstops the race.
func CreateJoinRequest(trip *models.Trip, userID uint, message string) (*models.JoinRequest, error) {
	var existingMember models.TripMember
	err := storage.DB.Where("trip_id = ? AND user_id = ? AND status = ?", trip.ID, userID, MemberActive).
		First(&existingMember).Error
	if err == nil {
		return nil, ErrAlreadyMember
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var prior models.JoinRequest
	err = storage.DB.Where("trip_id = ? AND user_id = ?", trip.ID, userID).
		Order("requested_at DESC").First(&prior).Error
	if err == nil {
		if prior.Status == RequestPending {
			return nil, ErrRequestPending
		}
		if prior.Status == RequestRejected && !AllowRerequestAfterReject {
			return nil, ErrRequestRejected
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := models.JoinRequest{
		TripID:      trip.ID,
		UserID:      userID,
		Message:     message,
		Status:      RequestPending,
		RequestedAt: time.Now(),
	}
	if err := storage.DB.Create(&request).Error; err != nil {
		return nil, translateRequestInsertError(err)
	}
	return &request, nil
}

// translateRequestInsertError maps a duplicate-key violation on the pending
// request index to ErrRequestPending. Two racing requests can both pass the
// pre-check; the partial unique index catches the loser.
func translateRequestInsertError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrRequestPending
	}
	return err
}

// ReviewJoinRequest approves or rejects a pending request. Approval flips
// the status and materializes the Traveller membership in one transaction;
// a request that is no longer pending is rejected outright, so re-approving
// cannot silently repeat the side effects.
func ReviewJoinRequest(tripID, requestID, reviewerID uint, approve bool, reviewMessage string) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND trip_id = ?", requestID, tripID).
			First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if request.Status != RequestPending {
			return ErrRequestNotPending
		}

		now := time.Now()
		request.ReviewedBy = &reviewerID
		request.ReviewedAt = &now
		request.ReviewMessage = reviewMessage
		if approve {
			request.Status = RequestApproved
		} else {
			request.Status = RequestRejected
		}
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if !approve {
			return nil
		}

		var trip models.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, tripID).Error; err != nil {
			return err
		}
		_, err := addTravellerTx(tx, &trip, request.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}
