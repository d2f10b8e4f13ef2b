package services

import (
	"encoding/json"
	"log"

	"tripmate-server/models"
	"tripmate-server/storage"
)

// NotificationService writes user-facing notification rows. Every call is
// best effort: failures are logged and never surfaced to the primary action.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyUser inserts a notification row for one user.
func (ns *NotificationService) NotifyUser(userID uint, tripID *uint, nType, title, message string, data map[string]interface{}) {
	var payload []byte
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			payload = b
		}
	}
	n := models.Notification{
		UserID:  userID,
		TripID:  tripID,
		Type:    nType,
		Title:   title,
		Message: message,
		Data:    payload,
	}
	if err := storage.DB.Create(&n).Error; err != nil {
		log.Printf("failed to create notification for user %d: %v", userID, err)
	}
}

// NotifyTripOperators fans a notification out to every active Admin and
// Manager of a trip. A failure for one recipient does not stop the rest.
func (ns *NotificationService) NotifyTripOperators(tripID uint, nType, title, message string, data map[string]interface{}) {
	var operators []models.TripMember
	err := storage.DB.Where("trip_id = ? AND status = ? AND role IN ?", tripID, MemberActive, []string{RoleAdmin, RoleManager}).
		Find(&operators).Error
	if err != nil {
		log.Printf("failed to load operators for trip %d: %v", tripID, err)
		return
	}
	for _, op := range operators {
		ns.NotifyUser(op.UserID, &tripID, nType, title, message, data)
	}
}
