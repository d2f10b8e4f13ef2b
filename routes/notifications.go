package routes

import (
	"net/http"
	"time"

	"tripmate-server/models"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
)

// ListNotifications returns the caller's notifications, newest first.
// ?unread=true narrows to unread ones.
func ListNotifications(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("limit", 20)
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID)
	if ctx.URLParamBoolDefault("unread", false) {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var unreadCount int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).Count(&unreadCount)

	var notifications []models.Notification
	query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&notifications)

	ctx.JSON(iris.Map{
		"success":       true,
		"notifications": notifications,
		"unreadCount":   unreadCount,
		"page":          page,
		"total":         total,
	})
}

// MarkNotificationRead flags one of the caller's notifications as read.
func MarkNotificationRead(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}

	notificationID, err := ctx.Params().GetUint("notificationID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", notificationID, user.ID).
		First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	if err := storage.DB.Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "notification": notification})
}

// MarkAllNotificationsRead flags every unread notification of the caller.
func MarkAllNotificationsRead(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "updated": result.RowsAffected})
}

// DeleteNotification removes one of the caller's notifications.
func DeleteNotification(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}

	notificationID, err := ctx.Params().GetUint("notificationID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	result := storage.DB.Where("id = ? AND user_id = ?", notificationID, user.ID).
		Delete(&models.Notification{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Notification deleted"})
}
