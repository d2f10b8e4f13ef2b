package routes

import (
	"net/http"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
)

// ListMessages returns a page of the trip chat, newest page first but each
// page ordered oldest to newest for rendering. Members only.
func ListMessages(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if !access.IsMember() {
		utils.CreateForbidden(ctx, "Only trip members can view the chat")
		return
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("limit", 50)
	if perPage <= 0 || perPage > 100 {
		perPage = 50
	}

	var total int64
	storage.DB.Model(&models.ChatMessage{}).Where("trip_id = ?", trip.ID).Count(&total)

	var messages []models.ChatMessage
	storage.DB.Where("trip_id = ?", trip.ID).
		Preload("Sender").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&messages)

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	utils.JSONPage(ctx, messages, page, perPage, total)
}

type sendMessageInput struct {
	Message      string `json:"message" validate:"max=2000"`
	MessageType  string `json:"messageType"`
	FileURL      string `json:"fileURL"`
	FileName     string `json:"fileName"`
	FileSize     int64  `json:"fileSize"`
	FileMimeType string `json:"fileMimeType"`
	ReplyTo      *uint  `json:"replyTo"`
}

// SendMessage posts to the trip chat, any active member. File messages carry
// an already-uploaded URL; text messages need a non-empty body.
func SendMessage(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if !access.IsMember() {
		utils.CreateForbidden(ctx, "Only trip members can send messages")
		return
	}

	var input sendMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	messageType := input.MessageType
	if messageType == "" {
		messageType = "text"
	}
	if messageType == "text" && input.Message == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "message is required", ctx)
		return
	}
	if messageType != "text" && input.FileURL == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "fileURL is required for file messages", ctx)
		return
	}

	if input.ReplyTo != nil {
		var parent models.ChatMessage
		if err := storage.DB.Where("id = ? AND trip_id = ?", *input.ReplyTo, trip.ID).
			First(&parent).Error; err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "replyTo message not found in this trip", ctx)
			return
		}
	}

	message := models.ChatMessage{
		TripID:       trip.ID,
		UserID:       user.ID,
		Message:      input.Message,
		MessageType:  messageType,
		FileURL:      input.FileURL,
		FileName:     input.FileName,
		FileSize:     input.FileSize,
		FileMimeType: input.FileMimeType,
		ReplyTo:      input.ReplyTo,
	}
	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("Sender").First(&message, message.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "message": message})
}

// DeleteMessage removes a chat message: the sender, or an operator.
func DeleteMessage(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	messageID, err := ctx.Params().GetUint("messageID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var message models.ChatMessage
	if err := storage.DB.Where("id = ? AND trip_id = ?", messageID, trip.ID).
		First(&message).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if message.UserID != user.ID && !access.CanOperate() {
		utils.CreateForbidden(ctx, "You can only delete your own messages")
		return
	}

	if err := storage.DB.Delete(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Message deleted"})
}
