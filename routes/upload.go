package routes

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
)

const (
	maxAvatarBytes   = 5 << 20
	maxCoverBytes    = 10 << 20
	maxChatFileBytes = 10 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type uploadImageInput struct {
	Image string `json:"image" validate:"required"`
}

// payloadMimeType reads the mime type off a data-URI payload. Bare base64
// payloads default to JPEG, same as decodeImagePayload.
func payloadMimeType(payload string) string {
	if strings.HasPrefix(payload, "data:") {
		if end := strings.Index(payload, ";base64,"); end != -1 {
			return payload[len("data:"):end]
		}
	}
	return "image/jpeg"
}

// decodeImagePayload validates a data-URI (or bare base64) image payload:
// allowed mime type and a byte ceiling. Returns the decoded size for the
// caller's limit check.
func decodeImagePayload(payload string, maxBytes int) (int, error) {
	mime := "image/jpeg"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		end := strings.Index(payload, ";base64,")
		if end == -1 {
			return 0, fmt.Errorf("image must be base64 encoded")
		}
		mime = payload[len("data:"):end]
		data = payload[end+len(";base64,"):]
	}
	if !allowedImageTypes[mime] {
		return 0, fmt.Errorf("unsupported image type %s, use JPEG, PNG or WebP", mime)
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return 0, fmt.Errorf("invalid base64 image data")
	}
	if len(decoded) > maxBytes {
		return 0, fmt.Errorf("image exceeds the %dMB limit", maxBytes>>20)
	}
	return len(decoded), nil
}

// UploadAvatar replaces the caller's profile picture (5MB ceiling). The old
// hosted image is deleted on success.
func UploadAvatar(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}

	var input uploadImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if _, err := decodeImagePayload(input.Image, maxAvatarBytes); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	var dbUser models.User
	if err := storage.DB.First(&dbUser, user.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	result := storage.UploadBase64Image(input.Image, fmt.Sprintf("avatar_%d", user.ID))
	if result["url"] == "" {
		utils.CreateInternalServerError(ctx)
		return
	}

	oldURL := dbUser.AvatarURL
	if err := storage.DB.Model(&dbUser).Update("avatar_url", result["url"]).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if oldURL != "" && oldURL != result["url"] {
		storage.DeleteImage(oldURL)
	}

	services.InvalidateUserCache(user.ID)

	ctx.JSON(iris.Map{"success": true, "avatarURL": result["url"]})
}

// UploadTripCover replaces the trip's cover image (10MB ceiling), Admin or
// Manager.
func UploadTripCover(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if !access.CanOperate() {
		utils.CreateForbidden(ctx, "Only trip admins and managers can change the cover image")
		return
	}

	var input uploadImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if _, err := decodeImagePayload(input.Image, maxCoverBytes); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	result := storage.UploadBase64Image(input.Image, fmt.Sprintf("trip_cover_%d", trip.ID))
	if result["url"] == "" {
		utils.CreateInternalServerError(ctx)
		return
	}

	oldURL := trip.CoverImageURL
	if err := storage.DB.Model(trip).Update("cover_image_url", result["url"]).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if oldURL != "" && oldURL != result["url"] {
		storage.DeleteImage(oldURL)
	}

	ctx.JSON(iris.Map{"success": true, "coverImageURL": result["url"]})
}

type uploadChatFileInput struct {
	File     string `json:"file" validate:"required"`
	FileName string `json:"fileName" validate:"required,max=255"`
}

// UploadChatFile hosts an image for a chat message (10MB ceiling), any
// active member. The response carries the url, size and mime type the
// client echoes back when it sends the message.
func UploadChatFile(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip members can upload chat files")
		return
	}

	var input uploadChatFileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	size, err := decodeImagePayload(input.File, maxChatFileBytes)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}
	mime := payloadMimeType(input.File)

	result := storage.UploadBase64Image(input.File,
		fmt.Sprintf("chat_%d_%d_%d", trip.ID, user.ID, time.Now().UnixMilli()))
	if result["url"] == "" {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"file": iris.Map{
			"url":      result["url"],
			"name":     input.FileName,
			"size":     size,
			"mimeType": mime,
		},
	})
}
