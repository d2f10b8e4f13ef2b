package routes

import (
	"encoding/json"
	"net/http"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// GetMyProfile returns the caller's profile, memoized in Redis for five
// minutes.
func GetMyProfile(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	user := tok.(*utils.AccessToken)

	profile, err := services.GetCachedUser(user.ID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "user": profile})
}

type updateProfileInput struct {
	FirstName         *string  `json:"firstName"`
	LastName          *string  `json:"lastName"`
	Name              *string  `json:"name"`
	Bio               *string  `json:"bio"`
	AvatarURL         *string  `json:"avatarURL"`
	Languages         []string `json:"languages"`
	TravelPreferences []string `json:"travelPreferences"`
}

// UpdateMyProfile applies a partial profile edit and drops the cached row.
func UpdateMyProfile(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	user := tok.(*utils.AccessToken)

	var input updateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if input.Languages != nil {
		if b, err := json.Marshal(input.Languages); err == nil {
			updates["languages"] = b
		}
	}
	if input.TravelPreferences != nil {
		if b, err := json.Marshal(input.TravelPreferences); err == nil {
			updates["travel_preferences"] = b
		}
	}

	if len(updates) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "No valid fields to update", ctx)
		return
	}

	if err := storage.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	services.InvalidateUserCache(user.ID)

	var updated models.User
	storage.DB.First(&updated, user.ID)
	ctx.JSON(iris.Map{"success": true, "user": updated})
}
