package routes

import (
	"errors"
	"net/http"
	"time"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
)

type createInviteInput struct {
	Password    string `json:"password"`
	ExpiresInHr int    `json:"expiresInHours"`
	MaxUses     *int   `json:"maxUses"`
}

// CreateTripInvite mints a shareable invite code, Admin or Manager. Private
// trips cannot carry invites at all.
func CreateTripInvite(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can create invite links")
		return
	}
	if trip.Visibility == services.VisibilityPrivate {
		utils.CreateConflict(ctx, "Private trips cannot have invite links")
		return
	}

	var input createInviteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.MaxUses != nil && *input.MaxUses < 1 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "maxUses must be at least 1", ctx)
		return
	}

	invite := models.TripInvite{
		TripID:     trip.ID,
		CreatedBy:  user.ID,
		InviteCode: utils.GenerateShortToken(16),
		MaxUses:    input.MaxUses,
		IsActive:   true,
	}
	if input.Password != "" {
		hash, err := services.HashInvitePassword(input.Password)
		if err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		invite.HasPassword = true
		invite.PasswordHash = hash
	}
	if input.ExpiresInHr > 0 {
		expiresAt := time.Now().Add(time.Duration(input.ExpiresInHr) * time.Hour)
		invite.HasExpiry = true
		invite.ExpiresAt = &expiresAt
	}

	if err := storage.DB.Create(&invite).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "invite": invite})
}

// ListTripInvites shows every invite for the trip, Admin or Manager.
func ListTripInvites(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can view invite links")
		return
	}

	var invites []models.TripInvite
	storage.DB.Where("trip_id = ?", trip.ID).Order("created_at DESC").Find(&invites)

	ctx.JSON(iris.Map{"success": true, "invites": invites})
}

type toggleInviteInput struct {
	IsActive bool `json:"isActive"`
}

// ToggleTripInvite activates or deactivates an invite, Admin or Manager.
func ToggleTripInvite(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can manage invite links")
		return
	}

	inviteID, err := ctx.Params().GetUint("inviteID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var input toggleInviteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var invite models.TripInvite
	if err := storage.DB.Where("id = ? AND trip_id = ?", inviteID, trip.ID).
		First(&invite).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if input.IsActive && trip.Visibility == services.VisibilityPrivate {
		utils.CreateConflict(ctx, "Invites cannot be enabled while the trip is private")
		return
	}

	if err := storage.DB.Model(&invite).Update("is_active", input.IsActive).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "invite.toggle", "trip_invite", invite.ID, nil,
		iris.Map{"isActive": input.IsActive})

	ctx.JSON(iris.Map{"success": true, "invite": invite})
}

// ResolveInvite is the public preview behind an invite link: enough trip
// detail to decide whether to join, plus whether a password will be needed.
// The caller's membership is reported when a valid token accompanies the
// request.
func ResolveInvite(ctx iris.Context) {
	code := ctx.Params().Get("code")

	var invite models.TripInvite
	if err := storage.DB.Where("invite_code = ?", code).First(&invite).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := services.ValidateInvite(&invite, time.Now()); err != nil {
		writeInviteError(ctx, err)
		return
	}

	var trip models.Trip
	if err := storage.DB.Preload("Creator").First(&trip, invite.TripID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	alreadyMember := false
	if tok := utils.OptionalUser(ctx); tok != nil {
		access := services.ResolveTripAccess(&trip, tok.ID)
		alreadyMember = access.IsMember()
	}

	ctx.JSON(iris.Map{
		"success": true,
		"trip": iris.Map{
			"id":             trip.ID,
			"title":          trip.Title,
			"description":    trip.Description,
			"location":       trip.Location,
			"startDate":      trip.StartDate,
			"endDate":        trip.EndDate,
			"coverImageURL":  trip.CoverImageURL,
			"currentMembers": trip.CurrentMembers,
			"maxMembers":     trip.MaxMembers,
			"creatorName":    trip.Creator.DisplayName(),
		},
		"requiresPassword": invite.HasPassword,
		"alreadyMember":    alreadyMember,
	})
}

type redeemInviteInput struct {
	Password string `json:"password"`
}

// RedeemInvite consumes the invite code for the authenticated caller.
func RedeemInvite(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	code := ctx.Params().Get("code")

	var input redeemInviteInput
	if ctx.GetContentLength() > 0 {
		if err := ctx.ReadJSON(&input); err != nil {
			utils.HandleValidationErrors(err, ctx)
			return
		}
	}

	member, err := services.RedeemInvite(code, user.ID, input.Password)
	if err != nil {
		writeInviteError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "member": member, "message": "You have joined the trip"})
}

// writeInviteError maps the typed invite failures onto HTTP statuses.
// Disabled, expired and exhausted invites are all 410: the link existed but
// no longer works.
func writeInviteError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInviteNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrInviteDisabled),
		errors.Is(err, services.ErrInviteExpired),
		errors.Is(err, services.ErrInviteExhausted):
		utils.CreateError(iris.StatusGone, "Invite Unavailable", err.Error(), ctx)
	case errors.Is(err, services.ErrWrongPassword):
		utils.CreateError(iris.StatusUnauthorized, "Incorrect Password", "The invite password is incorrect", ctx)
	case errors.Is(err, services.ErrAlreadyMember):
		utils.CreateConflict(ctx, "You are already a member of this trip")
	case errors.Is(err, services.ErrTripFull):
		utils.CreateConflict(ctx, "This trip is at full capacity")
	default:
		utils.CreateInternalServerError(ctx)
	}
}
