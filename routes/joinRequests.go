package routes

import (
	"errors"
	"net/http"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type joinRequestInput struct {
	Message string `json:"message" validate:"max=500"`
}

// RequestToJoin files a join request for a public or link-visibility trip.
// When the trip has auto-approval enabled the caller becomes a Traveller
// immediately instead; otherwise the trip's admins and managers are notified
// of the pending request.
func RequestToJoin(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	if !services.TripAcceptsJoinRequests(trip) {
		utils.CreateForbidden(ctx, "This trip does not accept join requests")
		return
	}
	if trip.CurrentMembers >= trip.MaxMembers {
		utils.CreateConflict(ctx, "This trip is at full capacity")
		return
	}

	var input joinRequestInput
	if ctx.GetContentLength() > 0 {
		if err := ctx.ReadJSON(&input); err != nil {
			utils.HandleValidationErrors(err, ctx)
			return
		}
	}

	if trip.AutoApproveRequests {
		member, err := services.JoinTripDirect(trip.ID, user.ID)
		if err != nil {
			writeInviteError(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"success": true, "autoApproved": true, "member": member})
		return
	}

	request, err := services.CreateJoinRequest(trip, user.ID, input.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyMember):
			utils.CreateConflict(ctx, "You are already a member of this trip")
		case errors.Is(err, services.ErrRequestPending):
			utils.CreateConflict(ctx, "You already have a pending request for this trip")
		case errors.Is(err, services.ErrRequestRejected):
			utils.CreateForbidden(ctx, "Your previous request to join this trip was rejected")
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	var requester models.User
	storage.DB.First(&requester, user.ID)
	services.NewNotificationService().NotifyTripOperators(trip.ID,
		"join_request", "New join request",
		requester.DisplayName()+" wants to join "+trip.Title,
		map[string]interface{}{"requestID": request.ID, "userID": user.ID})

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "request": request})
}

// GetMyJoinRequest reports the caller's latest request for this trip, if any.
func GetMyJoinRequest(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	var request models.JoinRequest
	err := storage.DB.Where("trip_id = ? AND user_id = ?", trip.ID, user.ID).
		Order("requested_at DESC").First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(iris.Map{"success": true, "request": nil})
		return
	}
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "request": request})
}

// ListJoinRequests returns the trip's requests for review, Admin or Manager.
// Defaults to pending only; ?status=all includes reviewed ones.
func ListJoinRequests(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can review join requests")
		return
	}

	query := storage.DB.Where("trip_id = ?", trip.ID)
	switch status := ctx.URLParamDefault("status", services.RequestPending); status {
	case "all":
	case services.RequestPending, services.RequestApproved, services.RequestRejected:
		query = query.Where("status = ?", status)
	default:
		query = query.Where("status = ?", services.RequestPending)
	}

	var requests []models.JoinRequest
	query.Preload("User").Order("requested_at ASC").Find(&requests)

	ctx.JSON(iris.Map{"success": true, "requests": requests})
}

type reviewRequestInput struct {
	Action  string `json:"action" validate:"required,oneof=approve reject"`
	Message string `json:"message" validate:"max=500"`
}

// ReviewJoinRequest approves or rejects a pending request, Admin or Manager.
// The requester is notified of the outcome.
func ReviewJoinRequest(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can review join requests")
		return
	}

	requestID, err := ctx.Params().GetUint("requestID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var input reviewRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Action != "approve" && input.Action != "reject" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "action must be approve or reject", ctx)
		return
	}
	approve := input.Action == "approve"

	request, err := services.ReviewJoinRequest(trip.ID, requestID, user.ID, approve, input.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			utils.CreateNotFound(ctx)
		case errors.Is(err, services.ErrRequestNotPending):
			utils.CreateConflict(ctx, "This request has already been reviewed")
		case errors.Is(err, services.ErrAlreadyMember):
			utils.CreateConflict(ctx, "This user is already a member of the trip")
		case errors.Is(err, services.ErrTripFull):
			utils.CreateConflict(ctx, "This trip is at full capacity")
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	utils.Audit(ctx, "joinrequest.review", "join_request", request.ID, nil,
		iris.Map{"status": request.Status})

	notifier := services.NewNotificationService()
	if approve {
		notifier.NotifyUser(request.UserID, &trip.ID,
			"request_approved", "Request approved",
			"Your request to join "+trip.Title+" was approved", nil)
	} else {
		notifier.NotifyUser(request.UserID, &trip.ID,
			"request_rejected", "Request declined",
			"Your request to join "+trip.Title+" was declined", nil)
	}

	ctx.JSON(iris.Map{"success": true, "request": request})
}
