package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var validStatuses = []string{"planning", "active", "completed", "cancelled"}
var validVisibilities = []string{services.VisibilityPublic, services.VisibilityPrivate, services.VisibilityLink}

// loadTrip fetches the trip named by the {id:uint} route param, stopping
// with 404 / 400 when it cannot.
func loadTrip(ctx iris.Context) *models.Trip {
	tripID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return nil
	}
	var trip models.Trip
	if err := storage.DB.First(&trip, tripID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &trip
}

func requireUser(ctx iris.Context) *utils.AccessToken {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return nil
	}
	return tok.(*utils.AccessToken)
}

type createTripInput struct {
	Title               string   `json:"title" validate:"required,max=120"`
	Description         string   `json:"description"`
	Location            string   `json:"location"`
	StartDate           string   `json:"startDate"`
	EndDate             string   `json:"endDate"`
	Budget              float64  `json:"budget"`
	MaxMembers          int      `json:"maxMembers"`
	Visibility          string   `json:"visibility"`
	AutoApproveRequests bool     `json:"autoApproveRequests"`
	Tags                []string `json:"tags"`
}

// CreateTrip inserts the trip and its creator's Admin membership in a single
// transaction; the creator counts as the first member.
func CreateTrip(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}

	var input createTripInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	visibility := input.Visibility
	if !slices.Contains(validVisibilities, visibility) {
		visibility = services.VisibilityPublic
	}
	maxMembers := input.MaxMembers
	if maxMembers <= 0 {
		maxMembers = 10
	}

	var tags []byte
	if input.Tags != nil {
		tags, _ = json.Marshal(input.Tags)
	}

	trip := models.Trip{
		Title:               input.Title,
		Description:         input.Description,
		Location:            input.Location,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		Budget:              input.Budget,
		MaxMembers:          maxMembers,
		CurrentMembers:      1,
		Visibility:          visibility,
		Status:              "planning",
		CreatedBy:           user.ID,
		AutoApproveRequests: input.AutoApproveRequests,
		Tags:                tags,
	}

	now := time.Now()
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trip).Error; err != nil {
			return err
		}
		member := models.TripMember{
			TripID:   trip.ID,
			UserID:   user.ID,
			Role:     services.RoleAdmin,
			Status:   services.MemberActive,
			JoinedAt: &now,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "trip": trip})
}

// ListTrips is the explore surface: public trips only, defaulting to the
// planning status, with location/tag/date filters and pagination.
func ListTrips(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("limit", 12)
	if perPage <= 0 || perPage > 50 {
		perPage = 12
	}

	query := storage.DB.Model(&models.Trip{}).Where("visibility = ?", services.VisibilityPublic)

	status := ctx.URLParamDefault("status", "planning")
	if slices.Contains(validStatuses, status) {
		query = query.Where("status = ?", status)
	}
	if location := ctx.URLParam("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if tag := ctx.URLParam("tag"); tag != "" {
		query = query.Where("tags::text ILIKE ?", "%"+tag+"%")
	}
	if startDate := ctx.URLParam("startDate"); startDate != "" {
		query = query.Where("start_date >= ?", startDate)
	}
	if endDate := ctx.URLParam("endDate"); endDate != "" {
		query = query.Where("end_date <= ?", endDate)
	}

	var total int64
	query.Count(&total)

	var trips []models.Trip
	query.Preload("Creator").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&trips)

	utils.JSONPage(ctx, trips, page, perPage, total)
}

// ListMyTrips returns trips the caller belongs to, any visibility.
func ListMyTrips(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}

	var trips []models.Trip
	storage.DB.
		Joins("JOIN trip_members m ON m.trip_id = trips.id").
		Where("m.user_id = ? AND m.status = ?", user.ID, services.MemberActive).
		Preload("Members", "status = ?", services.MemberActive).
		Preload("Members.User").
		Order("trips.created_at DESC").
		Find(&trips)

	ctx.JSON(iris.Map{"success": true, "trips": trips})
}

// GetTrip returns the trip with active members and the caller's role.
// Public trips render for anyone; private and link trips require active
// membership (the creator always passes).
func GetTrip(ctx iris.Context) {
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	var userID uint
	if tok := utils.OptionalUser(ctx); tok != nil {
		userID = tok.ID
	}
	access := services.ResolveTripAccess(trip, userID)

	if trip.Visibility != services.VisibilityPublic && !access.IsMember() {
		if userID == 0 {
			ctx.StopWithStatus(http.StatusUnauthorized)
			return
		}
		utils.CreateForbidden(ctx, "Access denied to this trip")
		return
	}

	var members []models.TripMember
	storage.DB.Where("trip_id = ? AND status = ?", trip.ID, services.MemberActive).
		Preload("User").Find(&members)

	userRole := interface{}(nil)
	if access.IsMember() {
		userRole = access.Role
	}

	ctx.JSON(iris.Map{
		"success":   true,
		"trip":      trip,
		"members":   members,
		"userRole":  userRole,
		"isCreator": access.IsCreator,
	})
}

type updateTripInput struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Location            *string  `json:"location"`
	StartDate           *string  `json:"startDate"`
	EndDate             *string  `json:"endDate"`
	Budget              *float64 `json:"budget"`
	MaxMembers          *int     `json:"maxMembers"`
	Visibility          *string  `json:"visibility"`
	AutoApproveRequests *bool    `json:"autoApproveRequests"`
	IsLocked            *bool    `json:"isLocked"`
	LockDaysBefore      *int     `json:"lockDaysBefore"`
	CoverImageURL       *string  `json:"coverImageURL"`
	Tags                []string `json:"tags"`
}

// UpdateTrip applies a field-filtered edit, Admin only. Switching visibility
// to private deactivates every invite for the trip; a cascade failure is
// logged but does not roll back the edit.
func UpdateTrip(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if !access.CanManageTrip() {
		utils.CreateForbidden(ctx, "Admin access required")
		return
	}

	var input updateTripInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.Budget != nil {
		updates["budget"] = *input.Budget
	}
	if input.MaxMembers != nil && *input.MaxMembers > 0 {
		updates["max_members"] = *input.MaxMembers
	}
	if input.Visibility != nil {
		if !slices.Contains(validVisibilities, *input.Visibility) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid visibility", ctx)
			return
		}
		updates["visibility"] = *input.Visibility
	}
	if input.AutoApproveRequests != nil {
		updates["auto_approve_requests"] = *input.AutoApproveRequests
	}
	if input.IsLocked != nil {
		updates["is_locked"] = *input.IsLocked
	}
	if input.LockDaysBefore != nil {
		updates["lock_days_before"] = *input.LockDaysBefore
	}
	if input.CoverImageURL != nil {
		updates["cover_image_url"] = *input.CoverImageURL
	}
	if input.Tags != nil {
		if b, err := json.Marshal(input.Tags); err == nil {
			updates["tags"] = b
		}
	}

	if len(updates) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "No valid fields to update", ctx)
		return
	}

	before := *trip
	if err := storage.DB.Model(trip).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if v, ok := updates["visibility"]; ok && v == services.VisibilityPrivate {
		err := storage.DB.Model(&models.TripInvite{}).
			Where("trip_id = ? AND is_active = ?", trip.ID, true).
			Update("is_active", false).Error
		if err != nil {
			log.Printf("failed to deactivate invites for trip %d: %v", trip.ID, err)
		}
	}

	utils.Audit(ctx, "trip.update", "trip", trip.ID, before, trip)

	ctx.JSON(iris.Map{"success": true, "trip": trip})
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateTripStatus sets the lifecycle status, Admin only. Any status can be
// set from any other; ordering is intentionally not enforced.
func UpdateTripStatus(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if !access.CanManageTrip() {
		utils.CreateForbidden(ctx, "Only trip admins can change trip status")
		return
	}

	var input updateStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !slices.Contains(validStatuses, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid status. Must be one of: planning, active, completed, cancelled", ctx)
		return
	}

	before := trip.Status
	if err := storage.DB.Model(trip).Update("status", input.Status).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "trip.status", "trip", trip.ID, iris.Map{"status": before}, iris.Map{"status": input.Status})

	ctx.JSON(iris.Map{"success": true, "trip": trip})
}

// DeleteTrip hard-deletes the trip row, Admin only. Dependent rows go with
// it via foreign keys. Works for the creator even when no membership rows
// exist.
func DeleteTrip(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if !access.CanManageTrip() {
		utils.CreateForbidden(ctx, "Admin access required")
		return
	}

	if err := storage.DB.Delete(&models.Trip{}, trip.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "trip.delete", "trip", trip.ID, trip, nil)

	ctx.JSON(iris.Map{"success": true, "message": "Trip deleted successfully"})
}
