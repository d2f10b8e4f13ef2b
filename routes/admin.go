package routes

import (
	"net/http"
	"time"

	"tripmate-server/models"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
)

// GetPlatformStats returns platform-wide counters for the admin dashboard.
func GetPlatformStats(ctx iris.Context) {
	var userCount, tripCount, activeTripCount, expenseCount, messageCount int64
	storage.DB.Model(&models.User{}).Count(&userCount)
	storage.DB.Model(&models.Trip{}).Count(&tripCount)
	storage.DB.Model(&models.Trip{}).Where("status = ?", "active").Count(&activeTripCount)
	storage.DB.Model(&models.Expense{}).Count(&expenseCount)
	storage.DB.Model(&models.ChatMessage{}).Count(&messageCount)

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)
	var newUsersThisWeek, newTripsThisWeek, newUsersThisMonth, newTripsThisMonth int64
	storage.DB.Model(&models.User{}).Where("created_at >= ?", weekAgo).Count(&newUsersThisWeek)
	storage.DB.Model(&models.Trip{}).Where("created_at >= ?", weekAgo).Count(&newTripsThisWeek)
	storage.DB.Model(&models.User{}).Where("created_at >= ?", monthAgo).Count(&newUsersThisMonth)
	storage.DB.Model(&models.Trip{}).Where("created_at >= ?", monthAgo).Count(&newTripsThisMonth)

	var pendingRequests int64
	storage.DB.Model(&models.JoinRequest{}).Where("status = ?", "pending").Count(&pendingRequests)

	tripsByStatus := map[string]int64{}
	var statusRows []struct {
		Status string
		Count  int64
	}
	storage.DB.Model(&models.Trip{}).Select("status, COUNT(*) as count").
		Group("status").Scan(&statusRows)
	for _, row := range statusRows {
		tripsByStatus[row.Status] = row.Count
	}

	var totalExpenses float64
	storage.DB.Model(&models.Expense{}).Select("COALESCE(SUM(amount), 0)").Scan(&totalExpenses)

	ctx.JSON(iris.Map{
		"success": true,
		"stats": iris.Map{
			"users":               userCount,
			"trips":               tripCount,
			"activeTrips":         activeTripCount,
			"tripsByStatus":       tripsByStatus,
			"expenses":            expenseCount,
			"messages":            messageCount,
			"newUsersThisWeek":    newUsersThisWeek,
			"newTripsThisWeek":    newTripsThisWeek,
			"newUsersThisMonth":   newUsersThisMonth,
			"newTripsThisMonth":   newTripsThisMonth,
			"pendingJoinRequests": pendingRequests,
			"totalExpenses":       totalExpenses,
		},
	})
}

// GetRecentActivity returns the latest audit log entries.
func GetRecentActivity(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(limit).Find(&entries)

	ctx.JSON(iris.Map{"success": true, "activity": entries})
}

// ListAllUsers pages through every registered user, newest first, with an
// optional search over name and email.
func ListAllUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("limit", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.User{})
	if search := ctx.URLParam("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&users)

	utils.JSONPage(ctx, users, page, perPage, total)
}

// ListAllTrips pages through every trip regardless of visibility.
func ListAllTrips(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("limit", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Trip{})
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if visibility := ctx.URLParam("visibility"); visibility != "" {
		query = query.Where("visibility = ?", visibility)
	}

	var total int64
	query.Count(&total)

	var trips []models.Trip
	query.Preload("Creator").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&trips)

	utils.JSONPage(ctx, trips, page, perPage, total)
}

// UpdateUserRole changes a user's platform role, super admin only.
func UpdateUserRole(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("userID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var input struct {
		Role string `json:"role" validate:"required,oneof=user admin super_admin"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Role != "user" && input.Role != "admin" && input.Role != "super_admin" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "role must be user, admin or super_admin", ctx)
		return
	}

	var target models.User
	if err := storage.DB.First(&target, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := target.Role
	if err := storage.DB.Model(&target).Update("role", input.Role).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "admin.user_role", "user", target.ID,
		iris.Map{"role": before}, iris.Map{"role": input.Role})

	ctx.JSON(iris.Map{"success": true, "user": target})
}
