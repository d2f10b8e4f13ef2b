package routes

import (
	"net/http"
	"time"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var assignableRoles = []string{services.RoleAdmin, services.RoleManager, services.RoleTraveller}

// ListTripMembers returns the active members with their profiles.
func ListTripMembers(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if !access.CanView(trip) {
		utils.CreateForbidden(ctx, "Access denied to this trip")
		return
	}

	var members []models.TripMember
	storage.DB.Where("trip_id = ? AND status = ?", trip.ID, services.MemberActive).
		Preload("User").
		Order("joined_at ASC").
		Find(&members)

	ctx.JSON(iris.Map{"success": true, "members": members})
}

type updateMemberRoleInput struct {
	Role string `json:"role" validate:"required"`
}

// UpdateMemberRole changes another member's role, Admin only. The trip
// creator's role cannot be changed: they are always an Admin.
func UpdateMemberRole(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins can change member roles")
		return
	}

	memberUserID, err := ctx.Params().GetUint("userID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var input updateMemberRoleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !slices.Contains(assignableRoles, input.Role) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid role. Must be one of: Admin, Manager, Traveller", ctx)
		return
	}

	if memberUserID == trip.CreatedBy && input.Role != services.RoleAdmin {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "The trip creator is always an admin", ctx)
		return
	}

	var member models.TripMember
	err = storage.DB.Where("trip_id = ? AND user_id = ? AND status = ?",
		trip.ID, memberUserID, services.MemberActive).First(&member).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := member.Role
	if err := storage.DB.Model(&member).Update("role", input.Role).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "member.role", "trip_member", member.ID,
		iris.Map{"role": before}, iris.Map{"role": input.Role})

	ctx.JSON(iris.Map{"success": true, "member": member})
}

// RemoveTripMember drops a member from the trip. Members may remove
// themselves; removing anyone else requires Admin. The creator cannot be
// removed. Removal is a soft flip to the removed status so the row can be
// reactivated on a later rejoin.
func RemoveTripMember(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	memberUserID, err := ctx.Params().GetUint("userID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if memberUserID != user.ID && !access.CanManageTrip() {
		utils.CreateForbidden(ctx, "Only trip admins can remove other members")
		return
	}
	if memberUserID == trip.CreatedBy {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "The trip creator cannot leave the trip", ctx)
		return
	}

	now := time.Now()
	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		var member models.TripMember
		if err := tx.Where("trip_id = ? AND user_id = ? AND status = ?",
			trip.ID, memberUserID, services.MemberActive).First(&member).Error; err != nil {
			return err
		}
		if err := tx.Model(&member).Updates(map[string]interface{}{
			"status":     services.MemberRemoved,
			"removed_at": now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Trip{}).Where("id = ? AND current_members > 0", trip.ID).
			Update("current_members", gorm.Expr("current_members - 1")).Error
	})
	if err == gorm.ErrRecordNotFound {
		utils.CreateNotFound(ctx)
		return
	}
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "member.remove", "trip_member", memberUserID, nil, nil)

	if memberUserID != user.ID {
		services.NewNotificationService().NotifyUser(memberUserID, &trip.ID,
			"member_removed", "Removed from trip",
			"You are no longer a member of "+trip.Title, nil)
	}

	ctx.JSON(iris.Map{"success": true, "message": "Member removed"})
}
