package routes

import (
	"net/http"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// ListItemComments returns the comments on one itinerary item, oldest first.
// Members only.
func ListItemComments(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip members can view comments")
		return
	}

	item := loadItineraryItem(ctx, trip.ID)
	if item == nil {
		return
	}

	var comments []models.ItineraryComment
	storage.DB.Where("item_id = ?", item.ID).
		Preload("User").Order("created_at ASC").Find(&comments)

	ctx.JSON(iris.Map{"success": true, "comments": comments})
}

type commentInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// CreateItemComment adds a comment, any active member. The item's counter is
// maintained alongside the insert.
func CreateItemComment(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip members can comment")
		return
	}

	item := loadItineraryItem(ctx, trip.ID)
	if item == nil {
		return
	}

	var input commentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Content == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "content is required", ctx)
		return
	}

	comment := models.ItineraryComment{
		ItemID:  item.ID,
		UserID:  user.ID,
		Content: input.Content,
	}
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.ItineraryItem{}).Where("id = ?", item.ID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("User").First(&comment, comment.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "comment": comment})
}

// DeleteItemComment removes a comment. The author may delete their own;
// admins and managers may delete any.
func DeleteItemComment(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	item := loadItineraryItem(ctx, trip.ID)
	if item == nil {
		return
	}

	commentID, err := ctx.Params().GetUint("commentID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var comment models.ItineraryComment
	if err := storage.DB.Where("id = ? AND item_id = ?", commentID, item.ID).
		First(&comment).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if comment.UserID != user.ID && !access.CanOperate() {
		utils.CreateForbidden(ctx, "You can only delete your own comments")
		return
	}

	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.ItineraryItem{}).Where("id = ? AND comment_count > 0", item.ID).
			Update("comment_count", gorm.Expr("comment_count - 1")).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Comment deleted"})
}
