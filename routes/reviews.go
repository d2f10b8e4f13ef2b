package routes

import (
	"errors"
	"math"
	"net/http"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// ListReviews returns the trip's reviews with an average rating. Visible to
// anyone who can view the trip.
func ListReviews(ctx iris.Context) {
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	var userID uint
	if tok := utils.OptionalUser(ctx); tok != nil {
		userID = tok.ID
	}
	access := services.ResolveTripAccess(trip, userID)
	if !access.CanView(trip) {
		utils.CreateForbidden(ctx, "Access denied to this trip")
		return
	}

	var reviews []models.Review
	storage.DB.Where("trip_id = ?", trip.ID).
		Preload("User").Order("created_at DESC").Find(&reviews)

	var average float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		average = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	ctx.JSON(iris.Map{
		"success":       true,
		"reviews":       reviews,
		"averageRating": average,
		"reviewCount":   len(reviews),
	})
}

type reviewInput struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" validate:"max=2000"`
}

// CreateReview records a rating for a completed trip. Members only, one
// review per member per trip.
func CreateReview(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip members can review a trip")
		return
	}
	if trip.Status != "completed" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Only completed trips can be reviewed", ctx)
		return
	}

	var input reviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "rating must be between 1 and 5", ctx)
		return
	}

	var existing models.Review
	err := storage.DB.Where("trip_id = ? AND user_id = ?", trip.ID, user.ID).
		First(&existing).Error
	if err == nil {
		utils.CreateConflict(ctx, "You have already reviewed this trip")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	review := models.Review{
		TripID:     trip.ID,
		UserID:     user.ID,
		Rating:     input.Rating,
		ReviewText: input.ReviewText,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateConflict(ctx, "You have already reviewed this trip")
		return
	}

	storage.DB.Preload("User").First(&review, review.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "review": review})
}

// UpdateReview lets the author revise their own rating or text.
func UpdateReview(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	reviewID, err := ctx.Params().GetUint("reviewID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var review models.Review
	if err := storage.DB.Where("id = ? AND trip_id = ?", reviewID, trip.ID).
		First(&review).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if review.UserID != user.ID {
		utils.CreateForbidden(ctx, "You can only edit your own review")
		return
	}

	var input reviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "rating must be between 1 and 5", ctx)
		return
	}

	if err := storage.DB.Model(&review).Updates(map[string]interface{}{
		"rating":      input.Rating,
		"review_text": input.ReviewText,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "review": review})
}

// DeleteReview removes the author's own review, or any review for a trip
// admin.
func DeleteReview(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	reviewID, err := ctx.Params().GetUint("reviewID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var review models.Review
	if err := storage.DB.Where("id = ? AND trip_id = ?", reviewID, trip.ID).
		First(&review).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if review.UserID != user.ID && !access.CanManageTrip() {
		utils.CreateForbidden(ctx, "You can only delete your own review")
		return
	}

	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Review deleted"})
}
