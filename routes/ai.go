package routes

import (
	"log"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type generateItineraryInput struct {
	Instructions string `json:"instructions" validate:"max=1000"`
	Replace      bool   `json:"replace"`
}

// GenerateItinerary asks the model for a day-by-day plan and stores the
// parsed items, Admin or Manager. With replace set, existing items are
// swapped out in the same transaction as the insert.
func GenerateItinerary(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can generate an itinerary")
		return
	}

	var input generateItineraryInput
	if ctx.GetContentLength() > 0 {
		if err := ctx.ReadJSON(&input); err != nil {
			utils.HandleValidationErrors(err, ctx)
			return
		}
	}

	durationDays, err := services.TripDurationDays(trip.StartDate, trip.EndDate)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Trip start and end dates must be set before generating an itinerary", ctx)
		return
	}

	prompt := services.BuildItineraryPrompt(trip, durationDays, input.Instructions)
	raw, err := services.GenerateText(prompt)
	if err != nil {
		log.Printf("itinerary generation failed for trip %d: %v", trip.ID, err)
		utils.CreateError(iris.StatusBadGateway, "Generation Failed", "The itinerary could not be generated, try again later", ctx)
		return
	}

	items, err := services.ParseGeneratedItinerary(raw, trip, user.ID)
	if err != nil {
		log.Printf("itinerary parse failed for trip %d: %v", trip.ID, err)
		utils.CreateError(iris.StatusBadGateway, "Generation Failed", "The generated itinerary could not be parsed, try again later", ctx)
		return
	}

	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if input.Replace {
			var existingIDs []uint
			tx.Model(&models.ItineraryItem{}).Where("trip_id = ?", trip.ID).Pluck("id", &existingIDs)
			if len(existingIDs) > 0 {
				if err := tx.Where("item_id IN ?", existingIDs).Delete(&models.ItineraryComment{}).Error; err != nil {
					return err
				}
				if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.ItineraryItem{}).Error; err != nil {
					return err
				}
			}
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "items": items, "generated": len(items)})
}
