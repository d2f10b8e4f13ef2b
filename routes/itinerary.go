package routes

import (
	"net/http"
	"regexp"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ListItinerary returns the trip's items ordered day, time, order index.
// Viewable by members, or by anyone for a public trip.
func ListItinerary(ctx iris.Context) {
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

	var items []models.ItineraryItem
	storage.DB.Where("trip_id = ?", trip.ID).
		Order("day ASC, time ASC, order_index ASC").
		Find(&items)

	ctx.JSON(iris.Map{"success": true, "items": items})
}

type itineraryItemInput struct {
	Day             int    `json:"day" validate:"required,min=1"`
	Time            string `json:"time"`
	OrderIndex      int    `json:"orderIndex"`
	Title           string `json:"title" validate:"required,max=160"`
	Description     string `json:"description" validate:"max=2000"`
	Location        string `json:"location" validate:"max=200"`
	DurationMinutes *int   `json:"durationMinutes"`
	CostEstimate    string `json:"costEstimate" validate:"max=80"`
	BookingURL      string `json:"bookingURL" validate:"max=512"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// CreateItineraryItem adds an item, Admin or Manager. The calendar date is
// derived from the day number against the trip start date.
func CreateItineraryItem(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can edit the itinerary")
		return
	}

	var input itineraryItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Time != "" && !timeOfDayPattern.MatchString(input.Time) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "time must be HH:MM in 24-hour format", ctx)
		return
	}

	date, err := services.ItineraryDateForDay(trip.StartDate, input.Day)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	item := models.ItineraryItem{
		TripID:          trip.ID,
		Day:             input.Day,
		Date:            date,
		Time:            input.Time,
		OrderIndex:      input.OrderIndex,
		Title:           input.Title,
		Description:     input.Description,
		Location:        input.Location,
		DurationMinutes: input.DurationMinutes,
		CostEstimate:    input.CostEstimate,
		BookingURL:      input.BookingURL,
		Notes:           input.Notes,
		CreatedBy:       user.ID,
	}
	if err := storage.DB.Create(&item).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "item": item})
}

func loadItineraryItem(ctx iris.Context, tripID uint) *models.ItineraryItem {
	itemID, err := ctx.Params().GetUint("itemID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return nil
	}
	var item models.ItineraryItem
	if err := storage.DB.Where("id = ? AND trip_id = ?", itemID, tripID).
		First(&item).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &item
}

type updateItineraryItemInput struct {
	Day             *int    `json:"day"`
	Time            *string `json:"time"`
	OrderIndex      *int    `json:"orderIndex"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	DurationMinutes *int    `json:"durationMinutes"`
	CostEstimate    *string `json:"costEstimate"`
	BookingURL      *string `json:"bookingURL"`
	Notes           *string `json:"notes"`
}

// UpdateItineraryItem edits an item, Admin or Manager. Moving the item to a
// different day also recomputes its stored date.
func UpdateItineraryItem(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can edit the itinerary")
		return
	}

	item := loadItineraryItem(ctx, trip.ID)
	if item == nil {
		return
	}

	var input updateItineraryItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Day != nil {
		date, err := services.ItineraryDateForDay(trip.StartDate, *input.Day)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		updates["day"] = *input.Day
		updates["date"] = date
	}
	if input.Time != nil {
		if *input.Time != "" && !timeOfDayPattern.MatchString(*input.Time) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "time must be HH:MM in 24-hour format", ctx)
			return
		}
		updates["time"] = *input.Time
	}
	if input.OrderIndex != nil {
		updates["order_index"] = *input.OrderIndex
	}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.CostEstimate != nil {
		updates["cost_estimate"] = *input.CostEstimate
	}
	if input.BookingURL != nil {
		updates["booking_url"] = *input.BookingURL
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "No valid fields to update", ctx)
		return
	}

	if err := storage.DB.Model(item).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "item": item})
}

// DeleteItineraryItem removes an item and its comments, Admin or Manager.
func DeleteItineraryItem(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can edit the itinerary")
		return
	}

	item := loadItineraryItem(ctx, trip.ID)
	if item == nil {
		return
	}

	storage.DB.Where("item_id = ?", item.ID).Delete(&models.ItineraryComment{})
	if err := storage.DB.Delete(item).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Item deleted"})
}
