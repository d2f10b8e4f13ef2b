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

// ListTripCities returns the trip's cities in route order. Viewable by
// members, or by anyone for a public trip.
func ListTripCities(ctx iris.Context) {
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

	var cities []models.TripCity
	storage.DB.Where("trip_id = ?", trip.ID).
		Order("order_index ASC").
		Find(&cities)

	ctx.JSON(iris.Map{"success": true, "cities": cities})
}

// nextCityOrder places a new city after every existing one, so inserts never
// collide with manually assigned indexes.
func nextCityOrder(cities []models.TripCity) int {
	next := 0
	for _, c := range cities {
		if c.OrderIndex >= next {
			next = c.OrderIndex + 1
		}
	}
	return next
}

type tripCityInput struct {
	CityName      string `json:"cityName" validate:"required,max=120"`
	Country       string `json:"country" validate:"max=120"`
	ArrivalDate   string `json:"arrivalDate" validate:"omitempty,datetime=2006-01-02"`
	DepartureDate string `json:"departureDate" validate:"omitempty,datetime=2006-01-02"`
	Notes         string `json:"notes" validate:"max=1000"`
}

// CreateTripCity appends a city to the route, Admin or Manager. New cities
// land at the end of the current order.
func CreateTripCity(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can edit cities")
		return
	}

	var input tripCityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing []models.TripCity
	storage.DB.Where("trip_id = ?", trip.ID).Find(&existing)

	city := models.TripCity{
		TripID:        trip.ID,
		CityName:      input.CityName,
		Country:       input.Country,
		OrderIndex:    nextCityOrder(existing),
		ArrivalDate:   input.ArrivalDate,
		DepartureDate: input.DepartureDate,
		Notes:         input.Notes,
	}
	if err := storage.DB.Create(&city).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "city": city})
}

func loadTripCity(ctx iris.Context, tripID uint) *models.TripCity {
	cityID, err := ctx.Params().GetUint("cityID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return nil
	}
	var city models.TripCity
	if err := storage.DB.Where("id = ? AND trip_id = ?", cityID, tripID).
		First(&city).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &city
}

type updateTripCityInput struct {
	CityName      *string `json:"cityName"`
	Country       *string `json:"country"`
	OrderIndex    *int    `json:"orderIndex"`
	ArrivalDate   *string `json:"arrivalDate"`
	DepartureDate *string `json:"departureDate"`
	Notes         *string `json:"notes"`
}

// UpdateTripCity edits a single city, Admin or Manager.
func UpdateTripCity(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can edit cities")
		return
	}

	city := loadTripCity(ctx, trip.ID)
	if city == nil {
		return
	}

	var input updateTripCityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.CityName != nil {
		if *input.CityName == "" {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "cityName cannot be empty", ctx)
			return
		}
		updates["city_name"] = *input.CityName
	}
	if input.Country != nil {
		updates["country"] = *input.Country
	}
	if input.OrderIndex != nil {
		updates["order_index"] = *input.OrderIndex
	}
	if input.ArrivalDate != nil {
		updates["arrival_date"] = *input.ArrivalDate
	}
	if input.DepartureDate != nil {
		updates["departure_date"] = *input.DepartureDate
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) > 0 {
		if err := storage.DB.Model(city).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(iris.Map{"success": true, "city": city})
}

type reorderCitiesInput struct {
	CityIDs []uint `json:"cityIDs" validate:"required,min=1"`
}

// ReorderTripCities rewrites the order of every listed city to its position
// in the submitted array, Admin or Manager. IDs that do not belong to the
// trip are rejected.
func ReorderTripCities(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can edit cities")
		return
	}

	var input reorderCitiesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var count int64
	storage.DB.Model(&models.TripCity{}).
		Where("trip_id = ? AND id IN ?", trip.ID, input.CityIDs).
		Count(&count)
	if count != int64(len(input.CityIDs)) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "cityIDs must all belong to this trip", ctx)
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		for position, cityID := range input.CityIDs {
			if err := tx.Model(&models.TripCity{}).
				Where("id = ? AND trip_id = ?", cityID, trip.ID).
				Update("order_index", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var cities []models.TripCity
	storage.DB.Where("trip_id = ?", trip.ID).
		Order("order_index ASC").
		Find(&cities)

	ctx.JSON(iris.Map{"success": true, "cities": cities})
}

// DeleteTripCity removes a city, Admin or Manager. The last city on a trip
// cannot be removed.
func DeleteTripCity(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip admins and managers can edit cities")
		return
	}

	city := loadTripCity(ctx, trip.ID)
	if city == nil {
		return
	}

	var count int64
	storage.DB.Model(&models.TripCity{}).Where("trip_id = ?", trip.ID).Count(&count)
	if count <= 1 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "A trip must keep at least one city", ctx)
		return
	}

	if err := storage.DB.Delete(city).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "City removed"})
}
