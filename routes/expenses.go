package routes

import (
	"math"
	"net/http"

	"tripmate-server/models"
	"tripmate-server/services"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// ListExpenses returns the trip's expenses with splits, newest first, plus a
// per-member balance summary. Members only.
func ListExpenses(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip members can view expenses")
		return
	}

	var expenses []models.Expense
	storage.DB.Where("trip_id = ?", trip.ID).
		Preload("Payer").
		Preload("Splits").Preload("Splits.User").
		Order("created_at DESC").
		Find(&expenses)

	// balance per user: paid minus owed, positive means others owe them
	balances := map[uint]float64{}
	var total float64
	for _, e := range expenses {
		total += e.Amount
		balances[e.PaidBy] += e.Amount
		for _, s := range e.Splits {
			balances[s.UserID] -= s.Amount
		}
	}
	summary := make([]iris.Map, 0, len(balances))
	for userID, balance := range balances {
		summary = append(summary, iris.Map{
			"userID":  userID,
			"balance": math.Round(balance*100) / 100,
		})
	}

	ctx.JSON(iris.Map{
		"success":  true,
		"expenses": expenses,
		"total":    math.Round(total*100) / 100,
		"balances": summary,
	})
}

type createExpenseInput struct {
	Description  string           `json:"description" validate:"required,max=300"`
	Amount       float64          `json:"amount" validate:"required,gt=0"`
	Category     string           `json:"category" validate:"max=40"`
	PaidBy       uint             `json:"paidBy"`
	SplitType    string           `json:"splitType"`
	Participants []uint           `json:"participants"`
	SplitValues  map[uint]float64 `json:"splitValues"`
}

// CreateExpense records a shared cost, any active member. Participants
// default to every active member; the payer and all participants must be
// active members themselves.
func CreateExpense(ctx iris.Context) {
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
		utils.CreateForbidden(ctx, "Only trip members can add expenses")
		return
	}

	var input createExpenseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	paidBy := input.PaidBy
	if paidBy == 0 {
		paidBy = user.ID
	}

	var members []models.TripMember
	storage.DB.Where("trip_id = ? AND status = ?", trip.ID, services.MemberActive).Find(&members)
	activeIDs := map[uint]bool{}
	for _, m := range members {
		activeIDs[m.UserID] = true
	}
	if !activeIDs[paidBy] {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "The payer must be an active trip member", ctx)
		return
	}

	participants := input.Participants
	if len(participants) == 0 {
		for _, m := range members {
			participants = append(participants, m.UserID)
		}
	} else {
		for _, id := range participants {
			if !activeIDs[id] {
				utils.CreateError(iris.StatusBadRequest, "Validation Error", "All participants must be active trip members", ctx)
				return
			}
		}
	}

	shares, err := services.ComputeSplits(input.Amount, input.SplitType, participants, input.SplitValues)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	expense := models.Expense{
		TripID:      trip.ID,
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		PaidBy:      paidBy,
		CreatedBy:   user.ID,
	}
	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		for _, share := range shares {
			split := models.ExpenseSplit{
				ExpenseID:  expense.ID,
				UserID:     share.UserID,
				Amount:     share.Amount,
				Percentage: share.Percentage,
			}
			if err := tx.Create(&split).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("Payer").Preload("Splits").Preload("Splits.User").
		First(&expense, expense.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "expense": expense})
}

// DeleteExpense removes an expense and its splits. The recorder, the payer,
// and trip operators may do this.
func DeleteExpense(ctx iris.Context) {
	user := requireUser(ctx)
	if user == nil {
		return
	}
	trip := loadTrip(ctx)
	if trip == nil {
		return
	}

	expenseID, err := ctx.Params().GetUint("expenseID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var expense models.Expense
	if err := storage.DB.Where("id = ? AND trip_id = ?", expenseID, trip.ID).
		First(&expense).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	access := services.ResolveTripAccess(trip, user.ID)
	if expense.CreatedBy != user.ID && expense.PaidBy != user.ID && !access.CanOperate() {
		utils.CreateForbidden(ctx, "You can only delete expenses you recorded or paid for")
		return
	}

	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseSplit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&expense).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Expense deleted"})
}
