package main

import (
	"os"
	"tripmate-server/routes"
	"tripmate-server/storage"
	"tripmate-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	storage.InitializeDB()
	storage.InitializeCloudinary()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the web dashboard (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/search", accessTokenVerifierMiddleware, routes.SearchUsers)
		user.Get("/profile", accessTokenVerifierMiddleware, routes.GetMyProfile)
		user.Patch("/profile", accessTokenVerifierMiddleware, routes.UpdateMyProfile)
		user.Post("/profile/avatar", accessTokenVerifierMiddleware, routes.UploadAvatar)
	}

	trips := app.Party("/api/trips")
	{
		trips.Get("/", routes.ListTrips)
		trips.Get("/mine", accessTokenVerifierMiddleware, routes.ListMyTrips)
		trips.Post("/", accessTokenVerifierMiddleware, routes.CreateTrip)
		trips.Get("/{id:uint}", routes.GetTrip)
		trips.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateTrip)
		trips.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, routes.UpdateTripStatus)
		trips.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteTrip)
		trips.Post("/{id:uint}/cover", accessTokenVerifierMiddleware, routes.UploadTripCover)

		// Members
		trips.Get("/{id:uint}/members", accessTokenVerifierMiddleware, routes.ListTripMembers)
		trips.Patch("/{id:uint}/members/{userID:uint}/role", accessTokenVerifierMiddleware, routes.UpdateMemberRole)
		trips.Delete("/{id:uint}/members/{userID:uint}", accessTokenVerifierMiddleware, routes.RemoveTripMember)

		// Invite links
		trips.Post("/{id:uint}/invites", accessTokenVerifierMiddleware, routes.CreateTripInvite)
		trips.Get("/{id:uint}/invites", accessTokenVerifierMiddleware, routes.ListTripInvites)
		trips.Patch("/{id:uint}/invites/{inviteID:uint}", accessTokenVerifierMiddleware, routes.ToggleTripInvite)

		// Join requests
		trips.Post("/{id:uint}/join-requests", accessTokenVerifierMiddleware, routes.RequestToJoin)
		trips.Get("/{id:uint}/join-requests/mine", accessTokenVerifierMiddleware, routes.GetMyJoinRequest)
		trips.Get("/{id:uint}/join-requests", accessTokenVerifierMiddleware, routes.ListJoinRequests)
		trips.Patch("/{id:uint}/join-requests/{requestID:uint}", accessTokenVerifierMiddleware, routes.ReviewJoinRequest)

		// Itinerary
		trips.Get("/{id:uint}/cities", routes.ListTripCities)
		trips.Post("/{id:uint}/cities", accessTokenVerifierMiddleware, routes.CreateTripCity)
		trips.Put("/{id:uint}/cities/reorder", accessTokenVerifierMiddleware, routes.ReorderTripCities)
		trips.Patch("/{id:uint}/cities/{cityID:uint}", accessTokenVerifierMiddleware, routes.UpdateTripCity)
		trips.Delete("/{id:uint}/cities/{cityID:uint}", accessTokenVerifierMiddleware, routes.DeleteTripCity)

		trips.Get("/{id:uint}/itinerary", routes.ListItinerary)
		trips.Post("/{id:uint}/itinerary", accessTokenVerifierMiddleware, routes.CreateItineraryItem)
		trips.Patch("/{id:uint}/itinerary/{itemID:uint}", accessTokenVerifierMiddleware, routes.UpdateItineraryItem)
		trips.Delete("/{id:uint}/itinerary/{itemID:uint}", accessTokenVerifierMiddleware, routes.DeleteItineraryItem)
		trips.Post("/{id:uint}/itinerary/generate", accessTokenVerifierMiddleware, routes.GenerateItinerary)
		trips.Get("/{id:uint}/itinerary/{itemID:uint}/comments", accessTokenVerifierMiddleware, routes.ListItemComments)
		trips.Post("/{id:uint}/itinerary/{itemID:uint}/comments", accessTokenVerifierMiddleware, routes.CreateItemComment)
		trips.Delete("/{id:uint}/itinerary/{itemID:uint}/comments/{commentID:uint}", accessTokenVerifierMiddleware, routes.DeleteItemComment)

		// Expenses
		trips.Get("/{id:uint}/expenses", accessTokenVerifierMiddleware, routes.ListExpenses)
		trips.Post("/{id:uint}/expenses", accessTokenVerifierMiddleware, routes.CreateExpense)
		trips.Delete("/{id:uint}/expenses/{expenseID:uint}", accessTokenVerifierMiddleware, routes.DeleteExpense)

		// Chat
		trips.Post("/{id:uint}/chat-files", accessTokenVerifierMiddleware, routes.UploadChatFile)
		trips.Get("/{id:uint}/messages", accessTokenVerifierMiddleware, routes.ListMessages)
		trips.Post("/{id:uint}/messages", accessTokenVerifierMiddleware, routes.SendMessage)
		trips.Delete("/{id:uint}/messages/{messageID:uint}", accessTokenVerifierMiddleware, routes.DeleteMessage)

		// Reviews
		trips.Get("/{id:uint}/reviews", routes.ListReviews)
		trips.Post("/{id:uint}/reviews", accessTokenVerifierMiddleware, routes.CreateReview)
		trips.Patch("/{id:uint}/reviews/{reviewID:uint}", accessTokenVerifierMiddleware, routes.UpdateReview)
		trips.Delete("/{id:uint}/reviews/{reviewID:uint}", accessTokenVerifierMiddleware, routes.DeleteReview)
	}

	invites := app.Party("/api/invites")
	{
		invites.Get("/{code:string}", routes.ResolveInvite)
		invites.Post("/{code:string}/redeem", accessTokenVerifierMiddleware, routes.RedeemInvite)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notifications.Get("/", routes.ListNotifications)
		notifications.Patch("/{notificationID:uint}/read", routes.MarkNotificationRead)
		notifications.Patch("/read-all", routes.MarkAllNotificationsRead)
		notifications.Delete("/{notificationID:uint}", routes.DeleteNotification)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/stats", routes.GetPlatformStats)
		admin.Get("/activity", routes.GetRecentActivity)
		admin.Get("/users", routes.ListAllUsers)
		admin.Patch("/users/{userID:uint}/role", utils.SuperAdminOnlyMiddleware, routes.UpdateUserRole)
		admin.Get("/trips", routes.ListAllTrips)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
