package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/praditya/boardgame-venue/controllers"
	"github.com/praditya/boardgame-venue/middlewares"
	"github.com/praditya/boardgame-venue/replication"
	"github.com/praditya/boardgame-venue/services"
	"github.com/praditya/boardgame-venue/store"
)

func SetupRouter(st *store.Store, collabDB *gorm.DB, hub *replication.Hub, sessionSvc *services.SessionService) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	operatorCtrl := controllers.NewOperatorController(collabDB, st)
	tableCtrl := controllers.NewTableController(st, hub)
	sessionCtrl := controllers.NewSessionController(sessionSvc)
	paymentCtrl := controllers.NewPaymentController(st)
	promotionCtrl := controllers.NewPromotionController(st)
	customerCtrl := controllers.NewCustomerController(st, hub)
	gameCtrl := controllers.NewGameController(st, hub)
	reservationCtrl := controllers.NewReservationController(st, hub)
	activityCtrl := controllers.NewActivityLogController(st)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", operatorCtrl.Register)
		public.POST("/login", operatorCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	// Kanal replikasi antar terminal
	auth.GET("/replication/ws", controllers.TerminalHandler(hub))

	auth.POST("/logout", operatorCtrl.Logout)
	auth.GET("/profile", operatorCtrl.GetProfile)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	auth.POST("/tables/reset", middlewares.RequireRole("admin"), tableCtrl.ResetTables)

	// SESSIONS
	auth.GET("/sessions", sessionCtrl.GetAllSessions)
	auth.POST("/sessions", sessionCtrl.StartSession)
	auth.GET("/sessions/:session_id", sessionCtrl.GetSessionByID)
	auth.PATCH("/sessions/:session_id", sessionCtrl.UpdateSession)
	auth.POST("/sessions/:session_id/end", sessionCtrl.EndSession)
	auth.POST("/sessions/:session_id/cancel", sessionCtrl.CancelSession)

	// PAYMENTS
	auth.GET("/payments", paymentCtrl.GetPayments)
	auth.GET("/payments/:payment_id", paymentCtrl.GetPayment)

	// PROMOTIONS (admin/owner)
	auth.GET("/promotions", promotionCtrl.GetAllPromotions)
	auth.GET("/promotions/active", promotionCtrl.GetActivePromotion)
	auth.POST("/promotions", middlewares.RequireRole("admin"), promotionCtrl.CreatePromotion)
	auth.PATCH("/promotions/:promotion_id", middlewares.RequireRole("admin"), promotionCtrl.UpdatePromotion)
	auth.DELETE("/promotions/:promotion_id", middlewares.RequireRole("admin"), promotionCtrl.DeletePromotion)

	// CUSTOMERS
	auth.GET("/customers", customerCtrl.GetAllCustomers)
	auth.POST("/customers", customerCtrl.CreateCustomer)
	auth.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	auth.PATCH("/customers/:customer_id", customerCtrl.UpdateCustomer)
	auth.DELETE("/customers/:customer_id", customerCtrl.DeleteCustomer)

	// GAMES
	auth.GET("/games", gameCtrl.GetAllGames)
	auth.POST("/games", gameCtrl.CreateGame)

	// RESERVATIONS
	auth.GET("/reservations", reservationCtrl.GetAllReservations)
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)

	// ACTIVITY LOGS
	auth.GET("/activity-logs", activityCtrl.GetAllActivityLogs)

	return r
}
