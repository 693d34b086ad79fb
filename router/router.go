package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/controllers"
	"github.com/tay1862/mefood-tay-sub002/middlewares"
	"github.com/tay1862/mefood-tay-sub002/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	qrCtrl := controllers.NewQRSessionController(db)
	sessionCtrl := controllers.NewCustomerSessionController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	staffCallCtrl := controllers.NewStaffCallController(db)
	musicCtrl := controllers.NewMusicRequestController(db)
	dashboardCtrl := controllers.NewDashboardController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------

	// Login/register behind the strict limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Customer QR surface, token-scoped, no login. Rate limited per IP.
	qrLimiter := middlewares.NewRateLimiter(30, 1)
	qr := r.Group("/qr")
	qr.Use(qrLimiter.RateLimit())
	{
		qr.POST("/tables/:table_id/scan", qrCtrl.ScanTable)
		qr.GET("/session", qrCtrl.GetSession)
		qr.GET("/menus", menuCtrl.GetAllMenus)
		qr.GET("/categories", categoryCtrl.GetAllCategories)
		qr.POST("/orders", orderCtrl.CreateOrder)
		qr.GET("/orders", orderCtrl.GetSessionOrders)
		qr.POST("/staff-calls", staffCallCtrl.CreateStaffCall)
		qr.POST("/music-requests", musicCtrl.CreateMusicRequest)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/users", middlewares.RequireRole(), userCtrl.GetAllUsers)
	auth.POST("/users", middlewares.RequireRole(), userCtrl.RegisterStaff)

	// TABLES (owner manages layout; staff may read)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.POST("/tables", middlewares.RequireRole(), tableCtrl.CreateTable)
	auth.PATCH("/tables/:table_id", middlewares.RequireRole(), tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", middlewares.RequireRole(), tableCtrl.DeactivateTable)

	// Table maintenance
	auth.POST("/tables/merge", middlewares.RequireRole(models.RoleStaff), tableCtrl.MergeTables)
	auth.POST("/tables/move", middlewares.RequireRole(models.RoleStaff), tableCtrl.MoveTable)
	auth.POST("/qr-sessions/end", middlewares.RequireRole(models.RoleStaff), qrCtrl.EndSession)

	// CUSTOMER SESSIONS (front of house)
	auth.GET("/sessions", sessionCtrl.GetAllSessions)
	auth.POST("/sessions", middlewares.RequireRole(models.RoleStaff), sessionCtrl.CheckIn)
	auth.POST("/sessions/:session_id/seat", middlewares.RequireRole(models.RoleStaff), sessionCtrl.Seat)
	auth.PATCH("/sessions/:session_id", middlewares.RequireRole(models.RoleStaff), sessionCtrl.UpdateStatus)
	auth.POST("/sessions/:session_id/checkout", middlewares.RequireRole(models.RoleStaff), sessionCtrl.Checkout)
	auth.DELETE("/sessions/:session_id", middlewares.RequireRole(models.RoleStaff), sessionCtrl.Remove)

	// MENU
	auth.GET("/categories", categoryCtrl.GetAllCategories)
	auth.POST("/categories", middlewares.RequireRole(), categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", middlewares.RequireRole(), categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", middlewares.RequireRole(), categoryCtrl.DeleteCategory)

	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.POST("/menus", middlewares.RequireRole(), menuCtrl.CreateMenu)
	auth.PATCH("/menus/:menu_id", middlewares.RequireRole(), menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", middlewares.RequireRole(), menuCtrl.DeleteMenu)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.POST("/orders/:order_id/items", middlewares.RequireRole(models.RoleStaff), orderCtrl.AddItem)
	auth.DELETE("/orders/:order_id/items/:item_id", middlewares.RequireRole(models.RoleStaff), orderCtrl.RemoveItem)
	auth.PATCH("/orders/:order_id/status", middlewares.RequireRole(models.RoleStaff, models.RoleCook), orderCtrl.UpdateStatus)
	auth.POST("/orders/:order_id/cancel", middlewares.RequireRole(models.RoleStaff), orderCtrl.CancelOrder)
	auth.GET("/kitchen/display", middlewares.RequireRole(models.RoleStaff, models.RoleCook), orderCtrl.GetKitchenDisplay)

	// SIDE CHANNELS
	auth.GET("/staff-calls", staffCallCtrl.GetStaffCalls)
	auth.PATCH("/staff-calls/:call_id", middlewares.RequireRole(models.RoleStaff), staffCallCtrl.UpdateStaffCall)
	auth.GET("/music-requests", musicCtrl.GetMusicRequests)
	auth.PATCH("/music-requests/:request_id", middlewares.RequireRole(models.RoleStaff), musicCtrl.UpdateMusicRequest)

	// DASHBOARD
	auth.GET("/dashboard/stats", dashboardCtrl.GetDashboardStats)

	// Events websocket; token rides the query string.
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/events", controllers.EventsHandler)
	}

	return r
}
