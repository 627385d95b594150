package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huey-app/huey/board"
	"github.com/huey-app/huey/config"
	"github.com/huey-app/huey/controllers"
	"github.com/huey-app/huey/middlewares"
	"github.com/huey-app/huey/models"
	"github.com/huey-app/huey/repository"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

// Dependencies are the long-lived objects the HTTP layer is built from. Hub
// and Blacklist get in-memory defaults when nil.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Hub       *board.Hub
	Blacklist utils.TokenBlacklist
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if deps.Hub == nil {
		deps.Hub = board.NewHub()
	}
	if deps.Blacklist == nil {
		deps.Blacklist = utils.NewMemoryBlacklist()
	}

	store := repository.NewStore(deps.DB)
	jwt := utils.NewJWTManager(cfg.Secret(), cfg.SessionTTL)

	waitlistService := services.NewWaitlistService(store, deps.Hub)
	directoryService := services.NewDirectoryService(store)
	registrationService := services.NewRegistrationService(store)
	authService := services.NewAuthService(store, jwt, deps.Blacklist)

	restaurantCtrl := controllers.NewRestaurantController(directoryService)
	waitlistCtrl := controllers.NewWaitlistController(waitlistService)
	userCtrl := controllers.NewUserController(registrationService, authService, controllers.SessionCookie{
		Name:   cfg.SessionCookie,
		Secure: cfg.CookieSecure,
	})
	adminCtrl := controllers.NewAdminController(directoryService, waitlistService)
	boardCtrl := controllers.NewBoardController(deps.Hub, directoryService, cfg.CORSOrigins)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	r.Use(middlewares.SecurityHeaders(cfg.CookieSecure))

	session := middlewares.AuthMiddleware(authService, cfg.SessionCookie)
	ownerOnly := middlewares.RequireRole(models.RoleOwner)
	strict := middlewares.NewRateLimiter(cfg.RateLimitPerMin).RateLimit()

	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})

	r.GET("/restaurants", restaurantCtrl.ListRestaurants)
	r.GET("/restaurants/:id", restaurantCtrl.GetRestaurant)

	r.POST("/register", strict, userCtrl.Register)

	auth := r.Group("/auth")
	{
		auth.POST("/login", strict, userCtrl.Login)
		auth.POST("/logout", session, userCtrl.Logout)
		auth.GET("/me", session, userCtrl.Me)
	}

	waitlist := r.Group("/waitlist")
	{
		waitlist.POST("", waitlistCtrl.CreateEntry)
		waitlist.GET("", waitlistCtrl.ListEntries)
		waitlist.GET("/:id", waitlistCtrl.GetEntry)
		waitlist.PUT("/:id", session, ownerOnly, waitlistCtrl.UpdateEntry)
		waitlist.DELETE("/:id", session, ownerOnly, waitlistCtrl.DeleteEntry)
	}

	admin := r.Group("/admin", session, ownerOnly)
	{
		admin.GET("/restaurant", adminCtrl.GetRestaurant)
		admin.PATCH("/restaurant", adminCtrl.UpdateRestaurant)
		admin.GET("/waitlist", adminCtrl.ListWaitlist)
		admin.GET("/waitlist/stats", adminCtrl.WaitlistStats)
	}

	r.GET("/ws/board", middlewares.WebSocketAuthMiddleware(authService), ownerOnly, boardCtrl.Connect)

	return r
}
