package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"store_rating/internal/controller"
	"store_rating/internal/metrics"
	"store_rating/internal/middleware"
	"store_rating/internal/policy"

	_ "store_rating/docs"
)

// Controllers groups every HTTP handler set.
type Controllers struct {
	Auth   *controller.AuthController
	User   *controller.UserController
	Store  *controller.StoreController
	Rating *controller.RatingController
	Health *controller.HealthController
}

// Options engine-level settings.
type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	// AuthLimiter throttles register and login per client IP. nil disables it.
	AuthLimiter *middleware.ClientRateLimiter
	// Users resolves the stored role of the caller on every secured request.
	// nil trusts the role inside the token.
	Users middleware.UserLookup
}

// SetupRouter builds the gin engine with the global middleware chain and all routes.
func SetupRouter(opts Options, ctls *Controllers) *gin.Engine {
	RegisterValidators()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.CORS(opts.AllowedOrigins...),
	)

	r.GET("/health", ctls.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	// http://localhost:5000/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	InitRoutes(r, ctls, opts.AuthLimiter, opts.Users)
	return r
}

// InitRoutes registers the /api routes. Coarse role checks happen here through
// RequireAction; ownership checks happen in the services.
func InitRoutes(r *gin.Engine, ctls *Controllers, authLimiter *middleware.ClientRateLimiter, users middleware.UserLookup) {
	api := r.Group("/api")

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if authLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.RateLimit(authLimiter), h}
	}

	// auth, public part
	auth := api.Group("/auth")
	{
		auth.POST("/register", limited(ctls.Auth.Register)...)
		auth.POST("/login", limited(ctls.Auth.Login)...)
		auth.POST("/refresh", ctls.Auth.RefreshToken)
	}

	secured := api.Group("", middleware.JWTAuth())
	if users != nil {
		secured.Use(middleware.CurrentRole(users))
	}
	secured.Use(middleware.AuditContext())

	// auth, own account
	profile := secured.Group("/auth")
	{
		profile.GET("/profile", ctls.Auth.GetProfile)
		profile.PUT("/profile", middleware.RequireAction(policy.ActionUpdateOwnProfile), ctls.Auth.UpdateProfile)
		profile.PUT("/password", middleware.RequireAction(policy.ActionUpdateOwnProfile), ctls.Auth.ChangePassword)
	}

	// users, admin only
	userRoutes := secured.Group("/users", middleware.RequireAction(policy.ActionManageUsers))
	{
		userRoutes.GET("", ctls.User.ListUsers)
		userRoutes.POST("", ctls.User.CreateUser)
		userRoutes.GET("/:id", ctls.User.GetUser)
		userRoutes.PUT("/:id", ctls.User.UpdateUser)
		userRoutes.PUT("/:id/password", ctls.User.ResetPassword)
	}

	// stores
	stores := secured.Group("/stores")
	{
		browse := middleware.RequireAction(policy.ActionBrowseStores)
		manage := middleware.RequireAction(policy.ActionManageStores)
		owned := middleware.RequireAction(policy.ActionViewOwnedStoreRatings)

		stores.GET("", browse, ctls.Store.ListStores)
		stores.POST("", manage, ctls.Store.CreateStore)
		stores.GET("/owned", owned, ctls.Store.OwnedStores)
		stores.GET("/:id", browse, ctls.Store.GetStore)
		stores.PUT("/:id", manage, ctls.Store.UpdateStore)
		stores.GET("/:id/average", browse, ctls.Store.StoreAverage)
		stores.GET("/:id/ratings", owned, ctls.Store.StoreRatings)
	}

	// ratings
	ratings := secured.Group("/ratings")
	{
		ownRatings := middleware.RequireAction(policy.ActionViewOwnRatings)

		ratings.POST("", middleware.RequireAction(policy.ActionSubmitRating), ctls.Rating.SubmitRating)
		ratings.GET("/stats", middleware.RequireAction(policy.ActionViewAllStats), ctls.Rating.PlatformStats)
		ratings.GET("/user", ownRatings, ctls.Rating.MyRatings)
		ratings.GET("/user/:id", ownRatings, ctls.Rating.UserRatings)
		ratings.GET("/summary", ownRatings, ctls.Rating.Summary)
	}
}
