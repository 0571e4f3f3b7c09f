package main

import (
	"log"
	"strconv"

	"appreciatemate/config"
	"appreciatemate/controllers"
	"appreciatemate/db"
	"appreciatemate/internal/ratelimit"
	"appreciatemate/middlewares"
	"appreciatemate/routes"
	"appreciatemate/services"
	"appreciatemate/utils"
	"appreciatemate/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")
	defer db.DisconnectMongoDB()

	// Redis backs the per-user stats lock and the appreciation rate
	// limiter; both degrade to in-process behavior without it.
	if cfg.Redis.Addr != "" {
		if err := ratelimit.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Printf("Redis unavailable, using in-process locks: %v", err)
		}
	}

	if err := services.InitGeminiService(cfg.Gemini.ApiKey); err != nil {
		log.Printf("Gemini unavailable, AI features will use fallbacks: %v", err)
	}

	store := db.NewStore()
	services.InitGamificationService(store, ratelimit.NewUserLock())
	controllers.Init(store)

	// Seed catalog data
	utils.SeedCategories()
	utils.SeedAchievements()

	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	allowOrigins := cfg.CORS.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	// Public routes for authentication
	router.POST("/signup", routes.SignupRouteHandler)
	router.POST("/login", routes.LoginRouteHandler)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/user/profile", routes.GetProfileRouteHandler)
		auth.PUT("/user/profile", routes.UpdateProfileRouteHandler)

		auth.POST("/activities", routes.CreateActivityRouteHandler)
		auth.GET("/activities", routes.GetActivitiesRouteHandler)
		auth.GET("/categories", routes.GetCategoriesRouteHandler)

		auth.POST("/appreciations", routes.SendAppreciationRouteHandler)
		auth.GET("/appreciations", routes.GetReceivedAppreciationsRouteHandler)

		auth.GET("/gamification/stats", routes.GetStatsRouteHandler)
		auth.GET("/gamification/achievements", routes.GetAchievementsRouteHandler)
		auth.POST("/gamification/achievements/acknowledge", routes.AcknowledgeAchievementsRouteHandler)
		auth.GET("/gamification/milestones", routes.GetMilestonesRouteHandler)
		auth.GET("/leaderboard", routes.GetLeaderboardRouteHandler)

		auth.POST("/ai/suggestions", routes.GetSuggestionsRouteHandler)
		auth.GET("/ai/insights", routes.GetInsightsRouteHandler)

		// WebSocket endpoint for celebration events
		auth.GET("/ws/gamification", websocket.GamificationWebSocketHandler)
	}

	return router
}
