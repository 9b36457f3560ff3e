package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/amanmukri03/trello-backend/internal/config"
	"github.com/amanmukri03/trello-backend/internal/constants"
	"github.com/amanmukri03/trello-backend/internal/database"
	"github.com/amanmukri03/trello-backend/internal/handlers"
	"github.com/amanmukri03/trello-backend/internal/middleware"
	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/amanmukri03/trello-backend/internal/realtime"
	"github.com/amanmukri03/trello-backend/internal/repository"
	"github.com/amanmukri03/trello-backend/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// The broadcaster is constructed here and handed to each service;
	// there is no package-level instance.
	hub := realtime.NewHub()

	// Services
	authService := services.NewAuthService(userRepo)
	boardService := services.NewBoardService(boardRepo)
	columnService := services.NewColumnService(columnRepo, boardRepo, hub)
	taskService := services.NewTaskService(taskRepo, boardRepo, userRepo, hub)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	boardHandler := handlers.NewBoardHandler(boardService)
	columnHandler := handlers.NewColumnHandler(columnService)
	taskHandler := handlers.NewTaskHandler(taskService)

	managers := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Board API is running",
		})
	})

	// Realtime channel
	r.GET("/ws", middleware.RequireAuth(), func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		hub.ServeWS(c, userID)
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(middleware.RequireAuth())
		{
			boards.POST("", managers, boardHandler.CreateBoard)
			boards.GET("", boardHandler.ListBoards)
			boards.PUT("/:id", managers, boardHandler.UpdateBoard)
			boards.DELETE("/:id", managers, boardHandler.DeleteBoard)
		}

		// Column routes (protected); GET /:id lists by board id
		columns := api.Group("/columns")
		columns.Use(middleware.RequireAuth())
		{
			columns.POST("", managers, columnHandler.CreateColumn)
			columns.GET("/:id", columnHandler.ListColumns)
			columns.PUT("/:id", managers, columnHandler.UpdateColumn)
			columns.DELETE("/:id", managers, columnHandler.DeleteColumn)
		}

		// Task routes (protected); GET /:id lists by board id, role checks
		// live in the service layer
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.ListTasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/start-timer", taskHandler.StartTimer)
			tasks.POST("/:id/stop-timer", taskHandler.StopTimer)
			tasks.GET("/:id/timer", taskHandler.GetTimerStatus)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
