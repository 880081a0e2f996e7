package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/config"
	"github.com/ucbtransport/reservation-backend/internal/database"
	"github.com/ucbtransport/reservation-backend/internal/handlers"
	"github.com/ucbtransport/reservation-backend/internal/middleware"
	"github.com/ucbtransport/reservation-backend/internal/services"
	"github.com/ucbtransport/reservation-backend/pkg/jwt"
	"github.com/ucbtransport/reservation-backend/pkg/ticket"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting UCB Transport Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Departure times are interpreted in the campus timezone
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		logger.Fatalf("Failed to load booking timezone: %v", err)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	tripRepo := database.NewTripRepository(db)
	studentRepo := database.NewStudentRepository(db)
	reservationRepo := database.NewReservationRepository(db)
	auditLogRepo := database.NewAuditLogRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	ticketGenerator := ticket.NewGenerator(cfg.Booking.TicketPrefix)
	auditService := services.NewAuditService(auditLogRepo, cfg.Security.EnableAuditLog, logger)
	bookingService := services.NewBookingService(
		reservationRepo,
		ticketGenerator,
		auditService,
		cfg.Booking,
		loc,
		logger,
	)
	lifecycleService := services.NewLifecycleService(
		reservationRepo,
		tripRepo,
		auditService,
		cfg.Booking.CancelCutoff,
		loc,
		logger,
	)
	availabilityService := services.NewAvailabilityService(tripRepo, reservationRepo)
	queryService := services.NewQueryService(reservationRepo, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	tripHandler := handlers.NewTripHandler(tripRepo, availabilityService, loc, logger)
	bookingHandler := handlers.NewBookingHandler(
		bookingService,
		lifecycleService,
		queryService,
		reservationRepo,
		logger,
	)
	adminHandler := handlers.NewAdminReservationHandler(queryService, lifecycleService, logger)
	profileHandler := handlers.NewProfileHandler(studentRepo, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public trip listing
		v1.GET("/trips", tripHandler.GetBookableTrips)
		v1.GET("/trips/:id", tripHandler.GetTrip)

		// Student routes (protected)
		v1.GET("/me",
			middleware.AuthMiddleware(jwtService),
			middleware.RequireRole(jwt.RoleStudent),
			profileHandler.GetProfile,
		)

		reservations := v1.Group("/reservations")
		reservations.Use(middleware.AuthMiddleware(jwtService))
		reservations.Use(middleware.RequireRole(jwt.RoleStudent))
		{
			reservations.POST("", bookingHandler.Create)
			reservations.GET("", bookingHandler.ListMine)
			reservations.GET("/:id", bookingHandler.GetByID)
			reservations.POST("/:id/cancel", bookingHandler.Cancel)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireRole(jwt.RoleAdmin))
		{
			admin.GET("/trips", tripHandler.ListTrips)
			admin.GET("/reservations", adminHandler.List)
			admin.POST("/reservations/:id/validate", adminHandler.Validate)
			admin.POST("/reservations/:id/use", adminHandler.Use)
			admin.POST("/reservations/:id/cancel", adminHandler.Cancel)
			admin.POST("/scan", adminHandler.Scan)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userID, exists := c.Get(middleware.ContextUserID); exists {
			fields["user_id"] = userID
		}
		if role, exists := c.Get(middleware.ContextRole); exists {
			fields["role"] = role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
