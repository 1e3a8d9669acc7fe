package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pawsitter-api/config"
	"github.com/kendall-kelly/pawsitter-api/controllers"
	"github.com/kendall-kelly/pawsitter-api/logger"
	"github.com/kendall-kelly/pawsitter-api/metrics"
	"github.com/kendall-kelly/pawsitter-api/middleware"
	"github.com/kendall-kelly/pawsitter-api/models"
	"github.com/kendall-kelly/pawsitter-api/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	config.SetConfig(cfg)

	logger.Init(cfg.GoEnv, cfg.LogLevel)
	log.Info().Str("env", cfg.GoEnv).Msg("starting Pawsitter API server")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.MustRegister()

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := models.Migrate(config.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Msg("database migration completed successfully")

	services.SetUserInfoFetcher(services.NewAuth0Service(cfg))

	if cfg.PhotoStorageEnabled() {
		s3Service, err := services.NewS3Service(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 service")
		}
		services.SetImageService(services.NewS3ImageService(s3Service))
		log.Info().Str("bucket", cfg.AWSS3Bucket).Msg("supplier photo storage enabled")
	} else {
		log.Info().Msg("AWS_S3_BUCKET not set, supplier photo uploads disabled")
	}

	router := newRouter(cfg, middleware.EnsureValidToken(cfg))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if sqlDB, err := config.GetDB().DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}
}

// newRouter wires every route. requireAuth guards everything except the
// liveness, health and metrics endpoints.
func newRouter(cfg *config.Config, requireAuth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
	)

	router.GET("/ping", ping)
	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/", requireAuth)
	{
		api.POST("/verify-user", controllers.VerifyUser)
		api.GET("/me", controllers.GetMe)
		api.GET("/user/:id", controllers.GetUser)
		api.PUT("/user/:id", controllers.UpdateUser)
		api.PUT("/user/substatus/:id", controllers.UpdateSupplyReg)

		api.POST("/supplier", controllers.RegisterSupplier)
		api.GET("/suppliers", controllers.ListSuppliers)
		api.GET("/suppliers/details/:id", controllers.GetSupplier)
		api.GET("/suppliers/byAuth0Id/:userAuth0Id", controllers.GetSupplierByAuth0ID)
		api.POST("/suppliers/:id/photo", controllers.UploadSupplierPhoto)

		api.POST("/order", controllers.CreateOrder)
		api.GET("/orders/:userAuth0Id", controllers.ListOrders)
		api.PUT("/orders/:orderId", controllers.CompleteOrder)
		api.DELETE("/orders/:orderId", controllers.DeleteOrder)
	}

	return router
}

// ping handles GET /ping - liveness check
func ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// healthCheck handles GET /health - reports database connectivity
func healthCheck(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database not initialized",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Pawsitter API is running",
		"database": "connected",
	})
}
