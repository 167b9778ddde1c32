package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"core"
	"core/cache"
	"core/middleware"
	"putopadel-api/config"
	_ "putopadel-api/docs" // Swagger docs
	"putopadel-api/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title           PutoPadel API
// @version         1.0
// @description     Singles and doubles Elo rankings for a padel group

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	config.SetupLogger(cfg.LogLevel)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if cfg.AutoMigrate {
		migrator, err := migrations.NewCoreMigrator(db)
		if err != nil {
			log.Fatal().Err(err).Msg("migrator setup failed")
		}
		if _, err := migrator.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	var rankings cache.RankingCache = cache.NoopRankingCache{}
	redisClient, err := config.NewRedisClient(context.Background(), cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, ranking cache disabled")
	} else if redisClient != nil {
		defer redisClient.Close()
		rankings = cache.NewRedisRankingCache(redisClient, "")
		log.Info().Msg("ranking cache enabled")
	}

	coreModule := core.NewModule(db, core.Options{
		KFactor:        cfg.KFactor,
		Rankings:       rankings,
		BackupDir:      cfg.BackupDir,
		BackupSchedule: cfg.BackupSchedule,
	})

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	coreModule.SetupRoutes(r)

	// Swagger endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", healthHandler(db))

	if err := coreModule.StartScheduler(); err != nil {
		log.Fatal().Err(err).Msg("scheduler failed to start")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	coreModule.StopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", middleware.RequestIDHeader}
	c.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Message  string `json:"message" example:"Server is running"`
	Database string `json:"database" example:"connected"`
}

// @Summary Health Check
// @Description Check if the server is running and database is connected
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 500 {object} HealthResponse
// @Router /health [get]
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		response := HealthResponse{
			Message:  "Server is running",
			Database: "connected",
		}

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			status = http.StatusInternalServerError
			response.Database = "unreachable"
		}

		c.JSON(status, response)
	}
}
