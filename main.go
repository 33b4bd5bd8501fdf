package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"talent-service/internal/config"
	"talent-service/internal/db"
	"talent-service/internal/handlers"
	"talent-service/internal/metrics"
	"talent-service/internal/middleware"
	"talent-service/internal/observability"
	"talent-service/internal/rabbitmq"
	"talent-service/internal/repositories"
	"talent-service/internal/security"
	"talent-service/internal/services"
	"talent-service/internal/telemetry"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	eventPublisher := connectPublisher(cfg.AMQPURL, cfg.EventsExch, "event")
	defer eventPublisher.Close()

	auditPublisher := connectPublisher(cfg.AMQPURL, cfg.LogsExch, "audit")
	defer auditPublisher.Close()

	userRepo := repositories.NewUserRepository(database)
	talentRepo := repositories.NewTalentRepository(database)
	collabRepo := repositories.NewCollaborationRepository(database)

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokens)
	collabService := services.NewCollaborationService(collabRepo, userRepo, eventPublisher)

	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, cfg.ServiceName, cfg.Environment)
	authHandler := handlers.NewAuthHandler(authService, auditEmitter)
	talentHandler := handlers.NewTalentHandler(talentRepo, eventPublisher)
	collabHandler := handlers.NewCollaborationHandler(collabService, auditEmitter)

	observability.InitMetrics(prometheus.DefaultRegisterer)
	metrics.RegisterCollaborationMetrics()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(), middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "talent-service is running"})
	})

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWTAuth(cfg.JWTSecret), authHandler.Me)

	talents := api.Group("/talents")
	talents.GET("", middleware.OptionalAuth(cfg.JWTSecret), talentHandler.List)
	talents.GET("/:id", talentHandler.Get)
	talents.GET("/stats/overview", talentHandler.StatsOverview)
	talents.GET("/stats/skills", talentHandler.TopSkills)

	talentsAuth := talents.Group("", middleware.JWTAuth(cfg.JWTSecret))
	talentsAuth.POST("", talentHandler.Create)
	talentsAuth.PUT("/:id", talentHandler.Update)
	talentsAuth.DELETE("/:id", talentHandler.Delete)
	talentsAuth.POST("/:id/favorite", talentHandler.AddFavorite)
	talentsAuth.DELETE("/:id/favorite", talentHandler.RemoveFavorite)
	talentsAuth.GET("/user/favorites", talentHandler.ListFavorites)

	collab := api.Group("/collaboration", middleware.JWTAuth(cfg.JWTSecret))
	collab.POST("/request", collabHandler.SendRequest)
	collab.GET("/received", collabHandler.ListReceived)
	collab.GET("/sent", collabHandler.ListSent)
	collab.GET("/count", collabHandler.CountPending)
	collab.PUT("/:id/accept", collabHandler.AcceptRequest)
	collab.PUT("/:id/reject", collabHandler.RejectRequest)
	collab.DELETE("/:id", collabHandler.RemoveRequest)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
}

func connectPublisher(amqpURL, exchange, kind string) rabbitmq.Publisher {
	if amqpURL == "" {
		log.Warn().Str("exchange", exchange).Msgf("AMQP_URL not set; %s publishing disabled", kind)
		return rabbitmq.NewNoopPublisher()
	}
	pub, err := rabbitmq.NewPublisher(amqpURL, exchange)
	if err != nil {
		log.Warn().Err(err).Str("exchange", exchange).Msgf("failed to initialize RabbitMQ %s publisher", kind)
		return rabbitmq.NewNoopPublisher()
	}
	return pub
}
