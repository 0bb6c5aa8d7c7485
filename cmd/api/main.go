package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ProyectoMep/Colegiosapp/internal/handler"
	"github.com/ProyectoMep/Colegiosapp/internal/middleware"
	"github.com/ProyectoMep/Colegiosapp/internal/models"
	"github.com/ProyectoMep/Colegiosapp/internal/repository"
	"github.com/ProyectoMep/Colegiosapp/internal/service"
	"github.com/ProyectoMep/Colegiosapp/pkg/cache"
	"github.com/ProyectoMep/Colegiosapp/pkg/config"
	"github.com/ProyectoMep/Colegiosapp/pkg/database"
	"github.com/ProyectoMep/Colegiosapp/pkg/logger"
	corsmiddleware "github.com/ProyectoMep/Colegiosapp/pkg/middleware/cors"
	reqidmiddleware "github.com/ProyectoMep/Colegiosapp/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	appointmentRepo := repository.NewAppointmentRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	userRepo := repository.NewUserRepository(db)
	draftRepo := repository.NewDraftRepository(redisClient, cfg.Booking.DraftTTL, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	institutionSvc := service.NewInstitutionService(institutionRepo, validate, logr)
	bookingSvc := service.NewBookingService(draftRepo, institutionRepo, appointmentRepo, userRepo, cfg.Booking.DefaultSiteID, logr)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, nil, logr)
	summarySvc := service.NewSummaryService(appointmentRepo, logr)
	reportSvc := service.NewReportService(institutionRepo, appointmentRepo, summarySvc, cfg.Reports.MaxDetailRows, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	institutionHandler := handler.NewInstitutionHandler(institutionSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc, metricsSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	reportHandler := handler.NewReportHandler(summarySvc, reportSvc, metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	institutions := api.Group("/institutions")
	institutions.GET("", institutionHandler.List)
	institutions.GET("/localities", institutionHandler.Localities)
	institutions.GET("/grades", institutionHandler.Grades)
	institutions.GET("/:id", institutionHandler.Get)
	institutions.POST("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), institutionHandler.Register)

	booking := api.Group("/booking", middleware.JWT(authSvc))
	booking.POST("/draft", bookingHandler.Draft)
	booking.GET("/draft", bookingHandler.Current)
	booking.POST("/confirm", bookingHandler.Confirm)

	appointments := api.Group("/appointments", middleware.JWT(authSvc))
	appointments.GET("/mine", appointmentHandler.Mine)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)
	appointments.GET("", staff, appointmentHandler.List)
	appointments.GET("/range", staff, appointmentHandler.Range)
	appointments.GET("/:id", staff, appointmentHandler.Get)
	appointments.PUT("/:id/reschedule", staff, appointmentHandler.Reschedule)
	appointments.PUT("/:id/cancel", staff, appointmentHandler.Cancel)

	reports := api.Group("/reports", middleware.JWT(authSvc), staff)
	reports.GET("/summary", reportHandler.Summary)
	reports.GET("/download", reportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
