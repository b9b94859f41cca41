package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"toolbay/internal/broadcast"
	"toolbay/internal/config"
	"toolbay/internal/handler"
	"toolbay/internal/middleware"
	"toolbay/internal/repository"
	"toolbay/internal/service"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	hub    *broadcast.Hub
	logger *zap.Logger
	log    *logrus.Logger
}

// NewServer wires repositories, services and handlers onto a gin router.
// notifier may be nil when the moderation bot is disabled.
func NewServer(db *sqlx.DB, cfg *config.Config, hub *broadcast.Hub, notifier service.Notifier, admins service.AdminService, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	requestLog := logrus.New()
	requestLog.SetFormatter(&logrus.JSONFormatter{})

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		hub:    hub,
		logger: logger,
		log:    requestLog,
	}

	s.setupRoutes(notifier, admins)

	return s
}

func (s *Server) setupRoutes(notifier service.Notifier, admins service.AdminService) {
	// Repositories
	userRepo := repository.NewUserRepository(s.db, s.logger)
	categoryRepo := repository.NewCategoryRepository(s.db, s.logger)
	toolRepo := repository.NewToolRepository(s.db, s.logger)
	opinionRepo := repository.NewOpinionRepository(s.db, s.logger)
	voteRepo := repository.NewVoteRepository(s.db, s.logger)
	ratingRepo := repository.NewRatingRepository(s.db, s.logger)
	feedbackRepo := repository.NewFeedbackRepository(s.db, s.logger)

	// Services
	identityService := service.NewIdentityService(userRepo, s.logger)
	submissionService := service.NewSubmissionService(
		toolRepo, opinionRepo, ratingRepo, userRepo, categoryRepo, feedbackRepo,
		s.hub, notifier, s.logger)
	voteService := service.NewVoteService(voteRepo, opinionRepo, userRepo, s.hub, s.logger)

	// Handlers
	categoryHandler := handler.NewCategoryHandler(categoryRepo, s.logger)
	toolHandler := handler.NewToolHandler(toolRepo, submissionService, s.logger)
	opinionHandler := handler.NewOpinionHandler(opinionRepo, submissionService, s.logger)
	voteHandler := handler.NewVoteHandler(voteService, s.logger)
	ratingHandler := handler.NewRatingHandler(submissionService, s.logger)
	userHandler := handler.NewUserHandler(s.logger)
	statsHandler := handler.NewStatsHandler(toolRepo, opinionRepo, userRepo, s.logger)
	feedbackHandler := handler.NewFeedbackHandler(submissionService, s.logger)
	adminHandler := handler.NewAdminHandler(admins, identityService, feedbackRepo, s.logger)
	eventsHandler := handler.NewEventsHandler(s.hub, s.logger)

	s.router.Use(middleware.CORS(s.cfg.CORS.AllowedOrigins))
	s.router.Use(middleware.RequestLogger(s.log))

	// Status routes
	status := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "toolbay",
			"status":  "ok",
		})
	}
	s.router.GET("/", status)
	s.router.GET("/health", status)
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api")
	api.Use(middleware.Identity(identityService, s.logger))
	{
		api.GET("/categories", categoryHandler.List)
		api.GET("/tools", toolHandler.List)
		api.GET("/tools/:toolId", toolHandler.GetByID)
		api.GET("/tools/:toolId/opinions", opinionHandler.ListByTool)
		api.GET("/tools/:toolId/my-opinion", opinionHandler.MyOpinion)
		api.GET("/tools/:toolId/my-rating", ratingHandler.MyRating)
		api.GET("/stats", statsHandler.Get)

		api.GET("/events", eventsHandler.Global)
		api.GET("/tools/:toolId/events", eventsHandler.Tool)

		writes := api.Group("")
		writes.Use(middleware.RequireIdentity())
		{
			writes.GET("/users/me", userHandler.Me)
			writes.POST("/tools", toolHandler.Create)
			writes.PUT("/tools/:toolId", toolHandler.Update)
			writes.DELETE("/tools/:toolId", toolHandler.Delete)
			writes.POST("/tools/:toolId/opinions", opinionHandler.Create)
			writes.PUT("/opinions/:opinionId", opinionHandler.Update)
			writes.POST("/opinions/:opinionId/votes", voteHandler.Toggle)
			writes.POST("/tools/:toolId/ratings", ratingHandler.Submit)
			writes.POST("/feedback", feedbackHandler.Create)
		}
	}

	adminGroup := s.router.Group("/api/admin")
	adminGroup.POST("/login", adminHandler.Login)

	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuth(admins, s.logger))
	{
		adminProtected.POST("/tools/:id/approve", adminHandler.ApproveTool)
		adminProtected.POST("/tools/:id/reject", adminHandler.RejectTool)
		adminProtected.POST("/users/:id/ban", adminHandler.BanUser)
		adminProtected.POST("/users/:id/unban", adminHandler.UnbanUser)
		adminProtected.POST("/users/:id/trust", adminHandler.AdjustTrust)
		adminProtected.GET("/feedback", adminHandler.ListFeedback)
	}
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Server starting", zap.String("addr", addr))
	return srv.ListenAndServe()
}
