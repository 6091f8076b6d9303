// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"atlas-service/internal/config"
	"atlas-service/internal/crm"
	"atlas-service/internal/db"
	"atlas-service/internal/geocode"
	adminHandler "atlas-service/internal/handlers/admin"
	crmHandler "atlas-service/internal/handlers/crm"
	professionalHandler "atlas-service/internal/handlers/professional"
	searchHandler "atlas-service/internal/handlers/search"
	wsHandler "atlas-service/internal/handlers/ws"
	"atlas-service/internal/middleware"
	"atlas-service/internal/pkg/jwt"
	"atlas-service/internal/pkg/session"
	"atlas-service/internal/repository/postgres"
	adminService "atlas-service/internal/service/admin"
	directoryService "atlas-service/internal/service/directory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))

	// ----- Admin auth -----
	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}
	sessionStore := session.NewStore(redisClient, jwtManager.TTL(), logger)

	// ----- Repositories -----
	professionalRepo := postgres.NewProfessionalRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	ratingRepo := postgres.NewRatingLevelRepository(pool)

	// Seed vocabularies on first boot so the filter surfaces are never empty.
	if err := ratingRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed rating levels: %w", err)
	}
	if err := tagRepo.SeedDefaults(ctx, s.cfg.DefaultTags); err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	// ----- External clients -----
	geocoder := geocode.NewClient(s.cfg.MapboxToken)
	resolver := geocode.NewCachedResolver(geocoder, redisClient, logger)
	crmClient := crm.NewClient(s.cfg.GHLAPIKey)

	// ----- Services -----
	dirService := directoryService.NewDirectoryService(professionalRepo, commentRepo, tagRepo, ratingRepo, logger)
	admService := adminService.NewAdminService(s.cfg.AdminPasswordHash, jwtManager, sessionStore, tagRepo, logger)

	// ----- Handlers -----
	h := &Handlers{
		ProfessionalHandler: professionalHandler.NewProfessionalHandler(dirService),
		SearchHandler:       searchHandler.NewSearchHandler(geocoder, resolver),
		CRMHandler:          crmHandler.NewCRMHandler(dirService, crmClient, logger),
		AdminHandler:        adminHandler.NewAdminHandler(admService),
		LiveSearchHandler:   wsHandler.NewLiveSearchHandler(geocoder, resolver, logger),
		AuthMiddleware:      middleware.NewAuthMiddleware(jwtManager, sessionStore),
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)
	SetupRouter(s.engine, h)

	logger.Info("http server starting", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}
