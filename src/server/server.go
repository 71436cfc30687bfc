package server

import (
	"context"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/kingdom/src/api"
	"github.com/lost-woods/kingdom/src/config"
	"github.com/lost-woods/kingdom/src/kingdom"
	"github.com/lost-woods/kingdom/src/rng"
)

type Server struct {
	port   string
	router *gin.Engine
}

// New builds the router and starts background health monitoring of r until
// ctx is done.
func New(ctx context.Context, cfg config.Config, engine *kingdom.Engine, r io.Reader, h *rng.Health, log *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	go rng.PeriodicHealthCheck(ctx, r, h, cfg.HealthInterval)

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"X-API-KEY", "Accept"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(api.CheckHeader("X-API-KEY", cfg.APIKey))

	handlers := api.NewHandlers(engine, r, h, log)
	router.GET("/", handlers.Kingdom)
	router.GET("/kingdom", handlers.Kingdom)
	router.GET("/sets", handlers.Sets)
	router.GET("/health", handlers.Health)

	return &Server{port: cfg.Port, router: router}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() *gin.Engine { return s.router }

func (s *Server) RunOrDie() {
	if err := s.router.Run(":" + s.port); err != nil {
		panic(err)
	}
}
