package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	logger logger.ZapLogger
}

// NewServer builds the router: CORS, request logging, an unauthenticated health
// check and everything else under /api/v1 behind the JWT middleware. hub may be
// nil, in which case /api/v1/ws is not served.
func NewServer(cfg *config.Config, log logger.ZapLogger, hub *notify.Hub, handlers ...RouteRegistrar) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "Accept-Language", requestIDHeader)
	corsConfig.AddExposeHeaders("Content-Length", requestIDHeader)
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(auth.Middleware(cfg.JWT.SecretKey))
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	if hub != nil {
		api.GET("/ws", func(c *gin.Context) {
			ownerID := auth.GetOwnerID(c.Request.Context())
			if ownerID == "" {
				response.Unauthorized(c)
				return
			}
			if err := hub.Serve(c.Writer, c.Request, ownerID); err != nil {
				log.Warn("websocket upgrade failed", zap.String("owner_id", ownerID), zap.Error(err))
			}
		})
	}

	return &Server{cfg: cfg, engine: r, logger: log}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.HTTPPort,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
