package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/alfred/internal/api/middleware"
	"github.com/liliang-cn/alfred/internal/api/pages"
	"github.com/liliang-cn/alfred/internal/api/rest"
	"github.com/liliang-cn/alfred/internal/service"
	"go.uber.org/zap"
)

// Services bundles the services the handlers call
type Services struct {
	Sessions *service.SessionService
	Chat     *service.ChatService
	Analysis *service.AnalysisService
	Exports  *service.ExportService
}

// RouterConfig holds configuration for the router
type RouterConfig struct {
	CookieName     string
	MaxUploadBytes int64
}

// SetupRouter sets up the Gin router
func SetupRouter(svc Services, cfg RouterConfig, logger *zap.Logger) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.SetHTMLTemplate(tmpl)
	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	SetupStaticRoutes(r)

	sessioned := r.Group("")
	sessioned.Use(middleware.Session(svc.Sessions, cfg.CookieName))

	pageHandler := pages.NewHandler(svc.Sessions, svc.Chat, svc.Analysis, svc.Exports, cfg.MaxUploadBytes)
	pageHandler.RegisterRoutes(sessioned)

	apiHandler := rest.NewHandler(svc.Sessions, svc.Chat, svc.Analysis, svc.Exports, cfg.MaxUploadBytes)
	apiHandler.RegisterRoutes(sessioned.Group("/api"))

	return r, nil
}
