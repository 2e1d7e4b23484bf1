package api

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/edubloom-ai/docs"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/config"
	apperrors "github.com/ZanzyTHEbar/edubloom-ai/internal/errors"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/middleware"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/retrain"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/risk"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/security"
)

// Dependencies are the collaborators the router wires together.
type Dependencies struct {
	Config  *config.Config
	Scorer  *risk.Scorer
	Retrain *retrain.Service
	Metrics *monitoring.Metrics
	Tracing *monitoring.Tracing
	Logger  *monitoring.Logger
}

// NewRouter builds the gin engine with the full middleware chain.
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	sm := security.NewSecurityMiddleware(cfg.Security)
	h := NewHandler(cfg, deps.Scorer, deps.Retrain, deps.Metrics, deps.Logger)

	r := gin.New()

	// Outermost first: ids and spans must exist before anything logs, and
	// recovery sits inside monitoring so panics are still counted.
	r.Use(middleware.RequestID())
	r.Use(monitoring.TracingMiddleware(deps.Tracing))
	r.Use(monitoring.MonitoringMiddleware(deps.Metrics, deps.Logger))
	r.Use(apperrors.RecoveryHandler())
	r.Use(monitoring.SecurityMonitoringMiddleware(deps.Logger, cfg.Security.MaxUploadBytes))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(sm.SecurityHeaders)
	r.Use(sm.RequestTimeout)
	r.Use(apperrors.ErrorHandler())

	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	r.POST("/predict", sm.LimitBodySize, h.Predict)
	r.POST("/explain", sm.LimitBodySize, h.Explain)
	r.POST("/retrain", sm.LimitBodySize, h.Retrain)

	if cfg.Server.EnableSwagger {
		docs.SwaggerInfo.Version = cfg.Service.Version
		docs.SwaggerInfo.Title = cfg.Service.Name
		docs.SwaggerInfo.Description = cfg.Service.Description

		r.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
		})
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Server.EnableProfiling {
		r.GET("/debug/pprof/*filepath", profile)
	}

	return r
}

// profile dispatches under a single catch-all, since gin rejects static
// routes next to a wildcard at the same level.
func profile(c *gin.Context) {
	switch c.Param("filepath") {
	case "/cmdline":
		pprof.Cmdline(c.Writer, c.Request)
	case "/profile":
		pprof.Profile(c.Writer, c.Request)
	case "/symbol":
		pprof.Symbol(c.Writer, c.Request)
	case "/trace":
		pprof.Trace(c.Writer, c.Request)
	default:
		pprof.Index(c.Writer, c.Request)
	}
}
