package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subtrack/subtrack/docs"
	"github.com/subtrack/subtrack/internal/app/api/handlers"
	mw "github.com/subtrack/subtrack/internal/app/api/middleware"
	authsvc "github.com/subtrack/subtrack/internal/app/service/auth"
	platformsvc "github.com/subtrack/subtrack/internal/app/service/platform"
	"github.com/subtrack/subtrack/internal/app/service/report"
	subsvc "github.com/subtrack/subtrack/internal/app/service/subscription"
	cfgpkg "github.com/subtrack/subtrack/pkg/config"
	metrics "github.com/subtrack/subtrack/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	auth *authsvc.Service,
	subs *subsvc.Service,
	platforms *platformsvc.Service,
	reports *report.Service,
) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// /api: bearer token required except for register/login
	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	protected := api.Group("/")
	protected.Use(mw.Auth(auth))
	admin := protected.Group("/admin")
	admin.Use(mw.RequireAdmin())

	handlers.RegisterAuthRoutes(api, protected, auth)
	handlers.RegisterSubscriptionRoutes(protected, subs)
	handlers.RegisterPlatformRoutes(protected, admin, platforms)
	handlers.RegisterCalendarRoutes(protected, reports)
	handlers.RegisterDashboardRoutes(protected, reports)
	handlers.RegisterAdminRoutes(admin, subs)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
