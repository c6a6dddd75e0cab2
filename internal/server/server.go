package server

import (
	"context"
	"net/http"
	"time"

	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/internal/config"
	feeddomain "github.com/druckhaus/storefront/internal/feed/domain"
	inquirydomain "github.com/druckhaus/storefront/internal/inquiry/domain"
	"github.com/druckhaus/storefront/internal/observability/metrics"
	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	quotedomain "github.com/druckhaus/storefront/internal/quote/domain"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogging(log))
	r.Use(MetricsMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	catalogSvc  catalogdomain.Service
	pricingSvc  pricingdomain.Service
	settingsSvc settingsdomain.Service
	cartSvc     cartdomain.Service
	quoteSvc    quotedomain.Service
	feedSvc     feeddomain.Service
	inquirySvc  inquirydomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	CatalogSvc  catalogdomain.Service
	PricingSvc  pricingdomain.Service
	SettingsSvc settingsdomain.Service
	CartSvc     cartdomain.Service
	QuoteSvc    quotedomain.Service
	FeedSvc     feeddomain.Service
	InquirySvc  inquirydomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		catalogSvc:  p.CatalogSvc,
		pricingSvc:  p.PricingSvc,
		settingsSvc: p.SettingsSvc,
		cartSvc:     p.CartSvc,
		quoteSvc:    p.QuoteSvc,
		feedSvc:     p.FeedSvc,
		inquirySvc:  p.InquirySvc,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Catalog --------
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)
	api.GET("/products/:id/calculator", s.GetCalculator)
	api.POST("/products/:id/calculate", s.Calculate)
	api.POST("/products/:id/inquiry", s.CreateInquiry)

	// -------- Cart --------
	api.POST("/cart/items", s.AddCartItem)
	api.GET("/cart", s.GetCart)
	api.DELETE("/cart/items/:lineId", s.RemoveCartItem)
	api.POST("/cart/revalidate", s.RevalidateCart)

	// -------- Quote --------
	api.GET("/cart/quote.pdf", s.DownloadQuote)
	api.POST("/cart/quote/email", s.EmailQuote)

	// -------- Feed --------
	api.GET("/feed", s.GetFeed)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.GET("/settings", s.GetShopSettings)
	admin.PUT("/settings", s.UpdateShopSettings)
	admin.PUT("/products/:id/pricing", s.UpdateProductPricing)
}
