package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	alignmentdomain "github.com/ruapotato/hivematrix-ledger/internal/alignment/domain"
	auditdomain "github.com/ruapotato/hivematrix-ledger/internal/audit/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/clock"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/providers/pdf"
	quantitydomain "github.com/ruapotato/hivematrix-ledger/internal/quantity/domain"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
	receiptdomain "github.com/ruapotato/hivematrix-ledger/internal/receipt/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(TracingMiddleware())
	r.Use(MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine       *gin.Engine
	cfg          config.Config
	clock        clock.Clock
	planSvc      plandomain.Service
	companySvc   companydomain.Service
	ratesSvc     ratesdomain.Service
	quantitySvc  quantitydomain.Service
	lineItemSvc  lineitemdomain.Service
	receiptSvc   receiptdomain.Service
	alignmentSvc alignmentdomain.Service
	auditSvc     auditdomain.Service
	pdfProvider  pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Clock        clock.Clock
	PlanSvc      plandomain.Service
	CompanySvc   companydomain.Service
	RatesSvc     ratesdomain.Service
	QuantitySvc  quantitydomain.Service
	LineItemSvc  lineitemdomain.Service
	ReceiptSvc   receiptdomain.Service
	AlignmentSvc alignmentdomain.Service
	AuditSvc     auditdomain.Service
	PDFProvider  pdf.Provider
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		clock:        p.Clock,
		planSvc:      p.PlanSvc,
		companySvc:   p.CompanySvc,
		ratesSvc:     p.RatesSvc,
		quantitySvc:  p.QuantitySvc,
		lineItemSvc:  p.LineItemSvc,
		receiptSvc:   p.ReceiptSvc,
		alignmentSvc: p.AlignmentSvc,
		auditSvc:     p.AuditSvc,
		pdfProvider:  p.PDFProvider,
	}

	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Plans --------
	api.GET("/plans", s.ListPlans)
	api.POST("/plans", s.CreatePlan)
	api.GET("/plans/:name", s.GetPlanByName)

	// -------- Companies --------
	api.GET("/companies", s.ListCompanies)
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:account", s.GetCompany)

	// -------- Manual assets and users --------
	api.GET("/companies/:account/assets", s.ListManualAssets)
	api.POST("/companies/:account/assets", s.AddManualAsset)
	api.DELETE("/companies/:account/assets/:id", s.RemoveManualAsset)
	api.GET("/companies/:account/users", s.ListManualUsers)
	api.POST("/companies/:account/users", s.AddManualUser)
	api.DELETE("/companies/:account/users/:id", s.RemoveManualUser)

	// -------- Rates and overrides --------
	api.GET("/rates/:account", s.GetEffectiveRates)
	api.GET("/rates/:account/:kind", s.GetEffectiveRate)
	api.GET("/overrides/:account", s.GetOverride)
	api.PUT("/overrides/:account", s.SetOverride)
	api.DELETE("/overrides/:account", s.ClearOverrides)

	// -------- Quantities --------
	api.GET("/quantities/:account", s.GetQuantities)

	// -------- Line items --------
	api.GET("/line_items/:account", s.ListLineItems)
	api.PUT("/line_items/:account", s.AddLineItem)
	api.DELETE("/line_items/:account/:name", s.RemoveLineItem)

	// -------- Receipts --------
	api.GET("/receipts/:account", s.GetReceipt)
	api.GET("/receipts/:account/pdf", s.GetReceiptPDF)
	api.GET("/billing/dashboard", s.GetBillingDashboard)

	// -------- Contract alignment --------
	api.POST("/alignment/:account/compare", s.CompareContract)
	api.POST("/alignment/:account/preview", s.PreviewAlignment)
	api.POST("/alignment/:account/apply", s.ApplyAlignment)
	api.POST("/alignment/:account/verify", s.VerifyAlignment)

	// -------- Audit trail --------
	api.GET("/audit/:account", s.ListAuditRecords)
}
