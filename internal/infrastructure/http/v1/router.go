// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"dealerdesk/internal/core/numerator"
	"dealerdesk/internal/domain/audit"
	"dealerdesk/internal/domain/catalogs/customer"
	"dealerdesk/internal/domain/catalogs/vehicle"
	"dealerdesk/internal/domain/catalogs/vendor"
	"dealerdesk/internal/domain/documents/purchase"
	"dealerdesk/internal/domain/documents/sale"
	"dealerdesk/internal/domain/leads"
	"dealerdesk/internal/domain/registers/payment"
	"dealerdesk/internal/infrastructure/http/v1/handlers"
	"dealerdesk/internal/infrastructure/http/v1/middleware"
	"dealerdesk/internal/infrastructure/storage/postgres"
	"dealerdesk/internal/infrastructure/storage/postgres/catalog_repo"
	"dealerdesk/internal/infrastructure/storage/postgres/document_repo"
	"dealerdesk/internal/infrastructure/storage/postgres/register_repo"
	"dealerdesk/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, numerator)
	Pool *postgres.Pool

	// TxManager drives all repository access
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// TokenValidator for bearer token validation
	TokenValidator middleware.TokenValidator

	// Numerator for document/code number generation
	Numerator numerator.Generator

	// Auditor records entity history (nil disables auditing)
	Auditor audit.Recorder

	// AuditHistory serves the audit trail endpoint (nil hides it)
	AuditHistory *postgres.AuditService

	// IdempotencyStore enables replay protection on mutating endpoints
	// (nil disables it)
	IdempotencyStore *postgres.IdempotencyStore
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		if cfg.IdempotencyStore != nil {
			protected.Use(middleware.Idempotency(cfg.IdempotencyStore))
		}

		registerRoutes(protected, cfg)
	}

	return router
}

// registerRoutes builds the repository/service graph and mounts all
// API endpoints on the protected group.
func registerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	vehicleRepo := catalog_repo.NewVehicleRepo(cfg.TxManager)
	customerRepo := catalog_repo.NewCustomerRepo(cfg.TxManager)
	vendorRepo := catalog_repo.NewVendorRepo(cfg.TxManager)
	leadRepo := catalog_repo.NewLeadRepo(cfg.TxManager)
	purchaseRepo := document_repo.NewPurchaseRepo(cfg.TxManager)
	saleRepo := document_repo.NewSaleRepo(cfg.TxManager)
	paymentRepo := register_repo.NewPaymentRepo(cfg.TxManager)
	scheduleRepo := register_repo.NewEMIScheduleRepo(cfg.TxManager)

	journal := payment.NewJournal(paymentRepo)

	vehicleService := vehicle.NewService(vehicleRepo, cfg.TxManager, cfg.Numerator)
	customerService := customer.NewService(customerRepo, cfg.TxManager, cfg.Numerator)
	vendorService := vendor.NewService(vendorRepo, cfg.TxManager, cfg.Numerator)
	leadService := leads.NewService(leadRepo, cfg.TxManager, cfg.Numerator)
	conversionService := leads.NewConversionService(
		leadRepo, customerService, vendorService, cfg.TxManager, cfg.Auditor,
	)
	purchaseService := purchase.NewService(
		purchaseRepo, vehicleRepo, journal, cfg.Numerator, cfg.TxManager, cfg.Auditor,
	)
	saleService := sale.NewService(
		saleRepo, vehicleRepo, journal, scheduleRepo, cfg.Numerator, cfg.TxManager, cfg.Auditor,
	)

	// Counterparties referenced by a live ledger row cannot be deleted.
	customerService.GuardReferences(saleRepo)
	vendorService.GuardReferences(purchaseRepo)

	RegisterCatalogRoutes(rg.Group("/vehicles"), handlers.NewVehicleHandler(baseHandler, vehicleService))
	RegisterCatalogRoutes(rg.Group("/customers"), handlers.NewCustomerHandler(baseHandler, customerService))
	RegisterCatalogRoutes(rg.Group("/vendors"), handlers.NewVendorHandler(baseHandler, vendorService))

	leadHandler := handlers.NewLeadHandler(baseHandler, leadService, conversionService)
	leadGroup := rg.Group("/leads")
	RegisterCatalogRoutes(leadGroup, leadHandler)
	leadGroup.PATCH("/:id/status", leadHandler.ChangeStatus)
	leadGroup.POST("/:id/convert", leadHandler.Convert)

	RegisterLedgerRoutes(rg.Group("/purchases"), handlers.NewPurchaseHandler(baseHandler, purchaseService))

	saleHandler := handlers.NewSaleHandler(baseHandler, saleService)
	saleGroup := rg.Group("/sales")
	RegisterLedgerRoutes(saleGroup, saleHandler)
	saleGroup.GET("/:id/effective-balance", saleHandler.EffectiveBalance)

	if cfg.AuditHistory != nil {
		auditHandler := handlers.NewAuditHandler(baseHandler, cfg.AuditHistory)
		rg.GET("/audit/:entityType/:id", auditHandler.History)
	}
}
