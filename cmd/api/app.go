package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/vendaflow/crm-backend/internal/adapter/api/controller"
	"github.com/vendaflow/crm-backend/internal/adapter/repository"
	"github.com/vendaflow/crm-backend/internal/domain/allocation"
	"github.com/vendaflow/crm-backend/internal/domain/payment"
	"github.com/vendaflow/crm-backend/internal/infrastructure/database"
	"github.com/vendaflow/crm-backend/pkg/auth"
	"github.com/vendaflow/crm-backend/pkg/logger"
	"github.com/vendaflow/crm-backend/pkg/notifier"
	"github.com/vendaflow/crm-backend/pkg/renderer"
	"github.com/vendaflow/crm-backend/pkg/tenant"

	_ "github.com/vendaflow/crm-backend/docs"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App representa a aplicação e suas dependências
type App struct {
	router *gin.Engine
	db     *pgxpool.Pool
	logger logger.Logger

	tenantController       *controller.TenantController
	authController         *controller.AuthController
	userController         *controller.UserController
	companyController      *controller.CompanyController
	quoteController        *controller.QuoteController
	invoiceController      *controller.InvoiceController
	paymentController      *controller.PaymentController
	orderController        *controller.OrderController
	allocationController   *controller.AllocationController
	deliveryNoteController *controller.DeliveryNoteController

	tenantMiddleware gin.HandlerFunc
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	config := database.NewPostgresConfigFromEnv()
	db, err := database.NewPostgresDB(config)
	if err != nil {
		return nil, err
	}

	// Aplicar migrações
	if err := database.RunMigrations(config); err != nil {
		return nil, err
	}

	// Criar repositórios
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	deliveryRepo := repository.NewDeliveryNoteRepository(db)
	eventStore := repository.NewEventStore(db)

	// Serviços de domínio e infraestrutura
	jwtService, err := auth.NewJWTService()
	if err != nil {
		return nil, err
	}
	ledger := payment.NewLedger()
	bridge := allocation.NewBridge()
	mailNotifier := notifier.NewLogNotifier(log)
	pdfRenderer := renderer.NewNoopRenderer()

	// Validador e middleware de tenant
	tenantValidator := repository.NewTenantValidatorRepository(db)
	tenantMiddleware := tenant.TenantMiddleware(tenantValidator)

	// Criar controllers
	tenantController := controller.NewTenantController(tenantRepo)
	authController := controller.NewAuthController(userRepo, jwtService, log)
	userController := controller.NewUserController(userRepo)
	companyController := controller.NewCompanyController(companyRepo)
	quoteController := controller.NewQuoteController(quoteRepo, invoiceRepo, orderRepo, eventStore, mailNotifier, pdfRenderer, log)
	invoiceController := controller.NewInvoiceController(invoiceRepo, allocationRepo, eventStore, mailNotifier, pdfRenderer, log)
	paymentController := controller.NewPaymentController(paymentRepo, invoiceRepo, ledger, mailNotifier, log)
	orderController := controller.NewOrderController(orderRepo, eventStore)
	allocationController := controller.NewAllocationController(allocationRepo, invoiceRepo, orderRepo, bridge)
	deliveryNoteController := controller.NewDeliveryNoteController(deliveryRepo, mailNotifier, pdfRenderer, log)

	// Configurar router
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "tenant-id")
	router.Use(cors.New(corsConfig))

	return &App{
		router:                 router,
		db:                     db,
		logger:                 log,
		tenantController:       tenantController,
		authController:         authController,
		userController:         userController,
		companyController:      companyController,
		quoteController:        quoteController,
		invoiceController:      invoiceController,
		paymentController:      paymentController,
		orderController:        orderController,
		allocationController:   allocationController,
		deliveryNoteController: deliveryNoteController,
		tenantMiddleware:       tenantMiddleware,
	}, nil
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes(basePath string) {
	api := a.router.Group(basePath)

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Documentação Swagger
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Rotas públicas
	api.POST("/auth/login", a.authController.Login)

	tenantsRoutes := api.Group("/tenants")
	{
		tenantsRoutes.POST("", a.tenantController.Create)
		tenantsRoutes.GET("", a.tenantController.List)
		tenantsRoutes.GET("/:id", a.tenantController.Get)
		tenantsRoutes.PUT("/:id", a.tenantController.Update)
		tenantsRoutes.PATCH("/:id/activate", a.tenantController.Activate)
		tenantsRoutes.PATCH("/:id/deactivate", a.tenantController.Deactivate)
	}

	// Rotas protegidas: exigem tenant válido e token JWT
	protected := api.Group("")
	protected.Use(a.tenantMiddleware)
	protected.Use(auth.JWTAuthMiddleware())

	usersRoutes := protected.Group("/users")
	{
		usersRoutes.POST("", auth.RoleAuthMiddleware("admin", "manager"), a.userController.Create)
		usersRoutes.GET("", a.userController.List)
		usersRoutes.GET("/:id", a.userController.Get)
		usersRoutes.PATCH("/:id/deactivate", auth.RoleAuthMiddleware("admin"), a.userController.Deactivate)
	}

	companiesRoutes := protected.Group("/companies")
	{
		companiesRoutes.POST("", a.companyController.Create)
		companiesRoutes.GET("", a.companyController.List)
		companiesRoutes.GET("/:id", a.companyController.Get)
		companiesRoutes.PUT("/:id", a.companyController.Update)
		companiesRoutes.PATCH("/:id/activate", a.companyController.Activate)
		companiesRoutes.PATCH("/:id/deactivate", a.companyController.Deactivate)
	}

	quotesRoutes := protected.Group("/quotes")
	{
		quotesRoutes.POST("", a.quoteController.Create)
		quotesRoutes.GET("", a.quoteController.List)
		quotesRoutes.GET("/:id", a.quoteController.Get)
		quotesRoutes.PUT("/:id/items", a.quoteController.UpdateItems)
		quotesRoutes.POST("/:id/send", a.quoteController.Send)
		quotesRoutes.POST("/:id/accept", a.quoteController.Accept)
		quotesRoutes.POST("/:id/reject", a.quoteController.Reject)
		quotesRoutes.POST("/:id/expire", a.quoteController.Expire)
		quotesRoutes.POST("/:id/convert-to-invoice", a.quoteController.ConvertToInvoice)
		quotesRoutes.POST("/:id/convert-to-order", a.quoteController.ConvertToOrder)
		quotesRoutes.GET("/:id/history", a.quoteController.History)
		quotesRoutes.GET("/:id/pdf", a.quoteController.Pdf)
	}

	invoicesRoutes := protected.Group("/invoices")
	{
		invoicesRoutes.POST("", a.invoiceController.Create)
		invoicesRoutes.GET("", a.invoiceController.List)
		invoicesRoutes.POST("/refresh-overdue", a.invoiceController.RefreshOverdue)
		invoicesRoutes.GET("/:id", a.invoiceController.Get)
		invoicesRoutes.PUT("/:id/items", a.invoiceController.UpdateItems)
		invoicesRoutes.POST("/:id/send", a.invoiceController.Send)
		invoicesRoutes.POST("/:id/cancel", a.invoiceController.Cancel)
		invoicesRoutes.GET("/:id/history", a.invoiceController.History)
		invoicesRoutes.GET("/:id/pdf", a.invoiceController.Pdf)
		invoicesRoutes.POST("/:id/payments", a.paymentController.Record)
		invoicesRoutes.GET("/:id/payments", a.paymentController.List)
		invoicesRoutes.GET("/:id/allocations", a.allocationController.ListByInvoice)
	}

	paymentsRoutes := protected.Group("/payments")
	{
		paymentsRoutes.POST("/:id/refund", a.paymentController.Refund)
		paymentsRoutes.DELETE("/:id", auth.RoleAuthMiddleware("admin", "manager"), a.paymentController.Delete)
	}

	ordersRoutes := protected.Group("/orders")
	{
		ordersRoutes.POST("", a.orderController.Create)
		ordersRoutes.GET("", a.orderController.List)
		ordersRoutes.GET("/:id", a.orderController.Get)
		ordersRoutes.PATCH("/:id/status", a.orderController.UpdateStatus)
		ordersRoutes.GET("/:id/history", a.orderController.History)
		ordersRoutes.POST("/:id/allocations", a.allocationController.Allocate)
		ordersRoutes.GET("/:id/allocations", a.allocationController.ListByOrder)
		ordersRoutes.DELETE("/:id/allocations/:invoice_id", a.allocationController.Deallocate)
	}

	deliveryRoutes := protected.Group("/delivery-notes")
	{
		deliveryRoutes.POST("", a.deliveryNoteController.Create)
		deliveryRoutes.GET("", a.deliveryNoteController.List)
		deliveryRoutes.GET("/:id", a.deliveryNoteController.Get)
		deliveryRoutes.POST("/:id/ship", a.deliveryNoteController.Ship)
		deliveryRoutes.POST("/:id/deliver", a.deliveryNoteController.MarkDelivered)
		deliveryRoutes.POST("/:id/return", a.deliveryNoteController.Return)
		deliveryRoutes.GET("/:id/pdf", a.deliveryNoteController.Pdf)
	}
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.logger.Info("servidor iniciado", "port", port)
	return a.router.Run(":" + port)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
