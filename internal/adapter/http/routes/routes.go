package routes

import (
	"log"
	"strconv"

	_ "cartcure_ops/docs" // This will be auto-generated
	"cartcure_ops/internal/adapter/http/handlers"
	repository2 "cartcure_ops/internal/adapter/persistence/repository"
	"cartcure_ops/internal/config"
	"cartcure_ops/internal/domain/ratelimit"
	"cartcure_ops/internal/infrastructure/database"
	"cartcure_ops/internal/infrastructure/notifications"
	"cartcure_ops/internal/infrastructure/observability"
	"cartcure_ops/internal/infrastructure/payments"
	"cartcure_ops/internal/usecase"
	"cartcure_ops/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(observability.MetricsHandler()))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	settings := config.Load()
	ddb := database.ConnectDynamoDB()

	submissionRepo := repository2.NewSubmissionDynamoRepository(ddb)
	jobRepo := repository2.NewJobDynamoRepository(ddb)
	invoiceRepo := repository2.NewInvoiceDynamoRepository(ddb)
	testimonialRepo := repository2.NewTestimonialDynamoRepository(ddb)

	limiterStore := repository2.NewRateLimitDynamoStore(ddb, settings.RateLimitWindow)
	limiter := ratelimit.NewLimiter(limiterStore, settings.RateLimitCeiling, settings.RateLimitWindow)

	mailGateway, err := notifications.NewSMTPGateway(
		settings.MailHost, settings.MailUser, settings.MailPass,
		settings.MailName, settings.MailAddress,
	)
	if err != nil {
		log.Fatalf("Failed to configure mail gateway: %v", err)
	}

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(settings.MercadoPagoAccessToken)
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	submissionUseCase := usecase.NewSubmissionUseCase(submissionRepo, jobRepo, limiter, mailGateway, settings)
	jobUseCase := usecase.NewJobUseCase(jobRepo, submissionRepo, invoiceRepo, mailGateway, settings)
	invoiceUseCase := usecase.NewInvoiceUseCase(invoiceRepo, jobRepo, submissionRepo, paymentGateway, mailGateway, settings)
	testimonialUseCase := usecase.NewTestimonialUseCase(testimonialRepo, jobRepo, settings)

	submissionHandler := handlers.NewSubmissionHandler(submissionUseCase)
	jobHandler := handlers.NewJobHandler(jobUseCase)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceUseCase)
	testimonialHandler := handlers.NewTestimonialHandler(testimonialUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addSubmissionRoutes(v1, submissionHandler)
	addJobRoutes(v1, jobHandler, invoiceHandler)
	addInvoiceRoutes(v1, invoiceHandler)
	addTestimonialRoutes(v1, testimonialHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
