package routes

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yankele13-cmyk/gaddoors-sub000/docs" // generated swagger docs
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/http/handlers"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/persistence/repository"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/pricing"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/infrastructure/cache"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/infrastructure/database"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/infrastructure/payments"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"
)

var router = gin.Default()

const PORT = 8080

// Run starts the server.
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	orderRepo := repository.NewOrderDynamoRepository(ddb)
	rates := pricing.RatesFromEnv()

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	summaryCache := cache.NewRedisCacheFromEnv("gaddoors")
	if summaryCache == nil {
		log.Printf("REDIS_ADDR not set, dashboard summaries are computed per request")
	}

	orderUseCase := usecase.NewOrderUseCase(orderRepo, rates)
	ledgerUseCase := usecase.NewLedgerUseCase(orderRepo, paymentGateway)
	dashboardUseCase := usecase.NewDashboardUseCase(orderRepo, summaryCache, usecase.DefaultSummaryTTL)

	orderHandler := handlers.NewOrderHandler(orderUseCase)
	ledgerHandler := handlers.NewLedgerHandler(ledgerUseCase)
	dashboardHandler := handlers.NewDashboardHandler(dashboardUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addOrderRoutes(v1, orderHandler, ledgerHandler)
	addDashboardRoutes(v1, dashboardHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
