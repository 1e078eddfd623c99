package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/http/handlers"
)

const (
	PathOrders    = "/orders"
	PathDashboard = "/dashboard"
)

func addOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, ledgerHandler *handlers.LedgerHandler) {
	orders := rg.Group(PathOrders)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:order_id", orderHandler.GetOrder)
		orders.PATCH("/:order_id/cancel", orderHandler.CancelOrder)
		orders.DELETE("/:order_id", orderHandler.DeleteOrder)

		// Ledger: the only writers of payments and payment status.
		orders.POST("/:order_id/payments", ledgerHandler.AddPayment)
		orders.POST("/:order_id/payments/card", ledgerHandler.AddCardPayment)

		// Operational axis, gated on the order having been paid.
		orders.PATCH("/:order_id/schedule-installation", ledgerHandler.ScheduleInstallation)
		orders.PATCH("/:order_id/mark-installed", ledgerHandler.MarkInstalled)
		orders.PATCH("/:order_id/close", ledgerHandler.CloseOrder)
	}
}

func addDashboardRoutes(rg *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboard := rg.Group(PathDashboard)
	{
		dashboard.GET("/summary", dashboardHandler.Summary)
	}
}
