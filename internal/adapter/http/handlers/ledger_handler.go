package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	request "github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/http/dto/request"
	response "github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/http/dto/response"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase"
	"github.com/yankele13-cmyk/gaddoors-sub000/pkg"
)

var errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_PAYMENT_INPUT", "Invalid payment payload", http.StatusBadRequest)

// LedgerHandler fronts the order ledger: payment recording, the online card
// flow, and operational status transitions.

type LedgerHandler struct {
	usecase usecase.ILedgerUseCase
}

func NewLedgerHandler(uc usecase.ILedgerUseCase) *LedgerHandler {
	return &LedgerHandler{usecase: uc}
}

// AddPayment appends a manually collected payment to the order's ledger.
// Overpayments come back flagged in the response body, not as an error.
func (h *LedgerHandler) AddPayment(c *gin.Context) {
	var payload request.PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	in, err := payload.ResolveInput()
	if err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	result, err := h.usecase.AddPayment(c.Request.Context(), c.Param("order_id"), in)
	if err != nil {
		appErr := mapLedgerError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromPaymentResult(result))
}

// AddCardPayment charges through the payment gateway and records the approved
// charge.
func (h *LedgerHandler) AddCardPayment(c *gin.Context) {
	var payload request.CardPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	amount, err := payload.ResolveAmount()
	if err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	result, err := h.usecase.AddCardPaymentOnline(c.Request.Context(), c.Param("order_id"), amount, payload.GatewayPayload)
	if err != nil {
		appErr := mapLedgerError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromPaymentResult(result))
}

func (h *LedgerHandler) ScheduleInstallation(c *gin.Context) {
	var payload request.ScheduleInstallationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	order, err := h.usecase.ScheduleInstallation(c.Request.Context(), c.Param("order_id"), payload.InstallerRef)
	if err != nil {
		appErr := mapLedgerError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

func (h *LedgerHandler) MarkInstalled(c *gin.Context) {
	order, err := h.usecase.MarkInstalled(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		appErr := mapLedgerError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

func (h *LedgerHandler) CloseOrder(c *gin.Context) {
	order, err := h.usecase.CloseOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		appErr := mapLedgerError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

func mapLedgerError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID),
		errors.Is(err, usecase.ErrInvalidPaymentAmount),
		errors.Is(err, usecase.ErrInvalidPaymentMethod),
		errors.Is(err, usecase.ErrMissingCheckDetails),
		errors.Is(err, usecase.ErrMissingInstallerRef),
		errors.Is(err, usecase.ErrInvalidGatewayPayload):
		return pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrOrderTerminal):
		return pkg.NewDomainErrorSimple("ORDER_TERMINAL", "Order is in a terminal state", http.StatusConflict)
	case errors.Is(err, usecase.ErrNotReadyForInstallation),
		errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainError("INVALID_TRANSITION", err.Error(), err, http.StatusConflict)
	case errors.Is(err, usecase.ErrWriteConflict):
		return pkg.NewDomainErrorSimple("WRITE_CONFLICT", "Concurrent payment, retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("GATEWAY_NOT_CONFIGURED", "Payment gateway not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrGatewayRejected):
		return pkg.NewDomainErrorSimple("GATEWAY_REJECTED", "Payment gateway rejected the charge", http.StatusUnprocessableEntity)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
