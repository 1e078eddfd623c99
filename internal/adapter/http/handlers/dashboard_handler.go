package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase"
	"github.com/yankele13-cmyk/gaddoors-sub000/pkg"
)

// DashboardHandler serves the cached order aggregates. Numbers may lag
// ledger writes by up to the cache TTL.

type DashboardHandler struct {
	usecase usecase.IDashboardUseCase
}

func NewDashboardHandler(uc usecase.IDashboardUseCase) *DashboardHandler {
	return &DashboardHandler{usecase: uc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.usecase.Summary(c.Request.Context())
	if err != nil {
		appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, summary)
}
