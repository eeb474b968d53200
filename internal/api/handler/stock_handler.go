package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/api/metrics"
	"github.com/flujo/pos-system/internal/core/ports"
)

type StockHandler struct {
	service ports.StockService
}

func NewStockHandler(service ports.StockService) *StockHandler {
	return &StockHandler{service: service}
}

// Update handles POST /v1/stock.
//
// @Summary      Set stock to an absolute quantity
// @Description  Scope ALL touches every product, CATEGORY needs category_id, SINGLE needs product_id.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      stockRequest  true  "Stock update"
// @Success      200   {object}  stockResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/stock [post]
func (h *StockHandler) Update(c echo.Context) error {
	var req stockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateStock(c.Request().Context(), toStockInput(req))
	if err != nil {
		return err
	}

	metrics.StockUpdatesTotal.WithLabelValues(req.Scope).Inc()
	metrics.StockProductsUpdatedTotal.Add(float64(res.UpdatedCount))

	return c.JSON(http.StatusOK, stockResponse{UpdatedCount: res.UpdatedCount})
}
