package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/api/metrics"
	"github.com/flujo/pos-system/internal/core/ports"
)

// PromotionHandler handles scheduling of hourly promotions.
type PromotionHandler struct {
	service ports.PromotionService
}

func NewPromotionHandler(service ports.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// List handles GET /v1/promotions.
//
// @Summary      List recent promotions
// @Description  Promotions dated within the last `days` days, today included, most recent first.
// @Tags         promotions
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window size in days (default 4)"
// @Success      200   {array}   promotionResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/promotions [get]
func (h *PromotionHandler) List(c echo.Context) error {
	var days int
	if err := echo.QueryParamsBinder(c).Int("days", &days).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "days must be an integer")
	}

	ps, err := h.service.ListPromotions(c.Request().Context(), ports.ListPromotionsInput{Days: days})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPromotionResponses(ps))
}

// Live handles GET /v1/promotions/live.
//
// @Summary      Catalog with live promotions applied
// @Description  Stored products with the promotions scheduled for the current hour overlaid. Highlights are not applied.
// @Tags         promotions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   productResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/promotions/live [get]
func (h *PromotionHandler) Live(c echo.Context) error {
	products, err := h.service.LiveCatalog(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}

// Create handles POST /v1/promotions.
//
// @Summary      Schedule a promotion for today
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPromotionRequest  true  "Promotion"
// @Success      201   {object}  promotionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/promotions [post]
func (h *PromotionHandler) Create(c echo.Context) error {
	var req createPromotionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.CreatePromotion(c.Request().Context(), ports.CreatePromotionInput{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Reason:      req.Reason,
		Hour:        req.Hour,
	})
	if err != nil {
		return err
	}

	metrics.PromotionOpsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toPromotionResponse(*p))
}

// Update handles PUT /v1/promotions/:id.
//
// @Summary      Change today's promotion
// @Description  Only promotions scheduled for today may be changed.
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Promotion id"
// @Param        body  body      updatePromotionRequest  true  "Fields to change"
// @Success      200   {object}  promotionResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/promotions/{id} [put]
func (h *PromotionHandler) Update(c echo.Context) error {
	var req updatePromotionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdatePromotion(c.Request().Context(), c.Param("id"), ports.UpdatePromotionInput{
		Reason: req.Reason,
		Hour:   req.Hour,
	})
	if err != nil {
		return err
	}

	metrics.PromotionOpsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toPromotionResponse(*p))
}

// Delete handles DELETE /v1/promotions/:id.
//
// @Summary      Delete a promotion
// @Tags         promotions
// @Security     BearerAuth
// @Param        id  path  string  true  "Promotion id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c echo.Context) error {
	if err := h.service.DeletePromotion(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.PromotionOpsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
